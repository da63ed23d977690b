package repository

import (
	"context"
	"database/sql"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateTopic(ctx context.Context, topic *entity.Topic) error {
	query := `
		INSERT INTO topics (id, slug, title_de, title_en, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		topic.ID,
		topic.Slug,
		topic.TitleDE,
		topic.TitleEN,
		topic.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrTopicSlugTaken
		}
		return err
	}
	return nil
}

func (q *queries) FindTopicBySlug(ctx context.Context, slug string) (*entity.Topic, error) {
	query := `
		SELECT id, slug, title_de, title_en, created_at
		FROM topics
		WHERE slug = ?
	`

	topic := &entity.Topic{}
	err := q.db.QueryRowContext(ctx, query, slug).Scan(
		&topic.ID,
		&topic.Slug,
		&topic.TitleDE,
		&topic.TitleEN,
		&topic.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return topic, nil
}

func (q *queries) CreateQuestion(ctx context.Context, question *entity.Question) error {
	tagsJSON, err := serializeStringList(question.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO questions (id, topic_id, level, question_de, question_en, intent, tags_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.db.ExecContext(ctx, query,
		question.ID,
		question.TopicID,
		question.Level,
		question.QuestionDE,
		question.QuestionEN,
		question.Intent,
		tagsJSON,
		question.CreatedAt,
	)
	return err
}

// RandomQuestion picks a random question within the level band. The
// bank is small enough that ORDER BY RAND() is fine.
func (q *queries) RandomQuestion(ctx context.Context, minLevel, maxLevel int32) (*entity.Question, error) {
	query := `
		SELECT id, topic_id, level, question_de, question_en, intent, tags_json, created_at
		FROM questions
		WHERE level BETWEEN ? AND ?
		ORDER BY RAND()
		LIMIT 1
	`

	question := &entity.Question{}
	var tagsJSON string
	err := q.db.QueryRowContext(ctx, query, minLevel, maxLevel).Scan(
		&question.ID,
		&question.TopicID,
		&question.Level,
		&question.QuestionDE,
		&question.QuestionEN,
		&question.Intent,
		&tagsJSON,
		&question.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tags, err := parseStringList(tagsJSON)
	if err != nil {
		return nil, err
	}
	question.Tags = tags
	return question, nil
}
