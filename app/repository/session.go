package repository

import (
	"context"
	"database/sql"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateAISession(ctx context.Context, session *entity.AISession) error {
	query := `
		INSERT INTO ai_sessions (id, user_id, mode, locale, status, started_at, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		string(session.Mode),
		session.Locale,
		string(session.Status),
		session.StartedAt,
		nullableTimeValue(session.ClosedAt),
	)
	return err
}

func (q *queries) FindAISessionByID(ctx context.Context, id string) (*entity.AISession, error) {
	query := `
		SELECT id, user_id, mode, locale, status, started_at, closed_at
		FROM ai_sessions
		WHERE id = ?
	`

	session := &entity.AISession{}
	var mode, status string
	var closedAt sql.NullTime
	err := q.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&mode,
		&session.Locale,
		&status,
		&session.StartedAt,
		&closedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	session.Mode = entity.SessionMode(mode)
	session.Status = entity.SessionStatus(status)
	session.ClosedAt = timePtrFromNull(closedAt)
	return session, nil
}

func (q *queries) UpdateAISession(ctx context.Context, session *entity.AISession) error {
	query := `
		UPDATE ai_sessions SET
			status = ?,
			closed_at = ?
		WHERE id = ?
	`

	_, err := q.db.ExecContext(ctx, query,
		string(session.Status),
		nullableTimeValue(session.ClosedAt),
		session.ID,
	)
	return err
}

func (q *queries) CreateAIMessage(ctx context.Context, message *entity.AIMessage) error {
	query := `
		INSERT INTO ai_messages (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		message.ID,
		message.SessionID,
		string(message.Role),
		message.Content,
		message.CreatedAt,
	)
	return err
}

func (q *queries) ListAIMessagesBySession(ctx context.Context, sessionID string) ([]*entity.AIMessage, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM ai_messages
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.AIMessage, 0)
	for rows.Next() {
		message := &entity.AIMessage{}
		var role string
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&role,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		message.Role = entity.MessageRole(role)
		items = append(items, message)
	}
	return items, rows.Err()
}

func (q *queries) CreateAIEvaluation(ctx context.Context, evaluation *entity.AIEvaluation) error {
	scoresJSON, err := serializeIntMap(evaluation.RubricScores)
	if err != nil {
		return err
	}
	issuesJSON, err := serializeJSONMap(evaluation.DetectedIssues)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ai_evaluations (id, session_id, message_id, rubric_scores_json, summary_feedback, detected_issues_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.db.ExecContext(ctx, query,
		evaluation.ID,
		evaluation.SessionID,
		evaluation.MessageID,
		scoresJSON,
		evaluation.SummaryFeedback,
		issuesJSON,
		evaluation.CreatedAt,
	)
	return err
}
