package entity

import "time"

type Topic struct {
	ID        string
	Slug      string
	TitleDE   string
	TitleEN   string
	CreatedAt time.Time
}

// Question levels run 1 (warm-up) to 5 (examiner pressure).
type Question struct {
	ID         string
	TopicID    string
	Level      int32
	QuestionDE string
	QuestionEN string
	Intent     string
	Tags       []string
	CreatedAt  time.Time
}

func (q *Question) Text(locale string) string {
	if locale == "de" && q.QuestionDE != "" {
		return q.QuestionDE
	}
	if q.QuestionEN != "" {
		return q.QuestionEN
	}
	return q.QuestionDE
}
