package entity

import "time"

type SessionMode string

const (
	SessionModeDiagnostic SessionMode = "diagnostic"
	SessionModePractice   SessionMode = "practice"
	SessionModeMock       SessionMode = "mock"
)

func (m SessionMode) Valid() bool {
	switch m {
	case SessionModeDiagnostic, SessionModePractice, SessionModeMock:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusClosed SessionStatus = "closed"
)

type AISession struct {
	ID        string
	UserID    string
	Mode      SessionMode
	Locale    string
	Status    SessionStatus
	StartedAt time.Time
	ClosedAt  *time.Time
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type AIMessage struct {
	ID        string
	SessionID string
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}

// AIEvaluation holds the heuristic rubric scores for one user answer.
type AIEvaluation struct {
	ID              string
	SessionID       string
	MessageID       string
	RubricScores    map[string]int
	SummaryFeedback string
	DetectedIssues  map[string]interface{}
	CreatedAt       time.Time
}
