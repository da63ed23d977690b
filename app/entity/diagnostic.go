package entity

import "time"

type DiagnosticSubmission struct {
	ID              string
	UserID          *string
	Reasons         []string
	OtherReason     *string
	Situation       string
	History         string
	Goal            string
	RecommendedPlan string
	CreatedAt       time.Time
}
