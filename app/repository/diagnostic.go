package repository

import (
	"context"

	"github.com/klarkurs/mpu-platform/app/entity"
)

func (q *queries) CreateDiagnosticSubmission(ctx context.Context, submission *entity.DiagnosticSubmission) error {
	reasonsJSON, err := serializeStringList(submission.Reasons)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO diagnostic_submissions (id, user_id, reasons_json, other_reason, situation, history, goal, recommended_plan, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = q.db.ExecContext(ctx, query,
		submission.ID,
		nullableStringValue(submission.UserID),
		reasonsJSON,
		nullableStringValue(submission.OtherReason),
		submission.Situation,
		submission.History,
		submission.Goal,
		submission.RecommendedPlan,
		submission.CreatedAt,
	)
	return err
}
