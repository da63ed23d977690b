package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/scoring"
	"github.com/klarkurs/mpu-platform/app/types"
)

type DiagnosticService struct {
	store Store
}

func NewDiagnosticService(store Store) *DiagnosticService {
	return &DiagnosticService{store: store}
}

// Submit persists a diagnostic questionnaire and returns the
// recommended plan. The user is optional; the public funnel submits
// anonymously.
func (s *DiagnosticService) Submit(ctx context.Context, user *entity.User, req *types.DiagnosticRequest) (*entity.DiagnosticSubmission, error) {
	plan := scoring.DetectPlan(req.Reasons, req.Situation, req.History, req.Goal)

	submission := &entity.DiagnosticSubmission{
		ID:              uuid.NewString(),
		Reasons:         req.Reasons,
		Situation:       req.Situation,
		History:         req.History,
		Goal:            req.Goal,
		RecommendedPlan: plan,
		CreatedAt:       time.Now().UTC(),
	}
	if user != nil {
		userID := user.ID
		submission.UserID = &userID
	}
	if req.OtherReason != "" {
		other := req.OtherReason
		submission.OtherReason = &other
	}

	if err := s.store.CreateDiagnosticSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}
