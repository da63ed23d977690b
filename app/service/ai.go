package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/llm"
	"github.com/klarkurs/mpu-platform/app/repository"
	"github.com/klarkurs/mpu-platform/app/scoring"
	"github.com/klarkurs/mpu-platform/app/types"
)

type replyGenerator interface {
	GenerateReply(ctx context.Context, input *llm.ReplyInput) string
}

type AIService struct {
	store Store
	llm   replyGenerator
}

func NewAIService(store Store, replyGen replyGenerator) *AIService {
	return &AIService{store: store, llm: replyGen}
}

// Question difficulty bands per session mode.
var sessionLevelBands = map[entity.SessionMode][2]int32{
	entity.SessionModeDiagnostic: {1, 2},
	entity.SessionModePractice:   {2, 4},
	entity.SessionModeMock:       {3, 5},
}

func (s *AIService) CreateSession(ctx context.Context, user *entity.User, req *types.CreateSessionRequest) (*entity.AISession, error) {
	mode := entity.SessionMode(req.Mode)
	if !mode.Valid() {
		return nil, ErrBadMode
	}
	locale := req.Locale
	if locale == "" {
		locale = user.Locale
	}

	session := &entity.AISession{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Mode:      mode,
		Locale:    locale,
		Status:    entity.SessionStatusActive,
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAISession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AIService) GetSession(ctx context.Context, user *entity.User, sessionID string) (*entity.AISession, error) {
	return s.ownedSession(ctx, user, sessionID)
}

func (s *AIService) ListMessages(ctx context.Context, user *entity.User, sessionID string) ([]*entity.AIMessage, error) {
	if _, err := s.ownedSession(ctx, user, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListAIMessagesBySession(ctx, sessionID)
}

type SendMessageResult struct {
	UserMessage      *entity.AIMessage
	AssistantMessage *entity.AIMessage
	Evaluation       *entity.AIEvaluation
	CreditsLeft      int32
}

// SendMessage runs one trainer turn: score the answer, pick a follow-up
// question, generate the examiner reply, then debit a credit and
// persist everything in a single transaction. The LLM call happens
// before the transaction so no network wait ever holds row locks; the
// cheap precheck keeps obviously broke users from burning LLM calls,
// while the in-transaction consume is the authoritative gate.
func (s *AIService) SendMessage(ctx context.Context, user *entity.User, sessionID, content string) (*SendMessageResult, error) {
	session, err := s.ownedSession(ctx, user, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != entity.SessionStatusActive {
		return nil, ErrSessionClosed
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidRequest
	}

	now := time.Now().UTC()
	usable, err := s.store.HasUsableEntitlement(ctx, user.ID, entity.EntitlementKindAICredits, now)
	if err != nil {
		return nil, err
	}
	if !usable {
		return nil, ErrNoCredits
	}

	evaluation := scoring.EvaluateAnswer(content)
	question := s.nextQuestion(ctx, session)
	reply := s.llm.GenerateReply(ctx, &llm.ReplyInput{
		Mode:       string(session.Mode),
		Locale:     session.Locale,
		Question:   question,
		UserAnswer: content,
	})

	result := &SendMessageResult{}
	err = s.store.ExecTx(ctx, func(ledger repository.Ledger) error {
		consumed, err := ledger.ConsumeEntitlement(ctx, user.ID, entity.EntitlementKindAICredits, time.Now().UTC())
		if err != nil {
			return err
		}
		if !consumed {
			return ErrNoCredits
		}

		sentAt := time.Now().UTC()
		userMessage := &entity.AIMessage{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Role:      entity.MessageRoleUser,
			Content:   content,
			CreatedAt: sentAt,
		}
		if err := ledger.CreateAIMessage(ctx, userMessage); err != nil {
			return err
		}

		assistantMessage := &entity.AIMessage{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			Role:      entity.MessageRoleAssistant,
			Content:   reply,
			CreatedAt: sentAt.Add(time.Millisecond),
		}
		if err := ledger.CreateAIMessage(ctx, assistantMessage); err != nil {
			return err
		}

		record := &entity.AIEvaluation{
			ID:              uuid.NewString(),
			SessionID:       session.ID,
			MessageID:       userMessage.ID,
			RubricScores:    evaluation.RubricScores,
			SummaryFeedback: evaluation.SummaryFeedback,
			DetectedIssues: map[string]interface{}{
				"contradictions": evaluation.Contradictions,
				"flags":          evaluation.Flags,
			},
			CreatedAt: sentAt,
		}
		if err := ledger.CreateAIEvaluation(ctx, record); err != nil {
			return err
		}

		result.UserMessage = userMessage
		result.AssistantMessage = assistantMessage
		result.Evaluation = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	creditsLeft, err := s.remainingCredits(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	result.CreditsLeft = creditsLeft
	return result, nil
}

// CloseSession is idempotent: closing a closed session returns it
// unchanged.
func (s *AIService) CloseSession(ctx context.Context, user *entity.User, sessionID string) (*entity.AISession, error) {
	session, err := s.ownedSession(ctx, user, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == entity.SessionStatusClosed {
		return session, nil
	}

	now := time.Now().UTC()
	session.Status = entity.SessionStatusClosed
	session.ClosedAt = &now
	if err := s.store.UpdateAISession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AIService) ownedSession(ctx context.Context, user *entity.User, sessionID string) (*entity.AISession, error) {
	session, err := s.store.FindAISessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != user.ID {
		return nil, ErrNotFound
	}
	return session, nil
}

// nextQuestion draws from the question bank within the mode's level
// band, widening to the full range when the band is empty. An empty
// bank yields "" and the reply generator falls back to generic text.
func (s *AIService) nextQuestion(ctx context.Context, session *entity.AISession) string {
	band, ok := sessionLevelBands[session.Mode]
	if !ok {
		band = [2]int32{1, 5}
	}

	question, err := s.store.RandomQuestion(ctx, band[0], band[1])
	if err != nil || question == nil {
		question, err = s.store.RandomQuestion(ctx, 1, 5)
	}
	if err != nil || question == nil {
		return ""
	}
	return question.Text(session.Locale)
}

func (s *AIService) remainingCredits(ctx context.Context, userID string) (int32, error) {
	entitlements, err := s.store.ListEntitlementsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	var total int32
	for _, entitlement := range entitlements {
		if entitlement.Kind != entity.EntitlementKindAICredits {
			continue
		}
		if entitlement.ValidFrom.After(now) {
			continue
		}
		if entitlement.ValidTo != nil && entitlement.ValidTo.Before(now) {
			continue
		}
		total += entitlement.Remaining()
	}
	return total, nil
}
