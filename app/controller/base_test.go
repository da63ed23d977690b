package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/repository"
	"github.com/klarkurs/mpu-platform/app/types"
)

// controllerStore stubs the persistence surface with overridable
// function fields. The embedded Ledger is nil, so hitting a method a
// test did not stub panics loudly instead of passing silently.
type controllerStore struct {
	repository.Ledger

	createUserFn           func(ctx context.Context, user *entity.User) error
	findUserByIDFn         func(ctx context.Context, id string) (*entity.User, error)
	findUserByEmailFn      func(ctx context.Context, email string) (*entity.User, error)
	findProductByIDFn      func(ctx context.Context, id string) (*entity.Product, error)
	listActiveProductsFn   func(ctx context.Context) ([]*entity.Product, error)
	findOrderByIDFn        func(ctx context.Context, id string) (*entity.Order, error)
	findEventByEventIDFn   func(ctx context.Context, eventID string) (*entity.PaymentEvent, error)
	hasUsableFn            func(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error)
	consumeFn              func(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error)
	findSlotByIDFn         func(ctx context.Context, id string) (*entity.Slot, error)
	listOpenSlotsFn        func(ctx context.Context, from time.Time) ([]*entity.Slot, error)
	createBookingFn        func(ctx context.Context, booking *entity.Booking) error
	findBookingByIDFn      func(ctx context.Context, id string) (*entity.Booking, error)
	findAISessionByIDFn    func(ctx context.Context, id string) (*entity.AISession, error)
	randomQuestionFn       func(ctx context.Context, minLevel, maxLevel int32) (*entity.Question, error)
	findActiveBookingPrFn  func(ctx context.Context) (*entity.Product, error)
	listEntitlementsFn     func(ctx context.Context, userID string) ([]*entity.Entitlement, error)
	createdDiagnostics     []*entity.DiagnosticSubmission
	createdEvents          []*entity.PaymentEvent
	markedProcessedEventID string
}

func (s *controllerStore) ExecTx(_ context.Context, fn func(repository.Ledger) error) error {
	return fn(s)
}

func (s *controllerStore) CreateUser(ctx context.Context, user *entity.User) error {
	if s.createUserFn != nil {
		return s.createUserFn(ctx, user)
	}
	return nil
}

func (s *controllerStore) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	if s.findUserByIDFn != nil {
		return s.findUserByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *controllerStore) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findUserByEmailFn != nil {
		return s.findUserByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *controllerStore) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	if s.findProductByIDFn != nil {
		return s.findProductByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *controllerStore) ListActiveProducts(ctx context.Context) ([]*entity.Product, error) {
	if s.listActiveProductsFn != nil {
		return s.listActiveProductsFn(ctx)
	}
	return []*entity.Product{}, nil
}

func (s *controllerStore) FindActiveBookingProduct(ctx context.Context) (*entity.Product, error) {
	if s.findActiveBookingPrFn != nil {
		return s.findActiveBookingPrFn(ctx)
	}
	return nil, nil
}

func (s *controllerStore) CreateOrder(context.Context, *entity.Order) error { return nil }

func (s *controllerStore) UpdateOrder(context.Context, *entity.Order) error { return nil }

func (s *controllerStore) FindOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	if s.findOrderByIDFn != nil {
		return s.findOrderByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *controllerStore) CreatePaymentEvent(_ context.Context, event *entity.PaymentEvent) error {
	s.createdEvents = append(s.createdEvents, event)
	return nil
}

func (s *controllerStore) FindPaymentEventByEventID(ctx context.Context, eventID string) (*entity.PaymentEvent, error) {
	if s.findEventByEventIDFn != nil {
		return s.findEventByEventIDFn(ctx, eventID)
	}
	return nil, nil
}

func (s *controllerStore) MarkPaymentEventProcessed(_ context.Context, id string, _ time.Time) error {
	s.markedProcessedEventID = id
	return nil
}

func (s *controllerStore) CreateEntitlement(context.Context, *entity.Entitlement) error { return nil }

func (s *controllerStore) FindEntitlementByOrderAndKind(context.Context, string, entity.EntitlementKind) (*entity.Entitlement, error) {
	return nil, nil
}

func (s *controllerStore) ListEntitlementsByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	if s.listEntitlementsFn != nil {
		return s.listEntitlementsFn(ctx, userID)
	}
	return []*entity.Entitlement{}, nil
}

func (s *controllerStore) HasUsableEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	if s.hasUsableFn != nil {
		return s.hasUsableFn(ctx, userID, kind, now)
	}
	return false, nil
}

func (s *controllerStore) ConsumeEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	if s.consumeFn != nil {
		return s.consumeFn(ctx, userID, kind, now)
	}
	return false, nil
}

func (s *controllerStore) FindSlotByID(ctx context.Context, id string) (*entity.Slot, error) {
	if s.findSlotByIDFn != nil {
		return s.findSlotByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *controllerStore) FindSlotByIDForUpdate(ctx context.Context, id string) (*entity.Slot, error) {
	return s.FindSlotByID(ctx, id)
}

func (s *controllerStore) ListOpenSlots(ctx context.Context, from time.Time) ([]*entity.Slot, error) {
	if s.listOpenSlotsFn != nil {
		return s.listOpenSlotsFn(ctx, from)
	}
	return []*entity.Slot{}, nil
}

func (s *controllerStore) UpdateSlotStatus(context.Context, string, entity.SlotStatus) error {
	return nil
}

func (s *controllerStore) CreateBooking(ctx context.Context, booking *entity.Booking) error {
	if s.createBookingFn != nil {
		return s.createBookingFn(ctx, booking)
	}
	return nil
}

func (s *controllerStore) FindBookingByID(ctx context.Context, id string) (*entity.Booking, error) {
	if s.findBookingByIDFn != nil {
		return s.findBookingByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *controllerStore) UpdateBooking(context.Context, *entity.Booking) error { return nil }

func (s *controllerStore) ListBookingsByUser(context.Context, string) ([]*repository.BookingWithSlot, error) {
	return []*repository.BookingWithSlot{}, nil
}

func (s *controllerStore) CreateAISession(context.Context, *entity.AISession) error { return nil }

func (s *controllerStore) FindAISessionByID(ctx context.Context, id string) (*entity.AISession, error) {
	if s.findAISessionByIDFn != nil {
		return s.findAISessionByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *controllerStore) UpdateAISession(context.Context, *entity.AISession) error { return nil }

func (s *controllerStore) CreateAIMessage(context.Context, *entity.AIMessage) error { return nil }

func (s *controllerStore) ListAIMessagesBySession(context.Context, string) ([]*entity.AIMessage, error) {
	return []*entity.AIMessage{}, nil
}

func (s *controllerStore) CreateAIEvaluation(context.Context, *entity.AIEvaluation) error { return nil }

func (s *controllerStore) RandomQuestion(ctx context.Context, minLevel, maxLevel int32) (*entity.Question, error) {
	if s.randomQuestionFn != nil {
		return s.randomQuestionFn(ctx, minLevel, maxLevel)
	}
	return nil, nil
}

func (s *controllerStore) CreateDiagnosticSubmission(_ context.Context, submission *entity.DiagnosticSubmission) error {
	s.createdDiagnostics = append(s.createdDiagnostics, submission)
	return nil
}

func testUser(id string) *entity.User {
	now := time.Now().UTC()
	return &entity.User{
		ID:        id,
		Email:     id + "@example.com",
		Name:      "Test User",
		Locale:    "de",
		Role:      entity.RoleUser,
		Status:    entity.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorBody {
	t.Helper()
	var payload types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal error body failed: %v", err)
	}
	return payload.Error
}
