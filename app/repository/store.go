package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
)

// Ledger is the full persistence surface. Methods behave the same
// whether backed by the pooled connection or a transaction; locking
// reads (ForUpdate, ConsumeEntitlement) only make sense inside ExecTx.
type Ledger interface {
	CreateUser(ctx context.Context, user *entity.User) error
	FindUserByID(ctx context.Context, id string) (*entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error

	CreateProduct(ctx context.Context, product *entity.Product) error
	FindProductByID(ctx context.Context, id string) (*entity.Product, error)
	FindProductByCode(ctx context.Context, code string) (*entity.Product, error)
	ListActiveProducts(ctx context.Context) ([]*entity.Product, error)
	FindActiveBookingProduct(ctx context.Context) (*entity.Product, error)

	CreateOrder(ctx context.Context, order *entity.Order) error
	FindOrderByID(ctx context.Context, id string) (*entity.Order, error)
	FindOrderByProviderRef(ctx context.Context, provider, providerRef string) (*entity.Order, error)
	UpdateOrder(ctx context.Context, order *entity.Order) error
	ListStalePendingOrders(ctx context.Context, olderThan time.Time, limit int32) ([]*entity.Order, error)

	CreatePaymentEvent(ctx context.Context, event *entity.PaymentEvent) error
	FindPaymentEventByEventID(ctx context.Context, eventID string) (*entity.PaymentEvent, error)
	MarkPaymentEventProcessed(ctx context.Context, id string, processedAt time.Time) error
	ListUnprocessedPaymentEvents(ctx context.Context, olderThan time.Time, limit int32) ([]*entity.PaymentEvent, error)

	CreateEntitlement(ctx context.Context, entitlement *entity.Entitlement) error
	FindEntitlementByOrderAndKind(ctx context.Context, sourceOrderID string, kind entity.EntitlementKind) (*entity.Entitlement, error)
	ListEntitlementsByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error)
	HasUsableEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error)
	ConsumeEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error)

	CreateSlot(ctx context.Context, slot *entity.Slot) error
	FindSlotByID(ctx context.Context, id string) (*entity.Slot, error)
	FindSlotByIDForUpdate(ctx context.Context, id string) (*entity.Slot, error)
	ListOpenSlots(ctx context.Context, from time.Time) ([]*entity.Slot, error)
	UpdateSlotStatus(ctx context.Context, id string, status entity.SlotStatus) error

	CreateBooking(ctx context.Context, booking *entity.Booking) error
	FindBookingByID(ctx context.Context, id string) (*entity.Booking, error)
	UpdateBooking(ctx context.Context, booking *entity.Booking) error
	ListBookingsByUser(ctx context.Context, userID string) ([]*BookingWithSlot, error)

	CreateAISession(ctx context.Context, session *entity.AISession) error
	FindAISessionByID(ctx context.Context, id string) (*entity.AISession, error)
	UpdateAISession(ctx context.Context, session *entity.AISession) error
	CreateAIMessage(ctx context.Context, message *entity.AIMessage) error
	ListAIMessagesBySession(ctx context.Context, sessionID string) ([]*entity.AIMessage, error)
	CreateAIEvaluation(ctx context.Context, evaluation *entity.AIEvaluation) error

	CreateTopic(ctx context.Context, topic *entity.Topic) error
	FindTopicBySlug(ctx context.Context, slug string) (*entity.Topic, error)
	CreateQuestion(ctx context.Context, question *entity.Question) error
	RandomQuestion(ctx context.Context, minLevel, maxLevel int32) (*entity.Question, error)

	CreateDiagnosticSubmission(ctx context.Context, submission *entity.DiagnosticSubmission) error
}

type BookingWithSlot struct {
	Booking *entity.Booking
	Slot    *entity.Slot
}

type queries struct {
	db DBTX
}

// Store implements Ledger on the pooled connection and opens
// transactions via ExecTx.
type Store struct {
	*queries
	sqlDB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{queries: &queries{db: db}, sqlDB: db}
}

// ExecTx runs fn inside a single database transaction. The Ledger
// passed to fn is scoped to that transaction; any error rolls the
// whole transaction back.
func (s *Store) ExecTx(ctx context.Context, fn func(Ledger) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
