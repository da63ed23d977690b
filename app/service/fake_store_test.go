package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/repository"
)

// storeState implements repository.Ledger on plain maps and slices. It
// does no locking itself; fakeStore serializes access and hands the
// bare state to ExecTx callbacks while holding the lock.
type storeState struct {
	users        map[string]*entity.User
	products     map[string]*entity.Product
	orders       map[string]*entity.Order
	events       map[string]*entity.PaymentEvent
	entitlements []*entity.Entitlement
	slots        map[string]*entity.Slot
	bookings     map[string]*entity.Booking
	sessions     map[string]*entity.AISession
	messages     []*entity.AIMessage
	evaluations  []*entity.AIEvaluation
	topics       map[string]*entity.Topic
	questions    []*entity.Question
	diagnostics  []*entity.DiagnosticSubmission
}

func newStoreState() *storeState {
	return &storeState{
		users:    map[string]*entity.User{},
		products: map[string]*entity.Product{},
		orders:   map[string]*entity.Order{},
		events:   map[string]*entity.PaymentEvent{},
		slots:    map[string]*entity.Slot{},
		bookings: map[string]*entity.Booking{},
		sessions: map[string]*entity.AISession{},
		topics:   map[string]*entity.Topic{},
	}
}

func (st *storeState) clone() *storeState {
	copied := newStoreState()
	for id, item := range st.users {
		copyItem := *item
		copied.users[id] = &copyItem
	}
	for id, item := range st.products {
		copyItem := *item
		copied.products[id] = &copyItem
	}
	for id, item := range st.orders {
		copyItem := *item
		copied.orders[id] = &copyItem
	}
	for id, item := range st.events {
		copyItem := *item
		copied.events[id] = &copyItem
	}
	for _, item := range st.entitlements {
		copyItem := *item
		copied.entitlements = append(copied.entitlements, &copyItem)
	}
	for id, item := range st.slots {
		copyItem := *item
		copied.slots[id] = &copyItem
	}
	for id, item := range st.bookings {
		copyItem := *item
		copied.bookings[id] = &copyItem
	}
	for id, item := range st.sessions {
		copyItem := *item
		copied.sessions[id] = &copyItem
	}
	for _, item := range st.messages {
		copyItem := *item
		copied.messages = append(copied.messages, &copyItem)
	}
	for _, item := range st.evaluations {
		copyItem := *item
		copied.evaluations = append(copied.evaluations, &copyItem)
	}
	for id, item := range st.topics {
		copyItem := *item
		copied.topics[id] = &copyItem
	}
	for _, item := range st.questions {
		copyItem := *item
		copied.questions = append(copied.questions, &copyItem)
	}
	for _, item := range st.diagnostics {
		copyItem := *item
		copied.diagnostics = append(copied.diagnostics, &copyItem)
	}
	return copied
}

func (st *storeState) CreateUser(_ context.Context, user *entity.User) error {
	for _, item := range st.users {
		if item.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	copyItem := *user
	st.users[user.ID] = &copyItem
	return nil
}

func (st *storeState) FindUserByID(_ context.Context, id string) (*entity.User, error) {
	item, ok := st.users[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (st *storeState) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, item := range st.users {
		if item.Email == email {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) UpdateUser(_ context.Context, user *entity.User) error {
	copyItem := *user
	st.users[user.ID] = &copyItem
	return nil
}

func (st *storeState) CreateProduct(_ context.Context, product *entity.Product) error {
	for _, item := range st.products {
		if item.Code == product.Code {
			return repository.ErrProductCodeTaken
		}
	}
	copyItem := *product
	st.products[product.ID] = &copyItem
	return nil
}

func (st *storeState) FindProductByID(_ context.Context, id string) (*entity.Product, error) {
	item, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (st *storeState) FindProductByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, item := range st.products {
		if item.Code == code {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) ListActiveProducts(_ context.Context) ([]*entity.Product, error) {
	items := make([]*entity.Product, 0)
	for _, item := range st.products {
		if !item.Active {
			continue
		}
		copyItem := *item
		items = append(items, &copyItem)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return items, nil
}

func (st *storeState) FindActiveBookingProduct(_ context.Context) (*entity.Product, error) {
	var found *entity.Product
	for _, item := range st.products {
		if !item.Active || item.Type != entity.ProductTypeBooking {
			continue
		}
		if found == nil || item.Code < found.Code {
			found = item
		}
	}
	if found == nil {
		return nil, nil
	}
	copyItem := *found
	return &copyItem, nil
}

func (st *storeState) CreateOrder(_ context.Context, order *entity.Order) error {
	for _, item := range st.orders {
		if item.Provider == order.Provider && item.ProviderRef == order.ProviderRef {
			return repository.ErrOrderRefTaken
		}
	}
	copyItem := *order
	st.orders[order.ID] = &copyItem
	return nil
}

func (st *storeState) FindOrderByID(_ context.Context, id string) (*entity.Order, error) {
	item, ok := st.orders[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (st *storeState) FindOrderByProviderRef(_ context.Context, provider, providerRef string) (*entity.Order, error) {
	for _, item := range st.orders {
		if item.Provider == provider && item.ProviderRef == providerRef {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) UpdateOrder(_ context.Context, order *entity.Order) error {
	copyItem := *order
	st.orders[order.ID] = &copyItem
	return nil
}

func (st *storeState) ListStalePendingOrders(_ context.Context, olderThan time.Time, limit int32) ([]*entity.Order, error) {
	items := make([]*entity.Order, 0)
	for _, item := range st.orders {
		if item.Status == entity.OrderStatusPending && item.CreatedAt.Before(olderThan) {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (st *storeState) CreatePaymentEvent(_ context.Context, event *entity.PaymentEvent) error {
	for _, item := range st.events {
		if item.EventID == event.EventID {
			return repository.ErrPaymentEventExists
		}
	}
	copyItem := *event
	st.events[event.ID] = &copyItem
	return nil
}

func (st *storeState) FindPaymentEventByEventID(_ context.Context, eventID string) (*entity.PaymentEvent, error) {
	for _, item := range st.events {
		if item.EventID == eventID {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) MarkPaymentEventProcessed(_ context.Context, id string, processedAt time.Time) error {
	item, ok := st.events[id]
	if !ok || item.ProcessedAt != nil {
		return nil
	}
	stamped := processedAt
	item.ProcessedAt = &stamped
	return nil
}

func (st *storeState) ListUnprocessedPaymentEvents(_ context.Context, olderThan time.Time, limit int32) ([]*entity.PaymentEvent, error) {
	items := make([]*entity.PaymentEvent, 0)
	for _, item := range st.events {
		if item.ProcessedAt == nil && item.ReceivedAt.Before(olderThan) {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ReceivedAt.Before(items[j].ReceivedAt) })
	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (st *storeState) CreateEntitlement(_ context.Context, entitlement *entity.Entitlement) error {
	for _, item := range st.entitlements {
		if item.SourceOrderID == entitlement.SourceOrderID && item.Kind == entitlement.Kind {
			return repository.ErrEntitlementExists
		}
	}
	copyItem := *entitlement
	st.entitlements = append(st.entitlements, &copyItem)
	return nil
}

func (st *storeState) FindEntitlementByOrderAndKind(_ context.Context, sourceOrderID string, kind entity.EntitlementKind) (*entity.Entitlement, error) {
	for _, item := range st.entitlements {
		if item.SourceOrderID == sourceOrderID && item.Kind == kind {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) ListEntitlementsByUser(_ context.Context, userID string) ([]*entity.Entitlement, error) {
	items := make([]*entity.Entitlement, 0)
	for _, item := range st.entitlements {
		if item.UserID == userID {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (st *storeState) usableEntitlements(userID string, kind entity.EntitlementKind, now time.Time) []*entity.Entitlement {
	items := make([]*entity.Entitlement, 0)
	for _, item := range st.entitlements {
		if item.UserID != userID || item.Kind != kind {
			continue
		}
		if item.Remaining() <= 0 {
			continue
		}
		if item.ValidFrom.After(now) {
			continue
		}
		if item.ValidTo != nil && item.ValidTo.Before(now) {
			continue
		}
		items = append(items, item)
	}
	// Expiring entitlements burn first, matching the SQL ordering.
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.ValidTo == nil) != (b.ValidTo == nil) {
			return a.ValidTo != nil
		}
		if a.ValidTo != nil && b.ValidTo != nil && !a.ValidTo.Equal(*b.ValidTo) {
			return a.ValidTo.Before(*b.ValidTo)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return items
}

func (st *storeState) HasUsableEntitlement(_ context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	return len(st.usableEntitlements(userID, kind, now)) > 0, nil
}

func (st *storeState) ConsumeEntitlement(_ context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	items := st.usableEntitlements(userID, kind, now)
	if len(items) == 0 {
		return false, nil
	}
	items[0].QtyUsed++
	return true, nil
}

func (st *storeState) CreateSlot(_ context.Context, slot *entity.Slot) error {
	copyItem := *slot
	st.slots[slot.ID] = &copyItem
	return nil
}

func (st *storeState) FindSlotByID(_ context.Context, id string) (*entity.Slot, error) {
	item, ok := st.slots[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (st *storeState) FindSlotByIDForUpdate(ctx context.Context, id string) (*entity.Slot, error) {
	return st.FindSlotByID(ctx, id)
}

func (st *storeState) ListOpenSlots(_ context.Context, from time.Time) ([]*entity.Slot, error) {
	items := make([]*entity.Slot, 0)
	for _, item := range st.slots {
		if item.Status == entity.SlotStatusOpen && item.StartsAt.After(from) {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].StartsAt.Before(items[j].StartsAt) })
	return items, nil
}

func (st *storeState) UpdateSlotStatus(_ context.Context, id string, status entity.SlotStatus) error {
	if item, ok := st.slots[id]; ok {
		item.Status = status
	}
	return nil
}

func (st *storeState) CreateBooking(_ context.Context, booking *entity.Booking) error {
	for _, item := range st.bookings {
		if item.SlotID == booking.SlotID {
			return repository.ErrSlotAlreadyBooked
		}
	}
	copyItem := *booking
	st.bookings[booking.ID] = &copyItem
	return nil
}

func (st *storeState) FindBookingByID(_ context.Context, id string) (*entity.Booking, error) {
	item, ok := st.bookings[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (st *storeState) UpdateBooking(_ context.Context, booking *entity.Booking) error {
	copyItem := *booking
	st.bookings[booking.ID] = &copyItem
	return nil
}

func (st *storeState) ListBookingsByUser(_ context.Context, userID string) ([]*repository.BookingWithSlot, error) {
	items := make([]*repository.BookingWithSlot, 0)
	for _, item := range st.bookings {
		if item.UserID != userID {
			continue
		}
		slot, ok := st.slots[item.SlotID]
		if !ok {
			continue
		}
		bookingCopy := *item
		slotCopy := *slot
		items = append(items, &repository.BookingWithSlot{Booking: &bookingCopy, Slot: &slotCopy})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Slot.StartsAt.Before(items[j].Slot.StartsAt) })
	return items, nil
}

func (st *storeState) CreateAISession(_ context.Context, session *entity.AISession) error {
	copyItem := *session
	st.sessions[session.ID] = &copyItem
	return nil
}

func (st *storeState) FindAISessionByID(_ context.Context, id string) (*entity.AISession, error) {
	item, ok := st.sessions[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (st *storeState) UpdateAISession(_ context.Context, session *entity.AISession) error {
	copyItem := *session
	st.sessions[session.ID] = &copyItem
	return nil
}

func (st *storeState) CreateAIMessage(_ context.Context, message *entity.AIMessage) error {
	copyItem := *message
	st.messages = append(st.messages, &copyItem)
	return nil
}

func (st *storeState) ListAIMessagesBySession(_ context.Context, sessionID string) ([]*entity.AIMessage, error) {
	items := make([]*entity.AIMessage, 0)
	for _, item := range st.messages {
		if item.SessionID == sessionID {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (st *storeState) CreateAIEvaluation(_ context.Context, evaluation *entity.AIEvaluation) error {
	copyItem := *evaluation
	st.evaluations = append(st.evaluations, &copyItem)
	return nil
}

func (st *storeState) CreateTopic(_ context.Context, topic *entity.Topic) error {
	for _, item := range st.topics {
		if item.Slug == topic.Slug {
			return repository.ErrTopicSlugTaken
		}
	}
	copyItem := *topic
	st.topics[topic.ID] = &copyItem
	return nil
}

func (st *storeState) FindTopicBySlug(_ context.Context, slug string) (*entity.Topic, error) {
	for _, item := range st.topics {
		if item.Slug == slug {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) CreateQuestion(_ context.Context, question *entity.Question) error {
	copyItem := *question
	st.questions = append(st.questions, &copyItem)
	return nil
}

func (st *storeState) RandomQuestion(_ context.Context, minLevel, maxLevel int32) (*entity.Question, error) {
	for _, item := range st.questions {
		if item.Level >= minLevel && item.Level <= maxLevel {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (st *storeState) CreateDiagnosticSubmission(_ context.Context, submission *entity.DiagnosticSubmission) error {
	copyItem := *submission
	st.diagnostics = append(st.diagnostics, &copyItem)
	return nil
}

// fakeStore serializes all access with one mutex and emulates
// transaction rollback by snapshotting the state before the callback
// and restoring it on error. Holding the lock for the whole callback
// gives the same effect the row locks give the real store.
type fakeStore struct {
	mu sync.Mutex
	st *storeState
}

func newFakeStore() *fakeStore {
	return &fakeStore{st: newStoreState()}
}

func (s *fakeStore) ExecTx(_ context.Context, fn func(repository.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(s.st); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *fakeStore) CreateUser(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateUser(ctx, user)
}

func (s *fakeStore) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindUserByID(ctx, id)
}

func (s *fakeStore) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindUserByEmail(ctx, email)
}

func (s *fakeStore) UpdateUser(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateUser(ctx, user)
}

func (s *fakeStore) CreateProduct(ctx context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateProduct(ctx, product)
}

func (s *fakeStore) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindProductByID(ctx, id)
}

func (s *fakeStore) FindProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindProductByCode(ctx, code)
}

func (s *fakeStore) ListActiveProducts(ctx context.Context) ([]*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListActiveProducts(ctx)
}

func (s *fakeStore) FindActiveBookingProduct(ctx context.Context) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindActiveBookingProduct(ctx)
}

func (s *fakeStore) CreateOrder(ctx context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateOrder(ctx, order)
}

func (s *fakeStore) FindOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindOrderByID(ctx, id)
}

func (s *fakeStore) FindOrderByProviderRef(ctx context.Context, provider, providerRef string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindOrderByProviderRef(ctx, provider, providerRef)
}

func (s *fakeStore) UpdateOrder(ctx context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateOrder(ctx, order)
}

func (s *fakeStore) ListStalePendingOrders(ctx context.Context, olderThan time.Time, limit int32) ([]*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListStalePendingOrders(ctx, olderThan, limit)
}

func (s *fakeStore) CreatePaymentEvent(ctx context.Context, event *entity.PaymentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreatePaymentEvent(ctx, event)
}

func (s *fakeStore) FindPaymentEventByEventID(ctx context.Context, eventID string) (*entity.PaymentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindPaymentEventByEventID(ctx, eventID)
}

func (s *fakeStore) MarkPaymentEventProcessed(ctx context.Context, id string, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.MarkPaymentEventProcessed(ctx, id, processedAt)
}

func (s *fakeStore) ListUnprocessedPaymentEvents(ctx context.Context, olderThan time.Time, limit int32) ([]*entity.PaymentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListUnprocessedPaymentEvents(ctx, olderThan, limit)
}

func (s *fakeStore) CreateEntitlement(ctx context.Context, entitlement *entity.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateEntitlement(ctx, entitlement)
}

func (s *fakeStore) FindEntitlementByOrderAndKind(ctx context.Context, sourceOrderID string, kind entity.EntitlementKind) (*entity.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindEntitlementByOrderAndKind(ctx, sourceOrderID, kind)
}

func (s *fakeStore) ListEntitlementsByUser(ctx context.Context, userID string) ([]*entity.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListEntitlementsByUser(ctx, userID)
}

func (s *fakeStore) HasUsableEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.HasUsableEntitlement(ctx, userID, kind, now)
}

func (s *fakeStore) ConsumeEntitlement(ctx context.Context, userID string, kind entity.EntitlementKind, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ConsumeEntitlement(ctx, userID, kind, now)
}

func (s *fakeStore) CreateSlot(ctx context.Context, slot *entity.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateSlot(ctx, slot)
}

func (s *fakeStore) FindSlotByID(ctx context.Context, id string) (*entity.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindSlotByID(ctx, id)
}

func (s *fakeStore) FindSlotByIDForUpdate(ctx context.Context, id string) (*entity.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindSlotByIDForUpdate(ctx, id)
}

func (s *fakeStore) ListOpenSlots(ctx context.Context, from time.Time) ([]*entity.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListOpenSlots(ctx, from)
}

func (s *fakeStore) UpdateSlotStatus(ctx context.Context, id string, status entity.SlotStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateSlotStatus(ctx, id, status)
}

func (s *fakeStore) CreateBooking(ctx context.Context, booking *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateBooking(ctx, booking)
}

func (s *fakeStore) FindBookingByID(ctx context.Context, id string) (*entity.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindBookingByID(ctx, id)
}

func (s *fakeStore) UpdateBooking(ctx context.Context, booking *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateBooking(ctx, booking)
}

func (s *fakeStore) ListBookingsByUser(ctx context.Context, userID string) ([]*repository.BookingWithSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListBookingsByUser(ctx, userID)
}

func (s *fakeStore) CreateAISession(ctx context.Context, session *entity.AISession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateAISession(ctx, session)
}

func (s *fakeStore) FindAISessionByID(ctx context.Context, id string) (*entity.AISession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindAISessionByID(ctx, id)
}

func (s *fakeStore) UpdateAISession(ctx context.Context, session *entity.AISession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateAISession(ctx, session)
}

func (s *fakeStore) CreateAIMessage(ctx context.Context, message *entity.AIMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateAIMessage(ctx, message)
}

func (s *fakeStore) ListAIMessagesBySession(ctx context.Context, sessionID string) ([]*entity.AIMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListAIMessagesBySession(ctx, sessionID)
}

func (s *fakeStore) CreateAIEvaluation(ctx context.Context, evaluation *entity.AIEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateAIEvaluation(ctx, evaluation)
}

func (s *fakeStore) CreateTopic(ctx context.Context, topic *entity.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateTopic(ctx, topic)
}

func (s *fakeStore) FindTopicBySlug(ctx context.Context, slug string) (*entity.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindTopicBySlug(ctx, slug)
}

func (s *fakeStore) CreateQuestion(ctx context.Context, question *entity.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateQuestion(ctx, question)
}

func (s *fakeStore) RandomQuestion(ctx context.Context, minLevel, maxLevel int32) (*entity.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.RandomQuestion(ctx, minLevel, maxLevel)
}

func (s *fakeStore) CreateDiagnosticSubmission(ctx context.Context, submission *entity.DiagnosticSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateDiagnosticSubmission(ctx, submission)
}

func seedTestUser(store *fakeStore, id, email string) *entity.User {
	now := time.Now().UTC()
	user := &entity.User{
		ID:        id,
		Email:     email,
		Name:      "Test User",
		Locale:    "de",
		Role:      entity.RoleUser,
		Status:    entity.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.st.users[user.ID] = user
	return user
}

func seedTestEntitlement(store *fakeStore, userID string, kind entity.EntitlementKind, total, used int32) *entity.Entitlement {
	now := time.Now().UTC()
	entitlement := &entity.Entitlement{
		ID:            "ent-" + userID + "-" + string(kind),
		UserID:        userID,
		Kind:          kind,
		QtyTotal:      total,
		QtyUsed:       used,
		ValidFrom:     now.Add(-time.Hour),
		SourceOrderID: "order-" + userID + "-" + string(kind),
		CreatedAt:     now,
	}
	store.st.entitlements = append(store.st.entitlements, entitlement)
	return entitlement
}
