package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/mapper"
	"github.com/klarkurs/mpu-platform/app/repository"
	"github.com/klarkurs/mpu-platform/app/types"
)

type BookingService struct {
	store Store
}

func NewBookingService(store Store) *BookingService {
	return &BookingService{store: store}
}

func (s *BookingService) ListOpenSlots(ctx context.Context) ([]*entity.Slot, error) {
	return s.store.ListOpenSlots(ctx, time.Now().UTC())
}

// Reserve is a non-consuming probe: it tells the client whether the
// user could book the slot right now, without touching any balance or
// lock. ready_to_book can still lose the race at book time.
func (s *BookingService) Reserve(ctx context.Context, user *entity.User, slotID string) (*types.ReserveResponse, error) {
	slot, err := s.store.FindSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil || slot.Status != entity.SlotStatusOpen {
		return nil, ErrSlotUnavailable
	}

	usable, err := s.store.HasUsableEntitlement(ctx, user.ID, entity.EntitlementKindBookingAccess, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := &types.ReserveResponse{Slot: mapper.SlotToResponse(slot)}
	if usable {
		resp.Status = "ready_to_book"
		return resp, nil
	}

	resp.Status = "payment_required"
	product, err := s.store.FindActiveBookingProduct(ctx)
	if err != nil {
		return nil, err
	}
	if product != nil {
		resp.Product = mapper.ProductToResponse(product, user.Locale)
	}
	return resp, nil
}

// BookSlot allocates a slot to the user: one transaction consumes a
// booking_access unit, locks the slot row, flips it open to booked and
// inserts the booking. Any failure rolls everything back, including
// the consumed unit. The unique slot_id on bookings backstops the lock.
func (s *BookingService) BookSlot(ctx context.Context, user *entity.User, slotID, clientNote string) (*repository.BookingWithSlot, error) {
	if len(clientNote) > 2000 {
		return nil, ErrNoteTooLong
	}

	var result *repository.BookingWithSlot
	err := s.store.ExecTx(ctx, func(ledger repository.Ledger) error {
		now := time.Now().UTC()

		consumed, err := ledger.ConsumeEntitlement(ctx, user.ID, entity.EntitlementKindBookingAccess, now)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrNoBookingAccess
		}

		slot, err := ledger.FindSlotByIDForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if slot == nil || slot.Status != entity.SlotStatusOpen {
			return ErrSlotUnavailable
		}

		if err := ledger.UpdateSlotStatus(ctx, slot.ID, entity.SlotStatusBooked); err != nil {
			return err
		}
		slot.Status = entity.SlotStatusBooked

		booking := &entity.Booking{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			SlotID:    slot.ID,
			Status:    entity.BookingStatusConfirmed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if clientNote != "" {
			note := clientNote
			booking.ClientNote = &note
		}
		if err := ledger.CreateBooking(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrSlotAlreadyBooked) {
				return ErrSlotUnavailable
			}
			return err
		}
		result = &repository.BookingWithSlot{Booking: booking, Slot: slot}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BookingService) MyBookings(ctx context.Context, user *entity.User) ([]*repository.BookingWithSlot, error) {
	return s.store.ListBookingsByUser(ctx, user.ID)
}

// Cancel flips a confirmed booking to cancelled and reopens the slot.
// The consumed booking_access unit is not refunded. A second cancel is
// rejected, and the slot is only reopened if it is still booked.
func (s *BookingService) Cancel(ctx context.Context, user *entity.User, bookingID string) (*repository.BookingWithSlot, error) {
	var result *repository.BookingWithSlot
	err := s.store.ExecTx(ctx, func(ledger repository.Ledger) error {
		found, err := ledger.FindBookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if found == nil || found.UserID != user.ID {
			return ErrNotFound
		}
		if found.Status != entity.BookingStatusConfirmed {
			return ErrInvalidState
		}

		slot, err := ledger.FindSlotByIDForUpdate(ctx, found.SlotID)
		if err != nil {
			return err
		}

		found.Status = entity.BookingStatusCancelled
		found.UpdatedAt = time.Now().UTC()
		if err := ledger.UpdateBooking(ctx, found); err != nil {
			return err
		}

		if slot != nil && slot.Status == entity.SlotStatusBooked {
			if err := ledger.UpdateSlotStatus(ctx, slot.ID, entity.SlotStatusOpen); err != nil {
				return err
			}
			slot.Status = entity.SlotStatusOpen
		}

		result = &repository.BookingWithSlot{Booking: found, Slot: slot}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
