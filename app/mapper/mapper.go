// Package mapper converts entities into transport response types.
package mapper

import (
	"time"

	"github.com/klarkurs/mpu-platform/app/entity"
	"github.com/klarkurs/mpu-platform/app/repository"
	"github.com/klarkurs/mpu-platform/app/types"
)

func UserToResponse(user *entity.User) *types.UserResponse {
	return &types.UserResponse{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Locale: user.Locale,
		Role:   string(user.Role),
	}
}

func SessionToResponse(session *entity.AISession) *types.SessionResponse {
	resp := &types.SessionResponse{
		ID:        session.ID,
		Mode:      string(session.Mode),
		Locale:    session.Locale,
		Status:    string(session.Status),
		StartedAt: formatTime(session.StartedAt),
	}
	if session.ClosedAt != nil {
		resp.ClosedAt = formatTime(*session.ClosedAt)
	}
	return resp
}

func MessageToResponse(message *entity.AIMessage) *types.MessageResponse {
	return &types.MessageResponse{
		ID:        message.ID,
		Role:      string(message.Role),
		Content:   message.Content,
		CreatedAt: formatTime(message.CreatedAt),
	}
}

func MessagesToResponse(messages []*entity.AIMessage) []*types.MessageResponse {
	items := make([]*types.MessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, MessageToResponse(message))
	}
	return items
}

func EvaluationToResponse(evaluation *entity.AIEvaluation) *types.EvaluationResponse {
	return &types.EvaluationResponse{
		RubricScores:    evaluation.RubricScores,
		SummaryFeedback: evaluation.SummaryFeedback,
		DetectedIssues:  evaluation.DetectedIssues,
	}
}

func ProductToResponse(product *entity.Product, locale string) *types.ProductResponse {
	return &types.ProductResponse{
		ID:         product.ID,
		Code:       product.Code,
		Type:       string(product.Type),
		Name:       product.Name(locale),
		PriceCents: product.PriceCents,
		Currency:   product.Currency,
	}
}

func ProductsToResponse(products []*entity.Product, locale string) []*types.ProductResponse {
	items := make([]*types.ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, ProductToResponse(product, locale))
	}
	return items
}

func SlotToResponse(slot *entity.Slot) *types.SlotResponse {
	return &types.SlotResponse{
		ID:          slot.ID,
		StartsAt:    formatTime(slot.StartsAt),
		DurationMin: slot.DurationMin,
		Title:       slot.Title,
	}
}

func SlotsToResponse(slots []*entity.Slot) []*types.SlotResponse {
	items := make([]*types.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		items = append(items, SlotToResponse(slot))
	}
	return items
}

// BookingToResponse hides the meeting URL unless the booking is still
// confirmed.
func BookingToResponse(item *repository.BookingWithSlot) *types.BookingResponse {
	resp := &types.BookingResponse{
		ID:     item.Booking.ID,
		Status: string(item.Booking.Status),
	}
	if item.Slot != nil {
		resp.Slot = SlotToResponse(item.Slot)
	}
	if item.Booking.ClientNote != nil {
		resp.ClientNote = *item.Booking.ClientNote
	}
	if item.Booking.Status == entity.BookingStatusConfirmed && item.Slot != nil && item.Slot.MeetingURL != nil {
		resp.MeetingURL = *item.Slot.MeetingURL
	}
	return resp
}

func BookingsToResponse(items []*repository.BookingWithSlot) []*types.BookingResponse {
	resp := make([]*types.BookingResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, BookingToResponse(item))
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
