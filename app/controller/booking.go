package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/klarkurs/mpu-platform/app/factory"
	"github.com/klarkurs/mpu-platform/app/mapper"
	"github.com/klarkurs/mpu-platform/app/service"
	"github.com/klarkurs/mpu-platform/app/types"
)

type BookingController struct {
	bookingService *service.BookingService
	logger         logrus.FieldLogger
}

func NewBookingController(bookingService *service.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
		logger:         factory.NewModuleLogger("booking-controller"),
	}
}

func (c *BookingController) ListSlots(ctx echo.Context) error {
	slots, err := c.bookingService.ListOpenSlots(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, &types.SlotsResponse{Slots: mapper.SlotsToResponse(slots)})
}

func (c *BookingController) Reserve(ctx echo.Context) error {
	resp, err := c.bookingService.Reserve(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *BookingController) Book(ctx echo.Context) error {
	req, err := types.NewBookSlotRequestFromContext(ctx)
	if err != nil {
		return writeBadRequest(ctx, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeValidationError(ctx, err)
	}

	booked, err := c.bookingService.BookSlot(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"), req.ClientNote)
	if err != nil {
		return writeError(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusCreated, mapper.BookingToResponse(booked))
}

func (c *BookingController) MyBookings(ctx echo.Context) error {
	items, err := c.bookingService.MyBookings(ctx.Request().Context(), currentUser(ctx))
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, &types.BookingsResponse{Bookings: mapper.BookingsToResponse(items)})
}

func (c *BookingController) Cancel(ctx echo.Context) error {
	cancelled, err := c.bookingService.Cancel(ctx.Request().Context(), currentUser(ctx), ctx.Param("id"))
	if err != nil {
		return writeError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, mapper.BookingToResponse(cancelled))
}
