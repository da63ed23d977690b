package service

import (
	"net/http"

	"github.com/klarkurs/mpu-platform/app/apperr"
)

var (
	ErrInvalidRequest     = apperr.New("VALIDATION", "invalid request", http.StatusUnprocessableEntity)
	ErrUnauthorized       = apperr.New("UNAUTHORIZED", "missing or invalid credentials", http.StatusUnauthorized)
	ErrUserBlocked        = apperr.New("USER_BLOCKED", "account is not active", http.StatusForbidden)
	ErrEmailTaken         = apperr.New("EMAIL_TAKEN", "email is already registered", http.StatusConflict)
	ErrInvalidCredentials = apperr.New("INVALID_CREDENTIALS", "email or password is wrong", http.StatusUnauthorized)
	ErrNotFound           = apperr.New("NOT_FOUND", "resource not found", http.StatusNotFound)

	ErrProductNotFound = apperr.New("PRODUCT_NOT_FOUND", "product not found or inactive", http.StatusNotFound)
	ErrOrderNotFound   = apperr.New("ORDER_NOT_FOUND", "order not found", http.StatusNotFound)

	ErrBadMode       = apperr.New("BAD_MODE", "unknown session mode", http.StatusUnprocessableEntity)
	ErrSessionClosed = apperr.New("SESSION_CLOSED", "session is closed", http.StatusConflict)
	ErrNoCredits     = apperr.New("NO_CREDITS", "no usable AI credits", http.StatusPaymentRequired)

	ErrNoBookingAccess = apperr.New("NO_BOOKING_ACCESS", "no usable booking access", http.StatusPaymentRequired)
	ErrSlotUnavailable = apperr.New("SLOT_UNAVAILABLE", "slot is not open", http.StatusConflict)
	ErrInvalidState    = apperr.New("INVALID_STATE", "operation not allowed in current state", http.StatusConflict)
	ErrNoteTooLong     = apperr.New("NOTE_TOO_LONG", "client note is too long", http.StatusUnprocessableEntity)

	ErrInvalidSignature       = apperr.New("INVALID_SIGNATURE", "webhook signature rejected", http.StatusUnauthorized)
	ErrCheckoutFailed         = apperr.New("CHECKOUT_FAILED", "payment provider rejected checkout", http.StatusBadGateway)
	ErrBadProductMetadata     = apperr.New("BAD_PRODUCT_METADATA", "product metadata is invalid", http.StatusUnprocessableEntity)
	ErrUnsupportedProductType = apperr.New("UNSUPPORTED_PRODUCT_TYPE", "product type grants nothing", http.StatusUnprocessableEntity)
)
