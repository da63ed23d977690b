package repository

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrProductCodeTaken   = errors.New("product code already exists")
	ErrOrderRefTaken      = errors.New("order provider reference already exists")
	ErrPaymentEventExists = errors.New("payment event already recorded")
	ErrEntitlementExists  = errors.New("entitlement already granted for order")
	ErrSlotAlreadyBooked  = errors.New("slot already has a booking")
	ErrTopicSlugTaken     = errors.New("topic slug already exists")
)
