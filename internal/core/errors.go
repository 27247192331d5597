package core

import "errors"

// Sentinel errors surfaced by the services and mapped to HTTP status codes in
// the API layer.
var (
	ErrValidation              = errors.New("invalid or missing request fields")
	ErrInvalidPlan             = errors.New("invalid plan")
	ErrForbidden               = errors.New("caller is not entitled to this resource")
	ErrInvalidSignature        = errors.New("invalid payment signature")
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrUserNotFound            = errors.New("user not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrGateway                 = errors.New("payment gateway operation failed")
	ErrMailerUnavailable       = errors.New("mail delivery is not configured")
)
