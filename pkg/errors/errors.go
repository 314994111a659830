package errors

import "github.com/flaboy/pin/usererrors"

// 支付相关错误
var (
	ErrSessionRequired      = usererrors.New("payment.session_required", "Browser session is required")
	ErrChannelNotSupported  = usererrors.New("payment.channel_not_supported", "Unsupported payment channel")
	ErrInvalidRequest       = usererrors.New("payment.invalid_request", "Invalid payment request")
	ErrMissingCorrelation   = usererrors.New("payment.missing_correlation", "Unable to match callback to a pending payment")
	ErrMissingToken         = usererrors.New("payment.missing_token", "Checkout token is missing")
	ErrAuthenticationFailed = usererrors.New("payment.authentication_failed", "Card authentication failed")
	ErrGatewayUnavailable   = usererrors.New("payment.gateway_unavailable", "Payment gateway is unavailable")
	ErrAttemptNotFound      = usererrors.New("payment.attempt_not_found", "Payment attempt not found")
)
