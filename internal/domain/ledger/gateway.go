package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment gateway errors
var (
	ErrGatewayUnavailable     = errors.New("payment: gateway temporarily unavailable")
	ErrGatewayRequestFailed   = errors.New("payment: gateway request failed")
	ErrGatewayInvalidResponse = errors.New("payment: invalid gateway response")
	ErrGatewayInvalidCallback = errors.New("payment: invalid callback payload")
	ErrGatewayAuthFailed      = errors.New("payment: gateway authentication failed")
)

// STKPushRequest is a request to push a payment prompt to an employee's phone
type STKPushRequest struct {
	UserID      uuid.UUID
	PhoneNumber string // 2547XXXXXXXX
	Amount      decimal.Decimal
	Description string
}

// STKPushResponse is the gateway's acceptance of a push request. The
// CheckoutRequestID is the reference the asynchronous callback will carry.
type STKPushResponse struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResponseCode      string
	CustomerMessage   string
}

// PaymentStatus represents the terminal state reported for a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// CallbackResult is the parsed outcome of a gateway callback
type CallbackResult struct {
	CheckoutRequestID string
	Status            PaymentStatus
	Amount            decimal.Decimal
	Receipt           string
	FailureReason     string
}

// Success reports whether the callback indicates a completed payment
func (r *CallbackResult) Success() bool {
	return r.Status == PaymentStatusSucceeded
}

// PaymentGateway is the port to the external mobile-money service. The core
// never blocks on it inside the per-account atomic unit; initiation happens
// before any ledger write and the result arrives through a callback.
type PaymentGateway interface {
	// InitiateSTKPush asks the gateway to prompt the phone for payment
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)
	// QueryStatus polls the gateway for the state of a push
	QueryStatus(ctx context.Context, checkoutRequestID string) (*CallbackResult, error)
	// ParseCallback validates and parses a raw callback payload
	ParseCallback(payload []byte) (*CallbackResult, error)
}
