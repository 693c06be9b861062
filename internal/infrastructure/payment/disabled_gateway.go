package payment

import (
	"context"
	"errors"

	"github.com/crewpay/backend/internal/domain/ledger"
)

// ErrGatewayDisabled is returned when payout initiation is attempted without
// configured Daraja credentials.
var ErrGatewayDisabled = errors.New("payment gateway is not configured")

// DisabledGateway is the PaymentGateway used when no Daraja credentials are
// present. Payout initiation fails fast; manual paid markers keep working.
type DisabledGateway struct{}

// NewDisabledGateway creates a gateway that rejects all payment operations
func NewDisabledGateway() *DisabledGateway {
	return &DisabledGateway{}
}

func (g *DisabledGateway) InitiateSTKPush(context.Context, ledger.STKPushRequest) (*ledger.STKPushResponse, error) {
	return nil, ErrGatewayDisabled
}

func (g *DisabledGateway) QueryStatus(context.Context, string) (*ledger.CallbackResult, error) {
	return nil, ErrGatewayDisabled
}

func (g *DisabledGateway) ParseCallback([]byte) (*ledger.CallbackResult, error) {
	return nil, ledger.ErrGatewayInvalidCallback
}

var _ ledger.PaymentGateway = (*DisabledGateway)(nil)
