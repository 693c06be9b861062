package ledger

import (
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds the cached running balance for one user. The balance is a
// derived value: it always equals ComputeBalance over the user's current
// event set, and only the recomputation engine writes it. Negative balances
// are valid and represent money the employee owes back.
type Account struct {
	shared.BaseEntity
	UserID  uuid.UUID
	Balance decimal.Decimal
}

// NewAccount creates an account with a zero balance
func NewAccount(userID uuid.UUID) (*Account, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Account{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Balance:    decimal.Zero,
	}, nil
}
