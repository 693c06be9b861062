package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventFilter represents query filter options for event history
type EventFilter struct {
	Kind     *EventKind
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// EventRepository is the append-only store for ledger events. Events are
// never deleted; Update exists only for the explicit state transitions
// (overtime edit, settlement, reimbursement status/paid).
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	// FindAllByUser returns the user's full event set for recomputation
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*Event, error)
	// FindByUser returns a page of the user's events, newest first
	FindByUser(ctx context.Context, userID uuid.UUID, filter EventFilter) ([]*Event, int64, error)
	// ExistsAttendanceOn reports whether an attendance earning exists for the
	// (user, work date) pair
	ExistsAttendanceOn(ctx context.Context, userID uuid.UUID, workDate time.Time) (bool, error)
	// ExistsSalaryFor reports whether a salary payment exists for the
	// (user, period) pair
	ExistsSalaryFor(ctx context.Context, userID uuid.UUID, period string) (bool, error)
	// FindByReference finds the event holding a gateway reference, used to
	// resolve asynchronous payment callbacks
	FindByReference(ctx context.Context, reference string) (*Event, error)
}

// AccountRepository stores the cached per-user balance. Only the
// recomputation engine may call Save.
type AccountRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Account, error)
	Create(ctx context.Context, account *Account) error
	Save(ctx context.Context, account *Account) error
	// SumBalances returns the aggregate balance across all accounts
	SumBalances(ctx context.Context) (decimal.Decimal, error)
}
