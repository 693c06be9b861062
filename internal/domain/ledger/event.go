package ledger

import (
	"time"

	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind discriminates the ledger event union
type EventKind string

const (
	// EventKindAttendanceEarning represents pay earned from a day of attendance
	EventKindAttendanceEarning EventKind = "ATTENDANCE_EARNING"
	// EventKindAdminAdjustment represents a freeform signed correction by an admin
	EventKindAdminAdjustment EventKind = "ADMIN_ADJUSTMENT"
	// EventKindSalaryPayment represents a monthly salary payment for a salaried employee
	EventKindSalaryPayment EventKind = "SALARY_PAYMENT"
	// EventKindReimbursement represents an expense reimbursement request
	EventKindReimbursement EventKind = "REIMBURSEMENT"
	// EventKindWithdrawal represents money paid out to the employee (balance decrease)
	EventKindWithdrawal EventKind = "WITHDRAWAL"
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	return string(k)
}

// IsValid returns true if the event kind is valid
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindAttendanceEarning,
		EventKindAdminAdjustment,
		EventKindSalaryPayment,
		EventKindReimbursement,
		EventKindWithdrawal:
		return true
	}
	return false
}

// ReimbursementStatus represents the decision state of a reimbursement event
type ReimbursementStatus string

const (
	ReimbursementStatusPending  ReimbursementStatus = "PENDING"
	ReimbursementStatusApproved ReimbursementStatus = "APPROVED"
	ReimbursementStatusRejected ReimbursementStatus = "REJECTED"
)

// IsValid returns true if the status is valid
func (s ReimbursementStatus) IsValid() bool {
	switch s {
	case ReimbursementStatusPending, ReimbursementStatusApproved, ReimbursementStatusRejected:
		return true
	}
	return false
}

// WithdrawalMethod represents how a withdrawal was paid out
type WithdrawalMethod string

const (
	WithdrawalMethodCash          WithdrawalMethod = "CASH"
	WithdrawalMethodMpesa         WithdrawalMethod = "MPESA"
	WithdrawalMethodBankTransfer  WithdrawalMethod = "BANK_TRANSFER"
	WithdrawalMethodReimbursement WithdrawalMethod = "REIMBURSEMENT"
)

// IsValid returns true if the withdrawal method is valid
func (m WithdrawalMethod) IsValid() bool {
	switch m {
	case WithdrawalMethodCash, WithdrawalMethodMpesa, WithdrawalMethodBankTransfer, WithdrawalMethodReimbursement:
		return true
	}
	return false
}

// Ledger-specific domain errors
var (
	ErrInvalidHours    = shared.NewDomainError("INVALID_HOURS", "Overtime hours cannot be negative")
	ErrInvalidAmount   = shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrZeroAdjustment  = shared.NewDomainError("ZERO_ADJUSTMENT", "Adjustment amount cannot be zero")
	ErrDuplicateDate   = shared.NewDomainError("DUPLICATE_DATE", "An attendance earning already exists for this date")
	ErrDuplicatePeriod = shared.NewDomainError("DUPLICATE_PERIOD", "A salary payment already exists for this period")
	ErrAlreadyEdited   = shared.NewDomainError("ALREADY_EDITED", "Overtime has already been edited for this earning")
	ErrAlreadySettled  = shared.NewDomainError("ALREADY_SETTLED", "Earning has already been settled")
	ErrNotPending      = shared.NewDomainError("NOT_PENDING", "Reimbursement is not pending")
	ErrNotApproved     = shared.NewDomainError("NOT_APPROVED", "Reimbursement is not approved")
	ErrAlreadyPaid     = shared.NewDomainError("ALREADY_PAID", "Reimbursement has already been paid")
	ErrWrongKind       = shared.NewDomainError("WRONG_KIND", "Operation does not apply to this event kind")
)

// PayRates holds the attendance pay rates in currency units
type PayRates struct {
	BaseRate     decimal.Decimal
	OvertimeRate decimal.Decimal
}

// DefaultPayRates returns the standard day rates (KSH 1000 base, KSH 100 per overtime hour)
func DefaultPayRates() PayRates {
	return PayRates{
		BaseRate:     decimal.NewFromInt(1000),
		OvertimeRate: decimal.NewFromInt(100),
	}
}

// Event is an immutable record of one balance-affecting occurrence.
// Amount fields are never edited after creation; corrections are new events.
// The only mutable state is the explicit per-kind transitions: the one-shot
// overtime edit and settlement on attendance earnings, and status/paid on
// reimbursements.
type Event struct {
	shared.BaseEntity
	UserID uuid.UUID
	Kind   EventKind

	// Amount is the event's stored amount. Positive for earnings, salary
	// totals and reimbursements; signed for adjustments; negative for
	// withdrawals so the recomputation formula stays a plain sum.
	Amount decimal.Decimal

	// Attendance earning fields
	WorkDate              *time.Time
	OvertimeHours         int
	OriginalOvertimeHours int
	BaseRate              decimal.Decimal
	OvertimeRate          decimal.Decimal
	Settled               bool
	Edited                bool
	CrewEventID           *uuid.UUID

	// Adjustment / audit fields
	Reason  string
	ActorID *uuid.UUID

	// Salary payment fields
	Period      string
	BaseSalary  decimal.Decimal
	OvertimePay decimal.Decimal
	Allowance   decimal.Decimal

	// Reimbursement fields
	Description string
	Status      ReimbursementStatus
	Paid        bool
	DecidedAt   *time.Time
	DecidedBy   *uuid.UUID

	// Withdrawal fields
	Method    WithdrawalMethod
	Reference string
	// SourceEventID links a withdrawal generated by a paid reimbursement
	// back to the reimbursement event.
	SourceEventID *uuid.UUID
}

// AttendancePay computes the stored amount for an attendance earning.
// Salaried employees accrue only the overtime component; casual employees
// accrue the base day rate plus overtime.
func AttendancePay(rates PayRates, salaried bool, overtimeHours int) decimal.Decimal {
	overtime := rates.OvertimeRate.Mul(decimal.NewFromInt(int64(overtimeHours)))
	if salaried {
		return overtime
	}
	return rates.BaseRate.Add(overtime)
}

// NewAttendanceEarning creates an unsettled attendance earning for a work date
func NewAttendanceEarning(userID uuid.UUID, workDate time.Time, overtimeHours int, rates PayRates, salaried bool) (*Event, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if overtimeHours < 0 {
		return nil, ErrInvalidHours
	}

	day := workDate.Truncate(24 * time.Hour)
	return &Event{
		BaseEntity:            shared.NewBaseEntity(),
		UserID:                userID,
		Kind:                  EventKindAttendanceEarning,
		Amount:                AttendancePay(rates, salaried, overtimeHours),
		WorkDate:              &day,
		OvertimeHours:         overtimeHours,
		OriginalOvertimeHours: overtimeHours,
		BaseRate:              rates.BaseRate,
		OvertimeRate:          rates.OvertimeRate,
	}, nil
}

// NewAdminAdjustment creates a signed correction event. The amount may be
// positive or negative but never zero.
func NewAdminAdjustment(userID uuid.UUID, amount decimal.Decimal, reason string, actorID uuid.UUID) (*Event, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if amount.IsZero() {
		return nil, ErrZeroAdjustment
	}
	if reason == "" {
		reason = "Admin adjustment"
	}

	return &Event{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Kind:       EventKindAdminAdjustment,
		Amount:     amount,
		Reason:     reason,
		ActorID:    &actorID,
	}, nil
}

// NewSalaryPayment creates a monthly salary payment event. The stored amount
// is the total of base, overtime pay and allowance.
func NewSalaryPayment(userID uuid.UUID, period string, base, overtime, allowance decimal.Decimal, actorID uuid.UUID) (*Event, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be in YYYY-MM format")
	}
	if base.IsNegative() || overtime.IsNegative() || allowance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	return &Event{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Kind:        EventKindSalaryPayment,
		Amount:      base.Add(overtime).Add(allowance),
		Period:      period,
		BaseSalary:  base,
		OvertimePay: overtime,
		Allowance:   allowance,
		ActorID:     &actorID,
	}, nil
}

// NewReimbursement creates a pending reimbursement request
func NewReimbursement(userID uuid.UUID, amount decimal.Decimal, description string) (*Event, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}

	return &Event{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Kind:        EventKindReimbursement,
		Amount:      amount,
		Description: description,
		Status:      ReimbursementStatusPending,
	}, nil
}

// NewWithdrawal creates a withdrawal event. The input amount must be
// positive; it is stored negated so it sums uniformly with adjustments.
func NewWithdrawal(userID uuid.UUID, amount decimal.Decimal, method WithdrawalMethod, reference string, actorID uuid.UUID) (*Event, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid withdrawal method")
	}

	return &Event{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Kind:       EventKindWithdrawal,
		Amount:     amount.Neg(),
		Method:     method,
		Reference:  reference,
		ActorID:    &actorID,
	}, nil
}

// WithCrewEvent links an attendance earning to the scheduled event worked
func (e *Event) WithCrewEvent(crewEventID uuid.UUID) *Event {
	e.CrewEventID = &crewEventID
	return e
}

// EditOvertime applies the one-shot overtime correction to an attendance
// earning, recomputing the stored amount with the rates captured at creation.
// A second edit fails with ErrAlreadyEdited.
func (e *Event) EditOvertime(newOvertimeHours int, salaried bool) error {
	if e.Kind != EventKindAttendanceEarning {
		return ErrWrongKind
	}
	if e.Edited {
		return ErrAlreadyEdited
	}
	if newOvertimeHours < 0 {
		return ErrInvalidHours
	}

	rates := PayRates{BaseRate: e.BaseRate, OvertimeRate: e.OvertimeRate}
	e.OvertimeHours = newOvertimeHours
	e.Amount = AttendancePay(rates, salaried, newOvertimeHours)
	e.Edited = true
	e.Touch()
	return nil
}

// Settle marks an attendance earning as paid out, excluding it from the
// outstanding balance on the next recomputation.
func (e *Event) Settle() error {
	if e.Kind != EventKindAttendanceEarning {
		return ErrWrongKind
	}
	if e.Settled {
		return ErrAlreadySettled
	}
	e.Settled = true
	e.Touch()
	return nil
}

// Approve transitions a pending reimbursement to approved
func (e *Event) Approve(actorID uuid.UUID) error {
	if e.Kind != EventKindReimbursement {
		return ErrWrongKind
	}
	if e.Status != ReimbursementStatusPending {
		return ErrNotPending
	}
	now := time.Now()
	e.Status = ReimbursementStatusApproved
	e.DecidedAt = &now
	e.DecidedBy = &actorID
	e.UpdatedAt = now
	return nil
}

// Reject transitions a pending reimbursement to rejected
func (e *Event) Reject(actorID uuid.UUID, reason string) error {
	if e.Kind != EventKindReimbursement {
		return ErrWrongKind
	}
	if e.Status != ReimbursementStatusPending {
		return ErrNotPending
	}
	now := time.Now()
	e.Status = ReimbursementStatusRejected
	e.Reason = reason
	e.DecidedAt = &now
	e.DecidedBy = &actorID
	e.UpdatedAt = now
	return nil
}

// MarkPaid flips an approved reimbursement to paid. The caller must create
// the corresponding withdrawal event in the same atomic unit.
func (e *Event) MarkPaid() error {
	if e.Kind != EventKindReimbursement {
		return ErrWrongKind
	}
	if e.Status != ReimbursementStatusApproved {
		return ErrNotApproved
	}
	if e.Paid {
		return ErrAlreadyPaid
	}
	e.Paid = true
	e.Touch()
	return nil
}

// PayoutWithdrawal creates the negative withdrawal event generated when a
// reimbursement is marked paid, linked back to the reimbursement.
func (e *Event) PayoutWithdrawal(actorID uuid.UUID) (*Event, error) {
	if e.Kind != EventKindReimbursement {
		return nil, ErrWrongKind
	}
	w, err := NewWithdrawal(e.UserID, e.Amount, WithdrawalMethodReimbursement, "", actorID)
	if err != nil {
		return nil, err
	}
	id := e.ID
	w.SourceEventID = &id
	w.Reason = "Reimbursement payout: " + e.Description
	return w, nil
}
