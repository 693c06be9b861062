package ledger

import (
	"time"

	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordAttendanceRequest represents a request to record a day's attendance
type RecordAttendanceRequest struct {
	UserID        uuid.UUID  `json:"user_id" binding:"required"`
	WorkDate      string     `json:"work_date" binding:"required"` // YYYY-MM-DD
	OvertimeHours int        `json:"overtime_hours" binding:"min=0"`
	CrewEventID   *uuid.UUID `json:"crew_event_id,omitempty"`
}

// EditOvertimeRequest represents the one-shot overtime correction
type EditOvertimeRequest struct {
	OvertimeHours int `json:"overtime_hours" binding:"min=0"`
}

// RecordAdjustmentRequest represents a request to record an admin adjustment
type RecordAdjustmentRequest struct {
	UserID uuid.UUID       `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// RecordSalaryRequest represents a request to record a monthly salary payment
type RecordSalaryRequest struct {
	UserID      uuid.UUID       `json:"user_id" binding:"required"`
	Period      string          `json:"period" binding:"required"` // YYYY-MM
	BaseSalary  decimal.Decimal `json:"base_salary"`
	OvertimePay decimal.Decimal `json:"overtime_pay"`
	Allowance   decimal.Decimal `json:"allowance"`
}

// SubmitReimbursementRequest represents an employee's reimbursement claim
type SubmitReimbursementRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// DecideReimbursementRequest represents an admin decision on a pending claim
type DecideReimbursementRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// RecordWithdrawalRequest represents a request to pay out part of a balance
type RecordWithdrawalRequest struct {
	UserID    uuid.UUID       `json:"user_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
}

// PayoutRequest asks the gateway to push the payment prompt for an approved
// reimbursement to the employee's phone
type PayoutRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,msisdn"`
}

// HistoryRequest represents query options for a user's event history
type HistoryRequest struct {
	Kind     string `form:"kind"`
	DateFrom string `form:"date_from"` // YYYY-MM-DD
	DateTo   string `form:"date_to"`   // YYYY-MM-DD
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// EventResponse represents a ledger event in API responses. Kind-specific
// fields are omitted when empty.
type EventResponse struct {
	ID     uuid.UUID       `json:"id"`
	UserID uuid.UUID       `json:"user_id"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`

	WorkDate      *string    `json:"work_date,omitempty"`
	OvertimeHours *int       `json:"overtime_hours,omitempty"`
	Settled       *bool      `json:"settled,omitempty"`
	Edited        *bool      `json:"edited,omitempty"`
	CrewEventID   *uuid.UUID `json:"crew_event_id,omitempty"`

	Reason  string     `json:"reason,omitempty"`
	ActorID *uuid.UUID `json:"actor_id,omitempty"`

	Period      string           `json:"period,omitempty"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	OvertimePay *decimal.Decimal `json:"overtime_pay,omitempty"`
	Allowance   *decimal.Decimal `json:"allowance,omitempty"`

	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Paid        *bool      `json:"paid,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	DecidedBy   *uuid.UUID `json:"decided_by,omitempty"`

	Method        string     `json:"method,omitempty"`
	Reference     string     `json:"reference,omitempty"`
	SourceEventID *uuid.UUID `json:"source_event_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MutationResponse pairs the event written by a mutation with the balance
// recomputed in the same atomic unit
type MutationResponse struct {
	Event   EventResponse   `json:"event"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceResponse represents a user's current cached balance
type BalanceResponse struct {
	UserID    uuid.UUID       `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AggregateBalanceResponse represents the total owed across all accounts
type AggregateBalanceResponse struct {
	Total decimal.Decimal `json:"total"`
}

// PayoutResponse represents the gateway's acceptance of a payment push
type PayoutResponse struct {
	CheckoutRequestID string `json:"checkout_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

// ToEventResponse converts a domain ledger event to an EventResponse
func ToEventResponse(e *ledger.Event) EventResponse {
	resp := EventResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Kind:      e.Kind.String(),
		Amount:    e.Amount,
		Reason:    e.Reason,
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	switch e.Kind {
	case ledger.EventKindAttendanceEarning:
		if e.WorkDate != nil {
			day := e.WorkDate.Format("2006-01-02")
			resp.WorkDate = &day
		}
		hours := e.OvertimeHours
		settled := e.Settled
		edited := e.Edited
		resp.OvertimeHours = &hours
		resp.Settled = &settled
		resp.Edited = &edited
		resp.CrewEventID = e.CrewEventID
	case ledger.EventKindSalaryPayment:
		base := e.BaseSalary
		overtime := e.OvertimePay
		allowance := e.Allowance
		resp.Period = e.Period
		resp.BaseSalary = &base
		resp.OvertimePay = &overtime
		resp.Allowance = &allowance
	case ledger.EventKindReimbursement:
		paid := e.Paid
		resp.Description = e.Description
		resp.Status = string(e.Status)
		resp.Paid = &paid
		resp.DecidedAt = e.DecidedAt
		resp.DecidedBy = e.DecidedBy
		resp.Reference = e.Reference
	case ledger.EventKindWithdrawal:
		resp.Method = string(e.Method)
		resp.Reference = e.Reference
		resp.SourceEventID = e.SourceEventID
	}

	return resp
}

// ToEventResponses converts a slice of domain events to EventResponses
func ToEventResponses(events []*ledger.Event) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = ToEventResponse(e)
	}
	return responses
}
