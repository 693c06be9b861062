package models

import (
	"time"

	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEventModel is the persistence model for the ledger Event entity.
// All event kinds share one append-only table; kind-specific columns are
// nullable or zero for other kinds.
type LedgerEventModel struct {
	BaseModel
	UserID uuid.UUID        `gorm:"type:uuid;not null;index:idx_ledger_events_user;uniqueIndex:idx_ledger_events_attendance,priority:1,where:kind = 'ATTENDANCE_EARNING'"`
	Kind   ledger.EventKind `gorm:"type:varchar(30);not null;index:idx_ledger_events_kind"`
	Amount decimal.Decimal  `gorm:"type:decimal(18,2);not null"`

	WorkDate              *time.Time      `gorm:"type:date;uniqueIndex:idx_ledger_events_attendance,priority:2,where:kind = 'ATTENDANCE_EARNING'"`
	OvertimeHours         int             `gorm:"not null;default:0"`
	OriginalOvertimeHours int             `gorm:"not null;default:0"`
	BaseRate              decimal.Decimal `gorm:"type:decimal(18,2)"`
	OvertimeRate          decimal.Decimal `gorm:"type:decimal(18,2)"`
	Settled               bool            `gorm:"not null;default:false"`
	Edited                bool            `gorm:"not null;default:false"`
	CrewEventID           *uuid.UUID      `gorm:"type:uuid;index"`

	Reason  string     `gorm:"type:varchar(500)"`
	ActorID *uuid.UUID `gorm:"type:uuid"`

	Period      string          `gorm:"type:varchar(7);index"`
	BaseSalary  decimal.Decimal `gorm:"type:decimal(18,2)"`
	OvertimePay decimal.Decimal `gorm:"type:decimal(18,2)"`
	Allowance   decimal.Decimal `gorm:"type:decimal(18,2)"`

	Description string                     `gorm:"type:varchar(500)"`
	Status      ledger.ReimbursementStatus `gorm:"type:varchar(20)"`
	Paid        bool                       `gorm:"not null;default:false"`
	DecidedAt   *time.Time
	DecidedBy   *uuid.UUID `gorm:"type:uuid"`

	Method        ledger.WithdrawalMethod `gorm:"type:varchar(20)"`
	Reference     string                  `gorm:"type:varchar(100);index:idx_ledger_events_reference"`
	SourceEventID *uuid.UUID              `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEventModel) TableName() string {
	return "ledger_events"
}

// ToDomain converts the persistence model to a domain Event entity
func (m *LedgerEventModel) ToDomain() *ledger.Event {
	return &ledger.Event{
		BaseEntity:            m.BaseModel.ToDomain(),
		UserID:                m.UserID,
		Kind:                  m.Kind,
		Amount:                m.Amount,
		WorkDate:              m.WorkDate,
		OvertimeHours:         m.OvertimeHours,
		OriginalOvertimeHours: m.OriginalOvertimeHours,
		BaseRate:              m.BaseRate,
		OvertimeRate:          m.OvertimeRate,
		Settled:               m.Settled,
		Edited:                m.Edited,
		CrewEventID:           m.CrewEventID,
		Reason:                m.Reason,
		ActorID:               m.ActorID,
		Period:                m.Period,
		BaseSalary:            m.BaseSalary,
		OvertimePay:           m.OvertimePay,
		Allowance:             m.Allowance,
		Description:           m.Description,
		Status:                m.Status,
		Paid:                  m.Paid,
		DecidedAt:             m.DecidedAt,
		DecidedBy:             m.DecidedBy,
		Method:                m.Method,
		Reference:             m.Reference,
		SourceEventID:         m.SourceEventID,
	}
}

// FromDomain populates the persistence model from a domain Event entity
func (m *LedgerEventModel) FromDomain(e *ledger.Event) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.UserID = e.UserID
	m.Kind = e.Kind
	m.Amount = e.Amount
	m.WorkDate = e.WorkDate
	m.OvertimeHours = e.OvertimeHours
	m.OriginalOvertimeHours = e.OriginalOvertimeHours
	m.BaseRate = e.BaseRate
	m.OvertimeRate = e.OvertimeRate
	m.Settled = e.Settled
	m.Edited = e.Edited
	m.CrewEventID = e.CrewEventID
	m.Reason = e.Reason
	m.ActorID = e.ActorID
	m.Period = e.Period
	m.BaseSalary = e.BaseSalary
	m.OvertimePay = e.OvertimePay
	m.Allowance = e.Allowance
	m.Description = e.Description
	m.Status = e.Status
	m.Paid = e.Paid
	m.DecidedAt = e.DecidedAt
	m.DecidedBy = e.DecidedBy
	m.Method = e.Method
	m.Reference = e.Reference
	m.SourceEventID = e.SourceEventID
}

// LedgerEventModelFromDomain creates a new persistence model from a domain Event
func LedgerEventModelFromDomain(e *ledger.Event) *LedgerEventModel {
	m := &LedgerEventModel{}
	m.FromDomain(e)
	return m
}

// AccountModel is the persistence model for the cached per-user balance
type AccountModel struct {
	BaseModel
	UserID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_user"`
	Balance decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Balance:    m.Balance,
	}
}

// FromDomain populates the persistence model from a domain Account entity
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.UserID = a.UserID
	m.Balance = a.Balance
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
