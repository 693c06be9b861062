package models

import (
	"time"

	"github.com/crewpay/backend/internal/domain/scheduling"
	"github.com/google/uuid"
)

// CrewEventModel is the persistence model for the scheduling Event entity
type CrewEventModel struct {
	BaseModel
	Name                string    `gorm:"type:varchar(255);not null"`
	Date                time.Time `gorm:"type:date;not null;index:idx_crew_events_date"`
	Location            string    `gorm:"type:varchar(255)"`
	ClientVenue         string    `gorm:"type:varchar(255)"`
	Description         string    `gorm:"type:text"`
	SetupDate           *time.Time
	SetupEndDate        *time.Time
	EquipmentsDelivered string     `gorm:"type:text"`
	CreatedBy           *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CrewEventModel) TableName() string {
	return "crew_events"
}

// ToDomain converts the persistence model to a domain Event entity
func (m *CrewEventModel) ToDomain() *scheduling.Event {
	return &scheduling.Event{
		BaseEntity:          m.BaseModel.ToDomain(),
		Name:                m.Name,
		Date:                m.Date,
		Location:            m.Location,
		ClientVenue:         m.ClientVenue,
		Description:         m.Description,
		SetupDate:           m.SetupDate,
		SetupEndDate:        m.SetupEndDate,
		EquipmentsDelivered: m.EquipmentsDelivered,
		CreatedBy:           m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Event entity
func (m *CrewEventModel) FromDomain(e *scheduling.Event) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
	m.Date = e.Date
	m.Location = e.Location
	m.ClientVenue = e.ClientVenue
	m.Description = e.Description
	m.SetupDate = e.SetupDate
	m.SetupEndDate = e.SetupEndDate
	m.EquipmentsDelivered = e.EquipmentsDelivered
	m.CreatedBy = e.CreatedBy
}

// CrewEventModelFromDomain creates a new persistence model from a domain Event
func CrewEventModelFromDomain(e *scheduling.Event) *CrewEventModel {
	m := &CrewEventModel{}
	m.FromDomain(e)
	return m
}

// CrewAssignmentModel is the persistence model for the CrewAssignment entity
type CrewAssignmentModel struct {
	BaseModel
	EventID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_crew_assignments_event_user,priority:1"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_crew_assignments_event_user,priority:2;index:idx_crew_assignments_user"`
	Role       string     `gorm:"type:varchar(100)"`
	AssignedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (CrewAssignmentModel) TableName() string {
	return "crew_assignments"
}

// ToDomain converts the persistence model to a domain CrewAssignment entity
func (m *CrewAssignmentModel) ToDomain() *scheduling.CrewAssignment {
	return &scheduling.CrewAssignment{
		BaseEntity: m.BaseModel.ToDomain(),
		EventID:    m.EventID,
		UserID:     m.UserID,
		Role:       m.Role,
		AssignedBy: m.AssignedBy,
	}
}

// FromDomain populates the persistence model from a domain CrewAssignment entity
func (m *CrewAssignmentModel) FromDomain(a *scheduling.CrewAssignment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.EventID = a.EventID
	m.UserID = a.UserID
	m.Role = a.Role
	m.AssignedBy = a.AssignedBy
}

// CrewAssignmentModelFromDomain creates a new persistence model from a domain CrewAssignment
func CrewAssignmentModelFromDomain(a *scheduling.CrewAssignment) *CrewAssignmentModel {
	m := &CrewAssignmentModel{}
	m.FromDomain(a)
	return m
}
