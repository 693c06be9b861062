package scheduling

import (
	"strings"
	"time"

	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event represents a scheduled client event the business is crewing
type Event struct {
	shared.BaseEntity
	Name                string
	Date                time.Time
	Location            string
	ClientVenue         string
	Description         string
	SetupDate           *time.Time
	SetupEndDate        *time.Time
	EquipmentsDelivered string
	CreatedBy           *uuid.UUID
}

// NewEvent creates a scheduled event
func NewEvent(name string, date time.Time, location string, createdBy uuid.UUID) (*Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Event name cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Event date is required")
	}

	return &Event{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Date:       date,
		Location:   location,
		CreatedBy:  &createdBy,
	}, nil
}

// SetSetupWindow records the setup start and end dates
func (e *Event) SetSetupWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_SETUP_WINDOW", "Setup end cannot precede setup start")
	}
	e.SetupDate = start
	e.SetupEndDate = end
	e.Touch()
	return nil
}

// CrewAssignment assigns a user to work an event
type CrewAssignment struct {
	shared.BaseEntity
	EventID    uuid.UUID
	UserID     uuid.UUID
	Role       string
	AssignedBy *uuid.UUID
}

// NewCrewAssignment creates a crew assignment for an event
func NewCrewAssignment(eventID, userID uuid.UUID, role string, assignedBy uuid.UUID) (*CrewAssignment, error) {
	if eventID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	return &CrewAssignment{
		BaseEntity: shared.NewBaseEntity(),
		EventID:    eventID,
		UserID:     userID,
		Role:       role,
		AssignedBy: &assignedBy,
	}, nil
}
