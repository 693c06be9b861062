package scheduling

import (
	"time"

	"github.com/crewpay/backend/internal/domain/scheduling"
	"github.com/google/uuid"
)

// CreateEventRequest represents a request to schedule a client event
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Location    string `json:"location"`
	ClientVenue string `json:"client_venue"`
	Description string `json:"description"`
	SetupDate   string `json:"setup_date"`
	SetupEnd    string `json:"setup_end"`
}

// UpdateEventRequest represents a request to update an event's details
type UpdateEventRequest struct {
	Name                string `json:"name"`
	Date                string `json:"date"`
	Location            string `json:"location"`
	ClientVenue         string `json:"client_venue"`
	Description         string `json:"description"`
	SetupDate           string `json:"setup_date"`
	SetupEnd            string `json:"setup_end"`
	EquipmentsDelivered string `json:"equipments_delivered"`
}

// AssignCrewRequest represents a request to assign a user to an event
type AssignCrewRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role"`
}

// EventResponse represents a scheduled event in API responses
type EventResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Date                time.Time  `json:"date"`
	Location            string     `json:"location,omitempty"`
	ClientVenue         string     `json:"client_venue,omitempty"`
	Description         string     `json:"description,omitempty"`
	SetupDate           *time.Time `json:"setup_date,omitempty"`
	SetupEndDate        *time.Time `json:"setup_end_date,omitempty"`
	EquipmentsDelivered string     `json:"equipments_delivered,omitempty"`
	CreatedBy           *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// AssignmentResponse represents a crew assignment in API responses
type AssignmentResponse struct {
	ID         uuid.UUID  `json:"id"`
	EventID    uuid.UUID  `json:"event_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Role       string     `json:"role,omitempty"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToEventResponse converts a domain event to an EventResponse
func ToEventResponse(e *scheduling.Event) EventResponse {
	return EventResponse{
		ID:                  e.ID,
		Name:                e.Name,
		Date:                e.Date,
		Location:            e.Location,
		ClientVenue:         e.ClientVenue,
		Description:         e.Description,
		SetupDate:           e.SetupDate,
		SetupEndDate:        e.SetupEndDate,
		EquipmentsDelivered: e.EquipmentsDelivered,
		CreatedBy:           e.CreatedBy,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// ToEventResponses converts a slice of domain events to EventResponses
func ToEventResponses(events []*scheduling.Event) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i, e := range events {
		responses[i] = ToEventResponse(e)
	}
	return responses
}

// ToAssignmentResponse converts a domain crew assignment to an AssignmentResponse
func ToAssignmentResponse(a *scheduling.CrewAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:         a.ID,
		EventID:    a.EventID,
		UserID:     a.UserID,
		Role:       a.Role,
		AssignedBy: a.AssignedBy,
		CreatedAt:  a.CreatedAt,
	}
}

// ToAssignmentResponses converts a slice of crew assignments to AssignmentResponses
func ToAssignmentResponses(assignments []*scheduling.CrewAssignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, len(assignments))
	for i, a := range assignments {
		responses[i] = ToAssignmentResponse(a)
	}
	return responses
}
