package scheduling

import (
	"context"
	"time"

	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/crewpay/backend/internal/domain/scheduling"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventService handles scheduled event and crew assignment operations
type EventService struct {
	eventRepo      scheduling.EventRepository
	assignmentRepo scheduling.CrewAssignmentRepository
	userRepo       identity.UserRepository
	logger         *zap.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo scheduling.EventRepository,
	assignmentRepo scheduling.CrewAssignmentRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

func parseDay(value, field string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", field+" must be in YYYY-MM-DD format")
	}
	return day, nil
}

// Create schedules a new client event
func (s *EventService) Create(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	date, err := parseDay(req.Date, "date")
	if err != nil {
		return nil, err
	}

	event, err := scheduling.NewEvent(req.Name, date, req.Location, createdBy)
	if err != nil {
		return nil, err
	}
	event.ClientVenue = req.ClientVenue
	event.Description = req.Description

	if req.SetupDate != "" || req.SetupEnd != "" {
		var start, end *time.Time
		if req.SetupDate != "" {
			d, err := parseDay(req.SetupDate, "setup_date")
			if err != nil {
				return nil, err
			}
			start = &d
		}
		if req.SetupEnd != "" {
			d, err := parseDay(req.SetupEnd, "setup_end")
			if err != nil {
				return nil, err
			}
			end = &d
		}
		if err := event.SetSetupWindow(start, end); err != nil {
			return nil, err
		}
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event scheduled",
		zap.String("event_id", event.ID.String()),
		zap.String("name", event.Name),
		zap.Time("date", event.Date))
	resp := ToEventResponse(event)
	return &resp, nil
}

// GetByID returns a scheduled event
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(event)
	return &resp, nil
}

// List returns a page of scheduled events
func (s *EventService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[EventResponse], error) {
	events, total, err := s.eventRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToEventResponses(events), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update modifies a scheduled event's details
func (s *EventService) Update(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Date != "" {
		date, err := parseDay(req.Date, "date")
		if err != nil {
			return nil, err
		}
		event.Date = date
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.ClientVenue != "" {
		event.ClientVenue = req.ClientVenue
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.EquipmentsDelivered != "" {
		event.EquipmentsDelivered = req.EquipmentsDelivered
	}
	if req.SetupDate != "" || req.SetupEnd != "" {
		start, end := event.SetupDate, event.SetupEndDate
		if req.SetupDate != "" {
			d, err := parseDay(req.SetupDate, "setup_date")
			if err != nil {
				return nil, err
			}
			start = &d
		}
		if req.SetupEnd != "" {
			d, err := parseDay(req.SetupEnd, "setup_end")
			if err != nil {
				return nil, err
			}
			end = &d
		}
		if err := event.SetSetupWindow(start, end); err != nil {
			return nil, err
		}
	}
	event.Touch()

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	resp := ToEventResponse(event)
	return &resp, nil
}

// Delete removes a scheduled event
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.String("event_id", id.String()))
	return nil
}

// AssignCrew assigns a user to work an event. A user may hold at most one
// assignment per event.
func (s *EventService) AssignCrew(ctx context.Context, eventID, assignedBy uuid.UUID, req AssignCrewRequest) (*AssignmentResponse, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("USER_INACTIVE", "User is not active")
	}

	exists, err := s.assignmentRepo.ExistsForEventAndUser(ctx, eventID, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_ASSIGNED", "User is already assigned to this event")
	}

	assignment, err := scheduling.NewCrewAssignment(eventID, req.UserID, req.Role, assignedBy)
	if err != nil {
		return nil, err
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("crew assigned",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", req.UserID.String()),
		zap.String("role", req.Role))
	resp := ToAssignmentResponse(assignment)
	return &resp, nil
}

// EventCrew returns the crew assigned to an event
func (s *EventService) EventCrew(ctx context.Context, eventID uuid.UUID) ([]AssignmentResponse, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return ToAssignmentResponses(assignments), nil
}

// UserAssignments returns the events a user is assigned to work
func (s *EventService) UserAssignments(ctx context.Context, userID uuid.UUID) ([]AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToAssignmentResponses(assignments), nil
}

// UnassignCrew removes a crew assignment
func (s *EventService) UnassignCrew(ctx context.Context, assignmentID uuid.UUID) error {
	return s.assignmentRepo.Delete(ctx, assignmentID)
}
