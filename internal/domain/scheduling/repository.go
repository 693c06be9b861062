package scheduling

import (
	"context"

	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventRepository defines the persistence interface for scheduled events
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Event, int64, error)
	Create(ctx context.Context, event *Event) error
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CrewAssignmentRepository defines the persistence interface for crew assignments
type CrewAssignmentRepository interface {
	Create(ctx context.Context, assignment *CrewAssignment) error
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*CrewAssignment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*CrewAssignment, error)
	ExistsForEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
