package persistence

import (
	"context"
	"errors"

	"github.com/crewpay/backend/internal/domain/scheduling"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCrewEventRepository implements scheduling.EventRepository using GORM
type GormCrewEventRepository struct {
	db *gorm.DB
}

// NewGormCrewEventRepository creates a new GormCrewEventRepository
func NewGormCrewEventRepository(db *gorm.DB) *GormCrewEventRepository {
	return &GormCrewEventRepository{db: db}
}

// FindByID finds a scheduled event by ID
func (r *GormCrewEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Event, error) {
	var model models.CrewEventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of scheduled events, soonest first
func (r *GormCrewEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*scheduling.Event, int64, error) {
	var eventModels []models.CrewEventModel
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.CrewEventModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Order("date ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&eventModels).Error; err != nil {
		return nil, 0, err
	}

	events := make([]*scheduling.Event, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToDomain()
	}
	return events, total, nil
}

// Create creates a new scheduled event
func (r *GormCrewEventRepository) Create(ctx context.Context, event *scheduling.Event) error {
	model := models.CrewEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save persists changes to an existing scheduled event
func (r *GormCrewEventRepository) Save(ctx context.Context, event *scheduling.Event) error {
	model := models.CrewEventModelFromDomain(event)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a scheduled event
func (r *GormCrewEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CrewEventModel{}, "id = ?", id).Error
}

var _ scheduling.EventRepository = (*GormCrewEventRepository)(nil)

// GormCrewAssignmentRepository implements scheduling.CrewAssignmentRepository using GORM
type GormCrewAssignmentRepository struct {
	db *gorm.DB
}

// NewGormCrewAssignmentRepository creates a new GormCrewAssignmentRepository
func NewGormCrewAssignmentRepository(db *gorm.DB) *GormCrewAssignmentRepository {
	return &GormCrewAssignmentRepository{db: db}
}

// Create creates a new crew assignment
func (r *GormCrewAssignmentRepository) Create(ctx context.Context, assignment *scheduling.CrewAssignment) error {
	model := models.CrewAssignmentModelFromDomain(assignment)
	err := r.db.WithContext(ctx).Create(model).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// FindByEvent returns the assignments for an event
func (r *GormCrewAssignmentRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*scheduling.CrewAssignment, error) {
	var assignmentModels []models.CrewAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainAssignments(assignmentModels), nil
}

// FindByUser returns the assignments a user holds
func (r *GormCrewAssignmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*scheduling.CrewAssignment, error) {
	var assignmentModels []models.CrewAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	return toDomainAssignments(assignmentModels), nil
}

// ExistsForEventAndUser reports whether the user is already assigned to the event
func (r *GormCrewAssignmentRepository) ExistsForEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CrewAssignmentModel{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a crew assignment
func (r *GormCrewAssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CrewAssignmentModel{}, "id = ?", id).Error
}

func toDomainAssignments(assignmentModels []models.CrewAssignmentModel) []*scheduling.CrewAssignment {
	assignments := make([]*scheduling.CrewAssignment, len(assignmentModels))
	for i := range assignmentModels {
		assignments[i] = assignmentModels[i].ToDomain()
	}
	return assignments
}

var _ scheduling.CrewAssignmentRepository = (*GormCrewAssignmentRepository)(nil)
