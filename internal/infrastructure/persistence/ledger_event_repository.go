package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/crewpay/backend/internal/domain/ledger"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerEventRepository implements ledger.EventRepository using GORM
type GormLedgerEventRepository struct {
	db *gorm.DB
}

// NewGormLedgerEventRepository creates a new GormLedgerEventRepository
func NewGormLedgerEventRepository(db *gorm.DB) *GormLedgerEventRepository {
	return &GormLedgerEventRepository{db: db}
}

// Create appends a new ledger event
func (r *GormLedgerEventRepository) Create(ctx context.Context, event *ledger.Event) error {
	model := models.LedgerEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists a state transition on an existing event
func (r *GormLedgerEventRepository) Update(ctx context.Context, event *ledger.Event) error {
	model := models.LedgerEventModelFromDomain(event)
	result := r.db.WithContext(ctx).Model(&models.LedgerEventModel{}).
		Where("id = ?", event.ID).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a ledger event by ID
func (r *GormLedgerEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Event, error) {
	var model models.LedgerEventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllByUser returns the user's full event set for recomputation
func (r *GormLedgerEventRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Event, error) {
	var eventModels []models.LedgerEventModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(eventModels), nil
}

// FindByUser returns a page of the user's events, newest first
func (r *GormLedgerEventRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter ledger.EventFilter) ([]*ledger.Event, int64, error) {
	var eventModels []models.LedgerEventModel
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&models.LedgerEventModel{}).Where("user_id = ?", userID)
	if err := applyEventFilter(countQuery, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.LedgerEventModel{}).Where("user_id = ?", userID)
	query = applyEventFilter(query, filter).Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&eventModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainEvents(eventModels), total, nil
}

// ExistsAttendanceOn reports whether an attendance earning exists for the
// (user, work date) pair
func (r *GormLedgerEventRepository) ExistsAttendanceOn(ctx context.Context, userID uuid.UUID, workDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEventModel{}).
		Where("user_id = ? AND kind = ? AND work_date = ?",
			userID, ledger.EventKindAttendanceEarning, workDate.Truncate(24*time.Hour)).
		Count(&count).Error
	return count > 0, err
}

// ExistsSalaryFor reports whether a salary payment exists for the
// (user, period) pair
func (r *GormLedgerEventRepository) ExistsSalaryFor(ctx context.Context, userID uuid.UUID, period string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEventModel{}).
		Where("user_id = ? AND kind = ? AND period = ?",
			userID, ledger.EventKindSalaryPayment, period).
		Count(&count).Error
	return count > 0, err
}

// FindByReference finds the event holding a gateway reference
func (r *GormLedgerEventRepository) FindByReference(ctx context.Context, reference string) (*ledger.Event, error) {
	if reference == "" {
		return nil, shared.ErrNotFound
	}
	var model models.LedgerEventModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func applyEventFilter(query *gorm.DB, filter ledger.EventFilter) *gorm.DB {
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	return query
}

func toDomainEvents(eventModels []models.LedgerEventModel) []*ledger.Event {
	events := make([]*ledger.Event, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToDomain()
	}
	return events
}

var _ ledger.EventRepository = (*GormLedgerEventRepository)(nil)
