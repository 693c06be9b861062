package identity

import (
	"context"

	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages employee profiles. Authentication happens outside this
// service; this only owns the employment profile that drives pay policy.
type UserService struct {
	repo   identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// Create registers a new employee. Salaried employees start pending and must
// be activated before they can accrue pay.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Username, req.Email, req.PhoneNumber,
		identity.EmploymentType(req.EmploymentType))
	if err != nil {
		return nil, err
	}
	user.IsAdmin = req.IsAdmin

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("employment_type", string(user.EmploymentType)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns a page of users ordered by username
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToUserResponses(users), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Activate completes onboarding for a pending user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user activated", zap.String("user_id", user.ID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate disables a user without touching their ledger history
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user deactivated", zap.String("user_id", user.ID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}
