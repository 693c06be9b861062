package identity

import (
	"context"

	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*User, int64, error)
	Save(ctx context.Context, user *User) error
	Create(ctx context.Context, user *User) error
}
