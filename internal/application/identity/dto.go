package identity

import (
	"time"

	"github.com/crewpay/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// CreateUserRequest represents a request to register an employee
type CreateUserRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	PhoneNumber    string `json:"phone_number" binding:"omitempty,msisdn"`
	EmploymentType string `json:"employment_type" binding:"required"`
	IsAdmin        bool   `json:"is_admin"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	EmploymentType string     `json:"employment_type"`
	Status         string     `json:"status"`
	IsAdmin        bool       `json:"is_admin"`
	ActivatedAt    *time.Time `json:"activated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user to a UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		EmploymentType: string(u.EmploymentType),
		Status:         string(u.Status),
		IsAdmin:        u.IsAdmin,
		ActivatedAt:    u.ActivatedAt,
		CreatedAt:      u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users to UserResponses
func ToUserResponses(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses
}
