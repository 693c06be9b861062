package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/crewpay/backend/internal/domain/shared"
)

// EmploymentType selects the attendance pay policy for a user
type EmploymentType string

const (
	// EmploymentTypeCasual earns the base day rate plus overtime per attendance
	EmploymentTypeCasual EmploymentType = "casual"
	// EmploymentTypeSalaried earns a monthly salary; attendance accrues overtime only
	EmploymentTypeSalaried EmploymentType = "salaried"
)

// IsValid returns true if the employment type is valid
func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentTypeCasual, EmploymentTypeSalaried:
		return true
	}
	return false
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending" // Salaried onboarding awaiting admin approval
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

var phonePattern = regexp.MustCompile(`^254[17]\d{8}$`)

// User is the identity-provider view of an employee: an opaque ID plus the
// fields the ledger and scheduling need (employment type, phone for M-Pesa,
// active flag). Authentication lives outside this service.
type User struct {
	shared.BaseEntity
	Username       string
	Email          string
	PhoneNumber    string
	EmploymentType EmploymentType
	Status         UserStatus
	IsAdmin        bool
	ActivatedAt    *time.Time
}

// NewUser creates a new user. Casual employees are active immediately;
// salaried employees start pending until onboarding is approved.
func NewUser(username, email, phone string, employmentType EmploymentType) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if !employmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_EMPLOYMENT_TYPE", "Invalid employment type")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number must be in 254XXXXXXXXX format")
	}

	status := UserStatusActive
	if employmentType == EmploymentTypeSalaried {
		status = UserStatusPending
	}

	return &User{
		BaseEntity:     shared.NewBaseEntity(),
		Username:       username,
		Email:          strings.ToLower(strings.TrimSpace(email)),
		PhoneNumber:    phone,
		EmploymentType: employmentType,
		Status:         status,
	}, nil
}

// Activate completes onboarding for a pending user
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	u.Status = UserStatusActive
	u.ActivatedAt = &now
	u.UpdatedAt = now
	return nil
}

// Deactivate disables the user without deleting the ledger history
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.ErrInvalidState
	}
	u.Status = UserStatusDeactivated
	u.Touch()
	return nil
}

// IsActive returns true if the user may record mutations
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsSalaried returns true for salaried employees
func (u *User) IsSalaried() bool {
	return u.EmploymentType == EmploymentTypeSalaried
}
