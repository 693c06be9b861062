package models

import (
	"time"

	"github.com/crewpay/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User entity
type UserModel struct {
	BaseModel
	Username       string                  `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	Email          string                  `gorm:"type:varchar(255);index"`
	PhoneNumber    string                  `gorm:"type:varchar(20)"`
	EmploymentType identity.EmploymentType `gorm:"type:varchar(20);not null"`
	Status         identity.UserStatus     `gorm:"type:varchar(20);not null;index"`
	IsAdmin        bool                    `gorm:"not null;default:false"`
	ActivatedAt    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:     m.BaseModel.ToDomain(),
		Username:       m.Username,
		Email:          m.Email,
		PhoneNumber:    m.PhoneNumber,
		EmploymentType: m.EmploymentType,
		Status:         m.Status,
		IsAdmin:        m.IsAdmin,
		ActivatedAt:    m.ActivatedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.Email = u.Email
	m.PhoneNumber = u.PhoneNumber
	m.EmploymentType = u.EmploymentType
	m.Status = u.Status
	m.IsAdmin = u.IsAdmin
	m.ActivatedAt = u.ActivatedAt
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
