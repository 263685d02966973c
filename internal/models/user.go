package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	FullName       string    `json:"full_name" gorm:"type:text;not null;column:full_name" validate:"required,min=2,max=255"`
	Email          string    `json:"email" gorm:"type:text;not null;uniqueIndex;column:email" validate:"required,email,max=255"`
	HashedPassword string    `json:"-" gorm:"type:text;not null;column:hashed_password" validate:"required"`
	Country        *string   `json:"country,omitempty" gorm:"type:text;column:country" validate:"omitempty,max=100"`
	RoleID         uuid.UUID `json:"role_id" gorm:"type:text;not null;column:role_id" validate:"required"`
	Role           *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID;references:ID"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User with generated UUID and timestamps
func NewUser(fullName, email, hashedPassword string, country *string, roleID uuid.UUID) *User {
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		FullName:       fullName,
		Email:          email,
		HashedPassword: hashedPassword,
		Country:        country,
		RoleID:         roleID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsAdmin reports whether the loaded role is ADMIN
func (u *User) IsAdmin() bool {
	return u.Role != nil && u.Role.Name == RoleAdmin
}
