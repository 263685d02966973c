package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RoleName is the closed set of role names a user can hold
type RoleName string

// Supported role names
const (
	RoleUser  RoleName = "USER"
	RoleAdmin RoleName = "ADMIN"
)

// ParseRoleName parses a role name case-insensitively and returns its canonical form
func ParseRoleName(s string) (RoleName, error) {
	switch RoleName(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role name %q (must be one of: %s, %s)", s, RoleUser, RoleAdmin)
	}
}

// String returns the canonical role name
func (r RoleName) String() string {
	return string(r)
}

// Role represents a named role assignable to users
type Role struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name      RoleName  `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,oneof=USER ADMIN"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a new Role with generated UUID and timestamps
func NewRole(name RoleName) *Role {
	now := time.Now().UTC()
	return &Role{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
