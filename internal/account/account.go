// Package account implements registration, login, user profiles and roles.
package account

import (
	"strings"

	"github.com/stwalsh4118/reelhouse/internal/apperr"
	"github.com/stwalsh4118/reelhouse/internal/models"
)

const (
	resourceUser = "User"
	resourceRole = "Role"

	msgInvalidCredentials = "Invalid email or password"
	msgInvalidOldPassword = "Invalid old password"
)

// Registration carries the fields needed to create an account
type Registration struct {
	FullName string  `validate:"required,min=2,max=255"`
	Email    string  `validate:"required,email,max=255"`
	Password string  `validate:"required,min=8,max=72"`
	Country  *string `validate:"omitempty,max=100"`
}

// Profile carries the editable fields of a user
type Profile struct {
	FullName string  `validate:"required,min=2,max=255"`
	Email    string  `validate:"required,email,max=255"`
	Country  *string `validate:"omitempty,max=100"`
}

// normalizeEmail trims and lower-cases an address so uniqueness ignores case
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalid(err error) error {
	return apperr.Wrap(apperr.KindValidation, err, "%s", models.ValidationMessage(err))
}
