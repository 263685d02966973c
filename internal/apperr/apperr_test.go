package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := NotFound("Genre", "id", "42")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Unexpected(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "an unexpected error occurred", MessageOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
	assert.Equal(t, "an unexpected error occurred", MessageOf(errors.New("boom")))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Genre not found with id: '42'", NotFound("Genre", "id", "42").Message)
	assert.Equal(t, "Genre already exists with name: 'Drama'", Conflict("Genre", "name", "Drama").Message)
	assert.Equal(t, "nope", MessageOf(AccessDenied("nope")))
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Kind]int{
		KindNotFound:              http.StatusNotFound,
		KindConflict:              http.StatusConflict,
		KindBusinessRuleViolation: http.StatusUnprocessableEntity,
		KindAccessDenied:          http.StatusForbidden,
		KindInvalidToken:          http.StatusUnauthorized,
		KindInvalidCredentials:    http.StatusUnauthorized,
		KindValidation:            http.StatusBadRequest,
		KindUnexpected:            http.StatusInternalServerError,
	}

	for kind, want := range tests {
		t.Run(string(kind), func(t *testing.T) {
			assert.Equal(t, want, HTTPStatus(kind))
		})
	}
}
