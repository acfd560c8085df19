package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeNotFound:           http.StatusNotFound,
		CodeAlreadyExists:      http.StatusConflict,
		CodeConflict:           http.StatusConflict,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeInvalidCredentials: http.StatusUnauthorized,
		CodeTokenExpired:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeValidation:         http.StatusBadRequest,
		CodeRateLimited:        http.StatusTooManyRequests,
		CodeUnavailable:        http.StatusServiceUnavailable,
		CodeInternal:           http.StatusInternalServerError,
		Code("SOMETHING_ELSE"):  http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.HTTPStatus(), string(code))
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book not found for user")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("save mood: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))

	var target *Error
	assert.True(t, As(wrapped, &target))
	assert.Equal(t, "book not found for user", target.Message)
}

func TestError_CauseAndDetails(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Unavailable("catalog unavailable").WithCause(cause)

	assert.Equal(t, "catalog unavailable: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus())

	detailed := Validation("invalid mood").WithDetails(map[string]string{"mood": "must be one of Great, Good, Average, Low, Bad"})
	assert.Equal(t, "invalid mood", detailed.Error())
	assert.NotNil(t, detailed.Details)

	withCause := detailed.WithCause(cause)
	assert.Equal(t, detailed.Details, withCause.Details)
	assert.ErrorIs(t, withCause, cause)
	assert.Nil(t, detailed.Unwrap(), "WithCause must not modify the receiver")
}
