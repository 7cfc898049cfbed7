package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewUserNotFoundError("u1"), http.StatusNotFound},
		{NewPlanNotFoundError("p1"), http.StatusNotFound},
		{NewSlotNotFoundError(2, "lunch"), http.StatusNotFound},
		{NewItemNotFoundError("milk"), http.StatusNotFound},
		{NewConflictError("dup"), http.StatusConflict},
		{NewCatalogEmptyError(), http.StatusUnprocessableEntity},
		{NewTooManyRequestsError(), http.StatusTooManyRequests},
		{NewTimeoutError("generate plan", nil), http.StatusGatewayTimeout},
		{NewDatabaseError("save", stderrors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection reset")

	wrapped := Wrap(cause, "failed to save")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)

	original := NewPlanNotFoundError("p1")
	assert.Same(t, original, Wrap(fmt.Errorf("layer: %w", original), "ignored"))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewCatalogEmptyError())

	assert.True(t, Is(err, CodeCatalogEmpty))
	assert.False(t, Is(err, CodePlanNotFound))
	assert.Equal(t, CodeCatalogEmpty, GetCode(err))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestToErrorResponse(t *testing.T) {
	err := NewSlotNotFoundError(3, "dinner")

	resp := ToErrorResponse(err, "req-1")

	assert.Equal(t, CodeSlotNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.NotEmpty(t, resp.Error.Timestamp)
}
