package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/storyboard-api/internal/api/shared"
	"github.com/phrazzld/storyboard-api/internal/batch"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty body", shared.ErrEmptyBody, http.StatusBadRequest},
		{"invalid batch", fmt.Errorf("%w: no targets", batch.ErrInvalidBatch), http.StatusBadRequest},
		{"invalid asset type", domain.ErrInvalidAssetType, http.StatusBadRequest},
		{"invalid request", generation.ErrInvalidRequest, http.StatusBadRequest},
		{"task not found", ErrTaskNotFound, http.StatusNotFound},
		{"run not found", fmt.Errorf("%w: scene", ErrRunNotFound), http.StatusNotFound},
		{"store not found", store.ErrNotFound, http.StatusNotFound},
		{"target busy", fmt.Errorf("%w: c1", batch.ErrTargetBusy), http.StatusConflict},
		{"task in flight", ErrTaskInFlight, http.StatusConflict},
		{"content blocked", generation.ErrContentBlocked, http.StatusUnprocessableEntity},
		{"transient", generation.ErrTransientFailure, http.StatusServiceUnavailable},
		{"closed", batch.ErrSchedulerClosed, http.StatusServiceUnavailable},
		{"generation failed", generation.ErrGenerationFailed, http.StatusBadGateway},
		{"invalid response", generation.ErrInvalidResponse, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_HidesInternalDetails(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: dial tcp 10.0.0.3:443: connection refused", generation.ErrTransientFailure)
	msg := GetSafeErrorMessage(err)
	assert.Equal(t, "The generation service is temporarily unavailable, try again later", msg)
	assert.NotContains(t, msg, "10.0.0.3")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("pq: relation missing")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Target id is required", GetSafeErrorMessage(fmt.Errorf("%w: %w", batch.ErrInvalidBatch, domain.ErrEmptyTargetID)))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := validator.New().Struct(StartBatchRequest{Targets: []TargetRequest{{}}})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	assert.Equal(t, "Invalid Targets[0].ID: required field", SanitizeValidationError(validationErrs))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatusCode(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(nil))
}
