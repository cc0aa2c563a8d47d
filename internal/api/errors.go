package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/storyboard-api/internal/api/shared"
	"github.com/phrazzld/storyboard-api/internal/batch"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/store"
)

var (
	// ErrTaskNotFound indicates the poller knows nothing about a task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrRunNotFound indicates no batch run exists for an asset type.
	ErrRunNotFound = errors.New("batch run not found")

	// ErrTaskInFlight indicates a task cannot be consumed before it finishes.
	ErrTaskInFlight = errors.New("task has not finished")
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, batch.ErrInvalidBatch),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAssetType),
		errors.Is(err, generation.ErrInvalidRequest):
		return http.StatusBadRequest

	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrRunNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, batch.ErrTargetBusy),
		errors.Is(err, ErrTaskInFlight):
		return http.StatusConflict

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, batch.ErrSchedulerClosed):
		return http.StatusServiceUnavailable

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrInvalidAssetType):
		return "Unknown asset type"
	case errors.Is(err, domain.ErrEmptyTargetID):
		return "Target id is required"
	case errors.Is(err, batch.ErrInvalidBatch),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid generation request"
	case errors.Is(err, ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, ErrRunNotFound):
		return "No batch run for this asset type"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, batch.ErrTargetBusy):
		return "This item is already being generated"
	case errors.Is(err, ErrTaskInFlight):
		return "Task has not finished yet"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by content safety filters"
	case errors.Is(err, generation.ErrTransientFailure):
		return "The generation service is temporarily unavailable, try again later"
	case errors.Is(err, batch.ErrSchedulerClosed):
		return "The server is shutting down"
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Generation failed"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message that
// names the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	field := fe.Field()
	if ns := fe.Namespace(); ns != "" {
		// Drop the root struct name: "StartBatchRequest.Targets[0].ID" -> "Targets[0].ID"
		if i := strings.Index(ns, "."); i >= 0 {
			field = ns[i+1:]
		}
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "url":
		return "invalid url"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. A non-empty message replaces
// the default safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
