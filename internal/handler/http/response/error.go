package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, workday.ErrUserIDRequired):
		Unauthorized(w, err.Error())

	// Workday domain errors
	case errors.Is(err, workday.ErrWorkdayNotFound):
		NotFound(w, "Workday not found")
	case errors.Is(err, workday.ErrWorkdayAlreadyExists):
		Conflict(w, "A workday already exists for this date")
	case errors.Is(err, workday.ErrWorkdayFinalized):
		Conflict(w, "Workday has already been finalized")
	case errors.Is(err, workday.ErrWorkdayNotActive):
		Conflict(w, "Workday is not active")
	case errors.Is(err, workday.ErrWorkdayNotPaused):
		Conflict(w, "Workday is not paused")
	case errors.Is(err, workday.ErrPauseAlreadyUsed):
		Conflict(w, "The pause for this workday has already been taken")
	case errors.Is(err, workday.ErrInvalidAction):
		BadRequest(w, "Invalid workday action", nil)

	// Report domain errors
	case errors.Is(err, report.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
