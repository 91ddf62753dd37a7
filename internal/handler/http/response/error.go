package response

import (
	"errors"
	"net/http"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/system"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidType):
		BadRequest(w, "Invalid notification type", nil)
	case errors.Is(err, notification.ErrInvalidSeverity):
		BadRequest(w, "Invalid notification severity", nil)
	case errors.Is(err, notification.ErrInvalidFilter):
		BadRequest(w, "Invalid notification filter", nil)
	case errors.Is(err, notification.ErrInvalidEventKind):
		BadRequest(w, "Invalid system event kind", nil)

	// POAM domain errors
	case errors.Is(err, poam.ErrPOAMNotFound):
		NotFound(w, "POAM not found")
	case errors.Is(err, poam.ErrMilestoneNotFound):
		NotFound(w, "Milestone not found")
	case errors.Is(err, poam.ErrInvalidStatus):
		BadRequest(w, "Invalid POAM status", nil)
	case errors.Is(err, poam.ErrInvalidPriority):
		BadRequest(w, "Invalid POAM priority", nil)

	// System domain errors
	case errors.Is(err, system.ErrSystemNotFound):
		NotFound(w, "System not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
