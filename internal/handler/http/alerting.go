package http

import (
	"net/http"
	"time"

	"github.com/poamtrack/poamtrack-backend-go/internal/handler/http/response"
	"github.com/poamtrack/poamtrack-backend-go/internal/service/alerting"
)

// AlertingHandler defines the alerting handler interface
type AlertingHandler interface {
	TriggerCheck(w http.ResponseWriter, r *http.Request)
	LastCheck(w http.ResponseWriter, r *http.Request)
}

type alertingHandlerImpl struct {
	scheduler *alerting.Scheduler
}

// NewAlertingHandler creates a new alerting handler
func NewAlertingHandler(scheduler *alerting.Scheduler) AlertingHandler {
	return &alertingHandlerImpl{scheduler: scheduler}
}

// TriggerCheck runs a manual comprehensive check. A failed snapshot
// fetch still returns success with zero emissions.
func (h *alertingHandlerImpl) TriggerCheck(w http.ResponseWriter, r *http.Request) {
	result := h.scheduler.PerformComprehensiveCheck(r.Context())
	response.Success(w, result)
}

type lastCheckResponse struct {
	LastCheck *time.Time `json:"last_check"`
}

// LastCheck reports when the last comprehensive check ran
func (h *alertingHandlerImpl) LastCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, lastCheckResponse{LastCheck: h.scheduler.LastCheck()})
}
