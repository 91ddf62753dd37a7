package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/system"
	"github.com/poamtrack/poamtrack-backend-go/internal/handler/http/response"
	"github.com/poamtrack/poamtrack-backend-go/internal/service/alerting"
)

// SystemHandler defines the system handler interface
type SystemHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
}

type systemHandlerImpl struct {
	repo      system.Repository
	scheduler *alerting.Scheduler
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(repo system.Repository, scheduler *alerting.Scheduler) SystemHandler {
	return &systemHandlerImpl{
		repo:      repo,
		scheduler: scheduler,
	}
}

// List returns every system
func (h *systemHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	systems, err := h.repo.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, systems)
}

type createSystemRequest struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Owner          *string `json:"owner,omitempty"`
	Classification *string `json:"classification,omitempty"`
}

// Create registers a new system
func (h *systemHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req createSystemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required", nil)
		return
	}

	s := &system.System{
		Name:           req.Name,
		Description:    req.Description,
		Owner:          req.Owner,
		Classification: req.Classification,
		IsActive:       true,
	}
	if err := h.repo.Create(r.Context(), s); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "System created", s)
}

// Activate switches the active system; the switch triggers one
// comprehensive check
func (h *systemHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "System ID is required", nil)
		return
	}

	if err := h.scheduler.SetActiveSystem(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "System activated", nil)
}
