package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
	"github.com/poamtrack/poamtrack-backend-go/internal/handler/http/response"
	"github.com/poamtrack/poamtrack-backend-go/internal/service/alerting"
)

// POAMHandler defines the POAM handler interface
type POAMHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UpdateMilestone(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type poamHandlerImpl struct {
	repo      poam.Repository
	reporter  *alerting.Reporter
	scheduler *alerting.Scheduler
}

// NewPOAMHandler creates a new POAM handler
func NewPOAMHandler(repo poam.Repository, reporter *alerting.Reporter, scheduler *alerting.Scheduler) POAMHandler {
	return &poamHandlerImpl{
		repo:      repo,
		reporter:  reporter,
		scheduler: scheduler,
	}
}

func (h *poamHandlerImpl) activeSystem(w http.ResponseWriter) (string, bool) {
	systemID := h.scheduler.ActiveSystemID()
	if systemID == "" {
		response.BadRequest(w, "No active system selected", nil)
		return "", false
	}
	return systemID, true
}

func poamIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List returns every POAM of the active system
func (h *poamHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	systemID, ok := h.activeSystem(w)
	if !ok {
		return
	}

	poams, err := h.repo.ListBySystem(r.Context(), systemID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, poams)
}

// Get returns one POAM with its milestones
func (h *poamHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := poamIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid POAM ID", nil)
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, p)
}

// Create inserts a POAM, reports the creation and runs a scoped scan
func (h *poamHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	systemID, ok := h.activeSystem(w)
	if !ok {
		return
	}

	var req poam.CreatePOAMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Title == "" {
		response.BadRequest(w, "title is required", nil)
		return
	}
	if req.Status == "" {
		req.Status = poam.StatusNotStarted
	}

	created, err := h.repo.Create(r.Context(), systemID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Best effort: creation succeeds even if reporting fails
	h.reporter.POAMCreated(r.Context(), *created)

	response.Created(w, "POAM created", created)
}

// Update applies a partial update, reports it and re-scans the POAM
func (h *poamHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := poamIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid POAM ID", nil)
		return
	}

	var req poam.UpdatePOAMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	previous, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.repo.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.reporter.POAMUpdated(r.Context(), *updated, previous.Status)

	response.Success(w, updated)
}

// Delete removes a POAM and its milestones
func (h *poamHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := poamIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid POAM ID", nil)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "POAM deleted", nil)
}

// UpdateMilestone changes one milestone's status and reports the
// completion transition when it happens
func (h *poamHandlerImpl) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := poamIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid POAM ID", nil)
		return
	}
	milestoneID := chi.URLParam(r, "milestoneID")

	var req poam.UpdateMilestoneStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Status == "" {
		response.BadRequest(w, "status is required", nil)
		return
	}

	parent, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	previousStatus := ""
	for _, m := range parent.Milestones {
		if m.ID == milestoneID {
			previousStatus = m.Status
			break
		}
	}

	updated, err := h.repo.UpdateMilestoneStatus(r.Context(), id, milestoneID, req.Status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// The completion transition is detected here, not inferred by the
	// reporter
	if updated.Status == poam.StatusCompleted && previousStatus != poam.StatusCompleted {
		h.reporter.MilestoneCompleted(r.Context(), poam.MilestoneRef{
			Milestone: *updated,
			POAMID:    parent.ID,
			POAMTitle: parent.Title,
		})
	}

	response.Success(w, updated)
}

// Import replaces the active system's POAM data and reports the outcome
func (h *poamHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	systemID, ok := h.activeSystem(w)
	if !ok {
		return
	}

	var data poam.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.repo.ImportData(r.Context(), systemID, data); err != nil {
		_ = h.reporter.SystemEvent(r.Context(), notification.SystemEventRequest{
			Kind:    notification.EventImport,
			Message: "POAM import failed",
			Success: false,
			Details: err.Error(),
		})
		response.HandleError(w, err)
		return
	}

	_ = h.reporter.SystemEvent(r.Context(), notification.SystemEventRequest{
		Kind:    notification.EventImport,
		Message: fmt.Sprintf("Imported %d POAMs", len(data.POAMs)),
		Success: true,
	})

	response.SuccessWithMessage(w, "POAM data imported", nil)
}

// Export returns the active system's POAM data and reports the outcome
func (h *poamHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	systemID, ok := h.activeSystem(w)
	if !ok {
		return
	}

	data, err := h.repo.ExportData(r.Context(), systemID)
	if err != nil {
		_ = h.reporter.SystemEvent(r.Context(), notification.SystemEventRequest{
			Kind:    notification.EventExport,
			Message: "POAM export failed",
			Success: false,
			Details: err.Error(),
		})
		response.HandleError(w, err)
		return
	}

	_ = h.reporter.SystemEvent(r.Context(), notification.SystemEventRequest{
		Kind:    notification.EventExport,
		Message: fmt.Sprintf("Exported %d POAMs", len(data.POAMs)),
		Success: true,
	})

	response.Success(w, data)
}
