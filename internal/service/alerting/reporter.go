package alerting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
)

// Reporter turns single domain events into one synthetic notification
// plus a scoped re-scan of the affected record. Event reporting is
// best-effort: a failed emission or scan never fails the enclosing
// user action.
type Reporter struct {
	store  notification.Store
	logger *slog.Logger
}

// NewReporter creates a new event reporter
func NewReporter(store notification.Store, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{store: store, logger: logger}
}

// POAMCreated reports a newly created POAM, then scans it
func (r *Reporter) POAMCreated(ctx context.Context, p poam.POAM) {
	id := p.ID
	r.add(ctx, notification.AddRequest{
		Type:      notification.TypeSystemStatus,
		Title:     "POAM Created",
		Message:   fmt.Sprintf("%q was created with %d milestones", p.Title, len(p.Milestones)),
		Severity:  notification.SeveritySuccess,
		ActionURL: fmt.Sprintf("/poams/%d", p.ID),
		Metadata:  &notification.Metadata{POAMID: &id},
	})

	r.scopedScan(ctx, p)
}

// POAMUpdated reports an update, reflecting a status transition when
// previousStatus differs, then re-scans the POAM
func (r *Reporter) POAMUpdated(ctx context.Context, p poam.POAM, previousStatus string) {
	id := p.ID

	message := fmt.Sprintf("%q was updated", p.Title)
	severity := notification.SeverityInfo
	if previousStatus != "" && previousStatus != p.Status {
		message = fmt.Sprintf("%q moved from %s to %s", p.Title, previousStatus, p.Status)
		if p.Status == poam.StatusCompleted {
			severity = notification.SeveritySuccess
		}
	}

	r.add(ctx, notification.AddRequest{
		Type:      notification.TypeSystemStatus,
		Title:     "POAM Updated",
		Message:   message,
		Severity:  severity,
		ActionURL: fmt.Sprintf("/poams/%d", p.ID),
		Metadata:  &notification.Metadata{POAMID: &id},
	})

	r.scopedScan(ctx, p)
}

// MilestoneCompleted reports a milestone completion. The caller is
// responsible for detecting the completion transition.
func (r *Reporter) MilestoneCompleted(ctx context.Context, m poam.MilestoneRef) {
	poamID := m.POAMID
	msID := m.ID

	message := fmt.Sprintf("Milestone %q was completed", m.Title)
	if m.POAMTitle != "" {
		message = fmt.Sprintf("Milestone %q of %q was completed", m.Title, m.POAMTitle)
	}

	r.add(ctx, notification.AddRequest{
		Type:      notification.TypeMilestoneCompleted,
		Title:     "Milestone Completed",
		Message:   message,
		Severity:  notification.SeveritySuccess,
		ActionURL: fmt.Sprintf("/poams/%d", m.POAMID),
		Metadata:  &notification.Metadata{POAMID: &poamID, MilestoneID: &msID},
	})
}

// SystemEvent reports an import/export/backup/sync/error event
func (r *Reporter) SystemEvent(ctx context.Context, ev notification.SystemEventRequest) error {
	if !ev.Kind.Valid() {
		return notification.ErrInvalidEventKind
	}

	notifType := notification.TypeSystemStatus
	if ev.Kind == notification.EventImport || ev.Kind == notification.EventExport {
		notifType = notification.TypeImportExport
	}

	var title string
	var severity notification.Severity
	switch {
	case ev.Kind == notification.EventError:
		title = "System Error"
		severity = notification.SeverityError
	case ev.Success:
		title = eventTitles[ev.Kind] + " Completed"
		severity = notification.SeveritySuccess
	default:
		title = eventTitles[ev.Kind] + " Failed"
		severity = notification.SeverityError
	}

	message := ev.Message
	if ev.Details != "" {
		message = fmt.Sprintf("%s: %s", message, ev.Details)
	}

	r.add(ctx, notification.AddRequest{
		Type:     notifType,
		Title:    title,
		Message:  message,
		Severity: severity,
	})
	return nil
}

var eventTitles = map[notification.EventKind]string{
	notification.EventImport: "Import",
	notification.EventExport: "Export",
	notification.EventBackup: "Backup",
	notification.EventSync:   "Sync",
}

func (r *Reporter) add(ctx context.Context, req notification.AddRequest) {
	if _, err := r.store.Add(ctx, req); err != nil {
		r.logger.Error("failed to add notification", "type", req.Type, "error", err)
	}
}

// scopedScan re-evaluates deadline and overdue conditions for one POAM
// and its milestones
func (r *Reporter) scopedScan(ctx context.Context, p poam.POAM) {
	now := time.Now()
	for _, req := range ScanPOAMs([]poam.POAM{p}, now) {
		r.add(ctx, req)
	}
	for _, req := range ScanMilestones(poam.Flatten(p), now) {
		r.add(ctx, req)
	}
}
