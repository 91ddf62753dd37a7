package alerting

import (
	"fmt"
	"time"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
)

// Lookahead windows for due-soon conditions
const (
	POAMDeadlineWindow      = 7 * 24 * time.Hour
	MilestoneDeadlineWindow = 3 * 24 * time.Hour
)

const day = 24 * time.Hour

// daysUntil returns the number of whole days remaining, rounded up
func daysUntil(deadline, now time.Time) int {
	return int((deadline.Sub(now) + day - 1) / day)
}

// daysSince returns the number of whole days elapsed, rounded down
func daysSince(deadline, now time.Time) int {
	return int(now.Sub(deadline) / day)
}

// ScanPOAMs evaluates deadline and overdue conditions over the given
// POAMs at the given instant. Completed POAMs are silent. A POAM emits
// at most one deadline alert and at most one overdue warning per scan;
// the two conditions are mutually exclusive.
func ScanPOAMs(poams []poam.POAM, now time.Time) []notification.AddRequest {
	var out []notification.AddRequest

	for _, p := range poams {
		if p.Status == poam.StatusCompleted {
			continue
		}

		id := p.ID
		switch {
		case now.Before(p.EndDate) && !p.EndDate.After(now.Add(POAMDeadlineWindow)):
			severity := notification.SeverityInfo
			switch p.Priority {
			case poam.PriorityHigh:
				severity = notification.SeverityError
			case poam.PriorityMedium:
				severity = notification.SeverityWarning
			}
			out = append(out, notification.AddRequest{
				Type:      notification.TypeDeadlineAlert,
				Title:     "POAM Deadline Approaching",
				Message:   fmt.Sprintf("%q is due in %d days (status: %s)", p.Title, daysUntil(p.EndDate, now), p.Status),
				Severity:  severity,
				ActionURL: fmt.Sprintf("/poams/%d", p.ID),
				Metadata:  &notification.Metadata{POAMID: &id},
			})

		case p.EndDate.Before(now):
			out = append(out, notification.AddRequest{
				Type:      notification.TypeOverdueWarning,
				Title:     "POAM Overdue",
				Message:   fmt.Sprintf("%q is %d days overdue (status: %s)", p.Title, daysSince(p.EndDate, now), p.Status),
				Severity:  notification.SeverityError,
				ActionURL: fmt.Sprintf("/poams/%d", p.ID),
				Metadata:  &notification.Metadata{POAMID: &id},
			})
		}
	}

	return out
}

// ScanMilestones evaluates the flattened milestone list with a 3-day
// lookahead and fixed severities. Messages include the parent POAM
// title when available.
func ScanMilestones(refs []poam.MilestoneRef, now time.Time) []notification.AddRequest {
	var out []notification.AddRequest

	for _, m := range refs {
		if m.Status == poam.StatusCompleted {
			continue
		}

		poamID := m.POAMID
		msID := m.ID
		meta := &notification.Metadata{POAMID: &poamID, MilestoneID: &msID}

		subject := fmt.Sprintf("Milestone %q", m.Title)
		if m.POAMTitle != "" {
			subject = fmt.Sprintf("Milestone %q of %q", m.Title, m.POAMTitle)
		}

		switch {
		case now.Before(m.DueDate) && !m.DueDate.After(now.Add(MilestoneDeadlineWindow)):
			out = append(out, notification.AddRequest{
				Type:      notification.TypeDeadlineAlert,
				Title:     "Milestone Due Soon",
				Message:   fmt.Sprintf("%s is due in %d days", subject, daysUntil(m.DueDate, now)),
				Severity:  notification.SeverityWarning,
				ActionURL: fmt.Sprintf("/poams/%d", m.POAMID),
				Metadata:  meta,
			})

		case m.DueDate.Before(now):
			out = append(out, notification.AddRequest{
				Type:      notification.TypeOverdueWarning,
				Title:     "Milestone Overdue",
				Message:   fmt.Sprintf("%s is %d days overdue", subject, daysSince(m.DueDate, now)),
				Severity:  notification.SeverityError,
				ActionURL: fmt.Sprintf("/poams/%d", m.POAMID),
				Metadata:  meta,
			})
		}
	}

	return out
}
