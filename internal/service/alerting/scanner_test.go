package alerting

import (
	"testing"
	"time"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPOAM(id int64, title, status, priority string, endDate time.Time) poam.POAM {
	return poam.POAM{
		ID:       id,
		Title:    title,
		Status:   status,
		Priority: priority,
		EndDate:  endDate,
	}
}

func TestScanPOAMs_DeadlineWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := testPOAM(1, "Patch SSH config", poam.StatusInProgress, poam.PriorityHigh, now.Add(3*24*time.Hour))

	out := ScanPOAMs([]poam.POAM{p}, now)

	require.Len(t, out, 1)
	assert.Equal(t, notification.TypeDeadlineAlert, out[0].Type)
	assert.Equal(t, notification.SeverityError, out[0].Severity)
	assert.Contains(t, out[0].Message, "3")
	assert.Contains(t, out[0].Message, poam.StatusInProgress)
	require.NotNil(t, out[0].Metadata)
	require.NotNil(t, out[0].Metadata.POAMID)
	assert.Equal(t, int64(1), *out[0].Metadata.POAMID)
}

func TestScanPOAMs_SeverityFollowsPriority(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(2 * 24 * time.Hour)

	cases := []struct {
		priority string
		want     notification.Severity
	}{
		{poam.PriorityHigh, notification.SeverityError},
		{poam.PriorityMedium, notification.SeverityWarning},
		{poam.PriorityLow, notification.SeverityInfo},
		{"", notification.SeverityInfo},
	}

	for _, tc := range cases {
		out := ScanPOAMs([]poam.POAM{testPOAM(1, "x", poam.StatusInProgress, tc.priority, due)}, now)
		require.Len(t, out, 1)
		assert.Equal(t, tc.want, out[0].Severity, "priority %q", tc.priority)
	}
}

func TestScanPOAMs_Overdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := testPOAM(7, "Rotate credentials", poam.StatusInProgress, poam.PriorityLow, now.Add(-5*24*time.Hour))

	out := ScanPOAMs([]poam.POAM{p}, now)

	require.Len(t, out, 1)
	assert.Equal(t, notification.TypeOverdueWarning, out[0].Type)
	// Overdue severity ignores priority
	assert.Equal(t, notification.SeverityError, out[0].Severity)
	assert.Contains(t, out[0].Message, "5")
}

func TestScanPOAMs_CompletedIsSilent(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	p := testPOAM(2, "Done long ago", poam.StatusCompleted, poam.PriorityHigh, now.Add(-10*24*time.Hour))

	out := ScanPOAMs([]poam.POAM{p}, now)
	assert.Empty(t, out)
}

func TestScanPOAMs_WindowBoundaries(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Exactly 7 days out is still inside the window
	out := ScanPOAMs([]poam.POAM{testPOAM(1, "edge", poam.StatusInProgress, poam.PriorityLow, now.Add(POAMDeadlineWindow))}, now)
	require.Len(t, out, 1)
	assert.Equal(t, notification.TypeDeadlineAlert, out[0].Type)
	assert.Contains(t, out[0].Message, "7")

	// Just past the window is silent
	out = ScanPOAMs([]poam.POAM{testPOAM(2, "far", poam.StatusInProgress, poam.PriorityLow, now.Add(POAMDeadlineWindow+time.Hour))}, now)
	assert.Empty(t, out)

	// Due exactly now: neither due-soon nor overdue
	out = ScanPOAMs([]poam.POAM{testPOAM(3, "now", poam.StatusInProgress, poam.PriorityLow, now)}, now)
	assert.Empty(t, out)
}

func TestScanPOAMs_AtMostOnePerCondition(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	poams := []poam.POAM{
		testPOAM(1, "due soon", poam.StatusInProgress, poam.PriorityMedium, now.Add(24*time.Hour)),
		testPOAM(2, "overdue", poam.StatusOnHold, poam.PriorityMedium, now.Add(-24*time.Hour)),
	}

	out := ScanPOAMs(poams, now)
	require.Len(t, out, 2)

	byType := map[notification.Type]int{}
	for _, req := range out {
		byType[req.Type]++
	}
	assert.Equal(t, 1, byType[notification.TypeDeadlineAlert])
	assert.Equal(t, 1, byType[notification.TypeOverdueWarning])
}

func TestScanMilestones_ThreeDayWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	refs := []poam.MilestoneRef{
		{
			Milestone: poam.Milestone{ID: "m1", Title: "Draft SSP", Status: poam.StatusInProgress, DueDate: now.Add(2 * 24 * time.Hour)},
			POAMID:    4,
			POAMTitle: "Harden web tier",
		},
		{
			// Inside the POAM window but outside the milestone window
			Milestone: poam.Milestone{ID: "m2", Title: "Review", Status: poam.StatusInProgress, DueDate: now.Add(5 * 24 * time.Hour)},
			POAMID:    4,
			POAMTitle: "Harden web tier",
		},
	}

	out := ScanMilestones(refs, now)

	require.Len(t, out, 1)
	assert.Equal(t, notification.TypeDeadlineAlert, out[0].Type)
	assert.Equal(t, notification.SeverityWarning, out[0].Severity)
	assert.Contains(t, out[0].Message, "Draft SSP")
	assert.Contains(t, out[0].Message, "Harden web tier")
	require.NotNil(t, out[0].Metadata)
	require.NotNil(t, out[0].Metadata.MilestoneID)
	assert.Equal(t, "m1", *out[0].Metadata.MilestoneID)
}

func TestScanMilestones_Overdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	refs := []poam.MilestoneRef{
		{
			Milestone: poam.Milestone{ID: "m1", Title: "Scan hosts", Status: poam.StatusNotStarted, DueDate: now.Add(-2 * 24 * time.Hour)},
			POAMID:    9,
		},
	}

	out := ScanMilestones(refs, now)

	require.Len(t, out, 1)
	assert.Equal(t, notification.TypeOverdueWarning, out[0].Type)
	assert.Equal(t, notification.SeverityError, out[0].Severity)
	assert.Contains(t, out[0].Message, "2")
}

func TestScanMilestones_CompletedIsSilent(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	refs := []poam.MilestoneRef{
		{
			Milestone: poam.Milestone{ID: "m1", Title: "Done", Status: poam.StatusCompleted, DueDate: now.Add(-30 * 24 * time.Hour)},
			POAMID:    9,
		},
	}

	assert.Empty(t, ScanMilestones(refs, now))
}

func TestFlattenAll(t *testing.T) {
	t.Parallel()

	poams := []poam.POAM{
		{
			ID:    1,
			Title: "Parent A",
			Milestones: []poam.Milestone{
				{ID: "a1", Title: "step one"},
				{ID: "a2", Title: "step two"},
			},
		},
		{ID: 2, Title: "Parent B"},
	}

	refs := poam.FlattenAll(poams)

	require.Len(t, refs, 2)
	assert.Equal(t, int64(1), refs[0].POAMID)
	assert.Equal(t, "Parent A", refs[0].POAMTitle)
	assert.Equal(t, "a2", refs[1].ID)
}
