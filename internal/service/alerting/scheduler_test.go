package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/system"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/kvstore"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/sse"
	notificationService "github.com/poamtrack/poamtrack-backend-go/internal/service/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPOAMRepo struct {
	poam.Repository
	poams []poam.POAM
	err   error
	calls int
}

func (s *stubPOAMRepo) ListBySystem(ctx context.Context, systemID string) ([]poam.POAM, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.poams, nil
}

type stubSystemRepo struct {
	system.Repository
	systems map[string]*system.System
	touched []string
}

func (s *stubSystemRepo) GetByID(ctx context.Context, id string) (*system.System, error) {
	sys, ok := s.systems[id]
	if !ok {
		return nil, system.ErrSystemNotFound
	}
	return sys, nil
}

func (s *stubSystemRepo) TouchLastAccessed(ctx context.Context, id string) error {
	s.touched = append(s.touched, id)
	return nil
}

func newSchedulerFixture(t *testing.T, poams *stubPOAMRepo) (*Scheduler, notification.Store) {
	t.Helper()
	store, err := notificationService.NewStore(context.Background(), kvstore.NewMemoryStore(), sse.NewHub(), nil)
	require.NoError(t, err)

	systems := &stubSystemRepo{systems: map[string]*system.System{
		"sys-1": {ID: "sys-1", Name: "Production"},
		"sys-2": {ID: "sys-2", Name: "Staging"},
	}}
	return NewScheduler(store, poams, systems, nil), store
}

func TestScheduler_CheckWithoutActiveSystem(t *testing.T) {
	t.Parallel()
	poams := &stubPOAMRepo{}
	scheduler, store := newSchedulerFixture(t, poams)

	result := scheduler.PerformComprehensiveCheck(context.Background())

	assert.Empty(t, result.SystemID)
	assert.Zero(t, result.Emitted)
	assert.Zero(t, poams.calls)
	assert.Equal(t, 0, store.Stats().Total)
}

func TestScheduler_SetActiveSystemRunsOneCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	poams := &stubPOAMRepo{poams: []poam.POAM{
		{ID: 1, Title: "due soon", Status: poam.StatusInProgress, Priority: poam.PriorityHigh, EndDate: time.Now().Add(24 * time.Hour)},
	}}
	scheduler, store := newSchedulerFixture(t, poams)

	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-1"))
	assert.Equal(t, "sys-1", scheduler.ActiveSystemID())
	assert.Equal(t, 1, poams.calls)
	assert.Equal(t, 1, store.Stats().Total)
	require.NotNil(t, scheduler.LastCheck())

	// Re-activating the same system does not re-scan
	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-1"))
	assert.Equal(t, 1, poams.calls)

	// Switching to a different system does
	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-2"))
	assert.Equal(t, 2, poams.calls)
}

func TestScheduler_SetActiveSystemUnknown(t *testing.T) {
	t.Parallel()
	poams := &stubPOAMRepo{}
	scheduler, _ := newSchedulerFixture(t, poams)

	err := scheduler.SetActiveSystem(context.Background(), "missing")
	assert.ErrorIs(t, err, system.ErrSystemNotFound)
	assert.Empty(t, scheduler.ActiveSystemID())
	assert.Zero(t, poams.calls)
}

func TestScheduler_RepeatedChecksDuplicate(t *testing.T) {
	// Scans carry no dedup state: running the same check twice against
	// an unchanged snapshot stores the alert twice
	t.Parallel()
	ctx := context.Background()
	poams := &stubPOAMRepo{poams: []poam.POAM{
		{ID: 1, Title: "overdue", Status: poam.StatusInProgress, Priority: poam.PriorityLow, EndDate: time.Now().Add(-48 * time.Hour)},
	}}
	scheduler, store := newSchedulerFixture(t, poams)
	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-1"))

	result := scheduler.PerformComprehensiveCheck(ctx)
	assert.Equal(t, 1, result.Emitted)
	assert.Equal(t, 2, store.Stats().Total)
}

func TestScheduler_FetchFailureEmitsNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	poams := &stubPOAMRepo{err: errors.New("connection refused")}
	scheduler, store := newSchedulerFixture(t, poams)
	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-1"))

	result := scheduler.PerformComprehensiveCheck(ctx)

	assert.Equal(t, "sys-1", result.SystemID)
	assert.Zero(t, result.Emitted)
	// No error notification either, only the log line
	assert.Equal(t, 0, store.Stats().Total)
	// The failed run still counts as a check
	assert.NotNil(t, scheduler.LastCheck())
}

func TestScheduler_GatedEmissionsNotCounted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	poams := &stubPOAMRepo{poams: []poam.POAM{
		{ID: 1, Title: "due soon", Status: poam.StatusInProgress, Priority: poam.PriorityHigh, EndDate: time.Now().Add(24 * time.Hour)},
	}}
	scheduler, store := newSchedulerFixture(t, poams)

	off := false
	_, err := store.UpdatePreferences(ctx, notification.UpdatePreferencesRequest{DeadlineAlerts: &off})
	require.NoError(t, err)

	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-1"))

	result := scheduler.PerformComprehensiveCheck(ctx)
	assert.Zero(t, result.Emitted)
	assert.Equal(t, 0, store.Stats().Total)
}

func TestScheduler_TouchesLastAccessed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	poams := &stubPOAMRepo{}
	store, err := notificationService.NewStore(ctx, kvstore.NewMemoryStore(), sse.NewHub(), nil)
	require.NoError(t, err)

	systems := &stubSystemRepo{systems: map[string]*system.System{
		"sys-1": {ID: "sys-1", Name: "Production"},
	}}
	scheduler := NewScheduler(store, poams, systems, nil)

	require.NoError(t, scheduler.SetActiveSystem(ctx, "sys-1"))
	assert.Equal(t, []string{"sys-1"}, systems.touched)
}
