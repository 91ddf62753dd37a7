package alerting

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/poam"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/system"
	"golang.org/x/sync/singleflight"
)

// CheckResult summarizes one comprehensive check run
type CheckResult struct {
	SystemID  string    `json:"system_id"`
	Emitted   int       `json:"emitted"`
	CheckedAt time.Time `json:"checked_at"`
}

// Scheduler decides when the condition scanner runs: once whenever the
// active system changes (including first load) and on manual trigger.
// There is no periodic background scanning; all other scans are scoped
// and driven by event reporters.
type Scheduler struct {
	store   notification.Store
	poams   poam.Repository
	systems system.Repository
	logger  *slog.Logger

	group singleflight.Group

	mu             sync.RWMutex
	activeSystemID string
	lastCheck      *time.Time
}

// NewScheduler creates a new scan scheduler
func NewScheduler(store notification.Store, poams poam.Repository, systems system.Repository, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:   store,
		poams:   poams,
		systems: systems,
		logger:  logger,
	}
}

// ActiveSystemID returns the currently active system id
func (s *Scheduler) ActiveSystemID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSystemID
}

// LastCheck returns when the last comprehensive check ran, or nil if
// none has run yet
func (s *Scheduler) LastCheck() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastCheck == nil {
		return nil
	}
	t := *s.lastCheck
	return &t
}

// SetActiveSystem switches the active system and, when the id actually
// changes, runs exactly one comprehensive check against it
func (s *Scheduler) SetActiveSystem(ctx context.Context, systemID string) error {
	if s.systems != nil {
		if _, err := s.systems.GetByID(ctx, systemID); err != nil {
			return err
		}
		if err := s.systems.TouchLastAccessed(ctx, systemID); err != nil {
			s.logger.Error("failed to touch system last_accessed", "system_id", systemID, "error", err)
		}
	}

	s.mu.Lock()
	changed := s.activeSystemID != systemID
	s.activeSystemID = systemID
	s.mu.Unlock()

	if changed {
		s.PerformComprehensiveCheck(ctx)
	}
	return nil
}

// PerformComprehensiveCheck runs both full scans against the active
// system's snapshot and records the invocation instant. Overlapping
// calls for the same system coalesce into the in-flight run. A failed
// snapshot fetch emits zero notifications and is not surfaced to the
// caller.
func (s *Scheduler) PerformComprehensiveCheck(ctx context.Context) CheckResult {
	systemID := s.ActiveSystemID()
	if systemID == "" {
		s.logger.Warn("comprehensive check skipped, no active system")
		return CheckResult{CheckedAt: time.Now()}
	}

	v, _, _ := s.group.Do(systemID, func() (interface{}, error) {
		return s.runCheck(ctx, systemID), nil
	})
	return v.(CheckResult)
}

func (s *Scheduler) runCheck(ctx context.Context, systemID string) CheckResult {
	now := time.Now()

	s.mu.Lock()
	s.lastCheck = &now
	s.mu.Unlock()

	result := CheckResult{SystemID: systemID, CheckedAt: now}

	poams, err := s.poams.ListBySystem(ctx, systemID)
	if err != nil {
		// A failed scan produces zero notifications, not an error
		// notification
		s.logger.Error("comprehensive check aborted, snapshot fetch failed", "system_id", systemID, "error", err)
		return result
	}

	requests := ScanPOAMs(poams, now)
	requests = append(requests, ScanMilestones(poam.FlattenAll(poams), now)...)

	for _, req := range requests {
		n, err := s.store.Add(ctx, req)
		if err != nil {
			s.logger.Error("failed to add notification", "type", req.Type, "error", err)
			continue
		}
		if n != nil {
			result.Emitted++
		}
	}

	s.logger.Info("comprehensive check completed",
		"system_id", systemID,
		"poams", len(poams),
		"emitted", result.Emitted,
		"duration", time.Since(now),
	)

	return result
}
