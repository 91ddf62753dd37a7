package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/kvstore"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/sse"
)

// Fixed keys in the key-value store. One holds the serialized
// notification collection, the other the preferences object.
const (
	notificationsKey = "poamtrack:notifications"
	preferencesKey   = "poamtrack:notification_preferences"
)

type store struct {
	kv     kvstore.Store
	hub    *sse.Hub
	logger *slog.Logger

	mu            sync.RWMutex
	notifications []notification.Notification
	prefs         notification.Preferences
	filter        notification.Filter
}

// NewStore loads the notification collection and preferences from the
// key-value store and returns the process-wide store instance. The
// instance is the single owner of both snapshots: every mutation
// rewrites them in full.
func NewStore(ctx context.Context, kv kvstore.Store, hub *sse.Hub, logger *slog.Logger) (notification.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &store{
		kv:     kv,
		hub:    hub,
		logger: logger,
		prefs:  notification.DefaultPreferences(),
		filter: notification.FilterAll,
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *store) load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, notificationsKey)
	switch {
	case errors.Is(err, kvstore.ErrKeyNotFound):
		// First run, nothing persisted yet
	case err != nil:
		return fmt.Errorf("load notifications: %w", err)
	default:
		var loaded []notification.Notification
		if err := json.Unmarshal(raw, &loaded); err != nil {
			s.logger.Error("stored notifications are unreadable, starting empty", "error", err)
		} else {
			s.notifications = loaded
		}
	}

	raw, err = s.kv.Get(ctx, preferencesKey)
	switch {
	case errors.Is(err, kvstore.ErrKeyNotFound):
	case err != nil:
		return fmt.Errorf("load preferences: %w", err)
	default:
		var prefs notification.Preferences
		if err := json.Unmarshal(raw, &prefs); err != nil {
			s.logger.Error("stored preferences are unreadable, using defaults", "error", err)
		} else {
			s.prefs = prefs
		}
	}

	return nil
}

// persistNotifications writes the full collection snapshot. Failures are
// logged only: the in-memory state stays authoritative for the session.
func (s *store) persistNotifications(ctx context.Context) {
	raw, err := json.Marshal(s.notifications)
	if err != nil {
		s.logger.Error("failed to serialize notifications", "error", err)
		return
	}
	if err := s.kv.Set(ctx, notificationsKey, raw); err != nil {
		s.logger.Error("failed to persist notifications", "error", err)
	}
}

func (s *store) persistPreferences(ctx context.Context) {
	raw, err := json.Marshal(s.prefs)
	if err != nil {
		s.logger.Error("failed to serialize preferences", "error", err)
		return
	}
	if err := s.kv.Set(ctx, preferencesKey, raw); err != nil {
		s.logger.Error("failed to persist preferences", "error", err)
	}
}

// Add stores a new notification unless its type is gated off. The
// desktop push is dispatched after the record is committed; its failure
// or absence never affects the stored record.
func (s *store) Add(ctx context.Context, req notification.AddRequest) (*notification.Notification, error) {
	if !req.Type.Valid() {
		return nil, notification.ErrInvalidType
	}

	s.mu.Lock()

	if !s.prefs.Allows(req.Type) {
		s.mu.Unlock()
		return nil, nil
	}

	n := notification.Notification{
		ID:        uuid.New().String(),
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Timestamp: time.Now(),
		IsRead:    false,
		Severity:  req.Severity,
		ActionURL: req.ActionURL,
		Metadata:  req.Metadata,
	}
	if n.Severity == "" {
		n.Severity = notification.SeverityInfo
	}

	// Newest first: insertion order is prepend
	s.notifications = append([]notification.Notification{n}, s.notifications...)
	s.persistNotifications(ctx)
	deliver := s.prefs.DesktopNotifications
	s.mu.Unlock()

	if deliver && s.hub != nil && s.hub.SubscriberCount() > 0 {
		s.hub.Publish(sse.Event{Event: "notification", Data: n})
	}

	return &n, nil
}

// MarkAsRead flips the read flag; a no-op when the id is absent or the
// record is already read
func (s *store) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			if !s.notifications[i].IsRead {
				s.notifications[i].IsRead = true
				s.persistNotifications(ctx)
			}
			return nil
		}
	}
	return nil
}

func (s *store) MarkAllAsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.notifications {
		if !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			changed = true
		}
	}
	if changed {
		s.persistNotifications(ctx)
	}
	return nil
}

func (s *store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			s.persistNotifications(ctx)
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (s *store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = s.notifications[:0]
	s.persistNotifications(ctx)
	return nil
}

// SetFilter is view state only, never persisted
func (s *store) SetFilter(f notification.Filter) error {
	if !f.Valid() {
		return notification.ErrInvalidFilter
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	return nil
}

func (s *store) UpdatePreferences(ctx context.Context, req notification.UpdatePreferencesRequest) (notification.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.MergeInto(&s.prefs)
	s.persistPreferences(ctx)
	return s.prefs, nil
}

func (s *store) Notifications() []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notification.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

func (s *store) FilteredNotifications() []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notification.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if s.filter.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s *store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

func (s *store) Preferences() notification.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

func (s *store) Filter() notification.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *store) Stats() notification.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := notification.Stats{
		Total:  len(s.notifications),
		ByType: make(map[notification.Type]int),
	}
	for _, n := range s.notifications {
		if !n.IsRead {
			stats.Unread++
		}
		stats.ByType[n.Type]++
	}
	return stats
}
