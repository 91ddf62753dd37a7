package notification

import (
	"context"
	"testing"

	"github.com/poamtrack/poamtrack-backend-go/internal/domain/notification"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/kvstore"
	"github.com/poamtrack/poamtrack-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (notification.Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	store, err := NewStore(context.Background(), kv, sse.NewHub(), nil)
	require.NoError(t, err)
	return store, kv
}

func boolPtr(b bool) *bool { return &b }

func TestStore_AddAssignsIdentityAndPrepends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	first, err := store.Add(ctx, notification.AddRequest{
		Type:     notification.TypeSystemStatus,
		Title:    "first",
		Message:  "first message",
		Severity: notification.SeverityInfo,
	})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())
	assert.False(t, first.IsRead)

	second, err := store.Add(ctx, notification.AddRequest{
		Type:    notification.TypeSystemStatus,
		Title:   "second",
		Message: "second message",
	})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	// Severity defaults to info when unset
	assert.Equal(t, notification.SeverityInfo, second.Severity)

	all := store.Notifications()
	require.Len(t, all, 2)
	// Newest first
	assert.Equal(t, "second", all[0].Title)
	assert.Equal(t, "first", all[1].Title)
}

func TestStore_AddRejectsUnknownType(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	_, err := store.Add(context.Background(), notification.AddRequest{Type: "bogus"})
	assert.ErrorIs(t, err, notification.ErrInvalidType)
}

func TestStore_PreferenceGateDropsDisabledType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.UpdatePreferences(ctx, notification.UpdatePreferencesRequest{
		DeadlineAlerts: boolPtr(false),
	})
	require.NoError(t, err)

	n, err := store.Add(ctx, notification.AddRequest{
		Type:    notification.TypeDeadlineAlert,
		Title:   "should be dropped",
		Message: "due in 3 days",
	})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Equal(t, 0, store.Stats().Total)

	// Other types still pass
	n, err = store.Add(ctx, notification.AddRequest{
		Type:  notification.TypeOverdueWarning,
		Title: "still stored",
	})
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 1, store.Stats().Total)
}

func TestStore_MarkAsReadIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	n, err := store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "x"})
	require.NoError(t, err)

	require.NoError(t, store.MarkAsRead(ctx, n.ID))
	require.NoError(t, store.MarkAsRead(ctx, n.ID))

	all := store.Notifications()
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)
	assert.Equal(t, 1, store.Stats().Total)
	assert.Equal(t, 0, store.UnreadCount())

	// Absent id is a no-op, not an error
	assert.NoError(t, store.MarkAsRead(ctx, "missing-id"))
}

func TestStore_MarkAllAsRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "n"})
		require.NoError(t, err)
	}

	require.NoError(t, store.MarkAllAsRead(ctx))
	assert.Equal(t, 0, store.UnreadCount())

	// Already-all-read collection: still no error
	require.NoError(t, store.MarkAllAsRead(ctx))
	assert.Equal(t, 0, store.UnreadCount())
	assert.Equal(t, 3, store.Stats().Total)
}

func TestStore_RemoveAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	a, err := store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "a"})
	require.NoError(t, err)
	_, err = store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "b"})
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, a.ID))
	assert.Equal(t, 1, store.Stats().Total)

	assert.ErrorIs(t, store.Remove(ctx, a.ID), notification.ErrNotificationNotFound)

	require.NoError(t, store.ClearAll(ctx))
	assert.Empty(t, store.Notifications())
	assert.Equal(t, 0, store.Stats().Total)
	assert.Equal(t, 0, store.UnreadCount())
}

func TestStore_StatsStayConsistent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	types := []notification.Type{
		notification.TypeDeadlineAlert,
		notification.TypeDeadlineAlert,
		notification.TypeOverdueWarning,
		notification.TypeSystemStatus,
	}
	var ids []string
	for _, typ := range types {
		n, err := store.Add(ctx, notification.AddRequest{Type: typ, Title: "n"})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	require.NoError(t, store.MarkAsRead(ctx, ids[0]))
	require.NoError(t, store.Remove(ctx, ids[2]))

	stats := store.Stats()
	assert.Equal(t, len(store.Notifications()), stats.Total)
	assert.Equal(t, store.UnreadCount(), stats.Unread)
	assert.Equal(t, 2, stats.ByType[notification.TypeDeadlineAlert])
	assert.Equal(t, 0, stats.ByType[notification.TypeOverdueWarning])
	assert.Equal(t, 1, stats.ByType[notification.TypeSystemStatus])
}

func TestStore_FilterViews(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	deadline, err := store.Add(ctx, notification.AddRequest{Type: notification.TypeDeadlineAlert, Title: "d"})
	require.NoError(t, err)
	_, err = store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "s"})
	require.NoError(t, err)

	assert.Equal(t, notification.FilterAll, store.Filter())
	assert.Len(t, store.FilteredNotifications(), 2)

	require.NoError(t, store.SetFilter(notification.Filter(notification.TypeDeadlineAlert)))
	filtered := store.FilteredNotifications()
	require.Len(t, filtered, 1)
	assert.Equal(t, deadline.ID, filtered[0].ID)

	require.NoError(t, store.MarkAsRead(ctx, deadline.ID))
	require.NoError(t, store.SetFilter(notification.FilterUnread))
	filtered = store.FilteredNotifications()
	require.Len(t, filtered, 1)
	assert.Equal(t, "s", filtered[0].Title)

	assert.ErrorIs(t, store.SetFilter("nope"), notification.ErrInvalidFilter)
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, kv := newTestStore(t)

	poamID := int64(42)
	added, err := store.Add(ctx, notification.AddRequest{
		Type:     notification.TypeOverdueWarning,
		Title:    "overdue",
		Message:  "5 days overdue",
		Severity: notification.SeverityError,
		Metadata: &notification.Metadata{POAMID: &poamID},
	})
	require.NoError(t, err)

	_, err = store.UpdatePreferences(ctx, notification.UpdatePreferencesRequest{
		SystemUpdates: boolPtr(false),
	})
	require.NoError(t, err)

	// A new store over the same kv reconstitutes the same state
	reloaded, err := NewStore(ctx, kv, sse.NewHub(), nil)
	require.NoError(t, err)

	all := reloaded.Notifications()
	require.Len(t, all, 1)
	assert.Equal(t, added.ID, all[0].ID)
	assert.Equal(t, notification.TypeOverdueWarning, all[0].Type)
	// Timestamps must round-trip to the same instant
	assert.True(t, added.Timestamp.Equal(all[0].Timestamp))
	require.NotNil(t, all[0].Metadata)
	require.NotNil(t, all[0].Metadata.POAMID)
	assert.Equal(t, int64(42), *all[0].Metadata.POAMID)

	prefs := reloaded.Preferences()
	assert.False(t, prefs.SystemUpdates)
	// Unset fields kept their defaults through the shallow merge
	assert.True(t, prefs.DeadlineAlerts)
	assert.True(t, prefs.DesktopNotifications)
}

func TestStore_DesktopPushReachesSubscribers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	hub := sse.NewHub()
	store, err := NewStore(ctx, kv, hub, nil)
	require.NoError(t, err)

	events, cleanup := hub.Subscribe()
	defer cleanup()

	n, err := store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "pushed"})
	require.NoError(t, err)
	require.NotNil(t, n)

	select {
	case ev := <-events:
		pushed, ok := ev.Data.(notification.Notification)
		require.True(t, ok)
		assert.Equal(t, n.ID, pushed.ID)
	default:
		t.Fatal("expected a pushed event")
	}
}

func TestStore_NoPushWhenChannelDisabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	hub := sse.NewHub()
	store, err := NewStore(ctx, kv, hub, nil)
	require.NoError(t, err)

	events, cleanup := hub.Subscribe()
	defer cleanup()

	_, err = store.UpdatePreferences(ctx, notification.UpdatePreferencesRequest{
		DesktopNotifications: boolPtr(false),
	})
	require.NoError(t, err)

	n, err := store.Add(ctx, notification.AddRequest{Type: notification.TypeSystemStatus, Title: "silent"})
	require.NoError(t, err)
	// The record is still stored, only the delivery channel is off
	require.NotNil(t, n)
	assert.Equal(t, 1, store.Stats().Total)

	select {
	case <-events:
		t.Fatal("expected no pushed event")
	default:
	}
}
