package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/eventra/backend/internal/models"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

func newTestNotification(t *testing.T, recipientID, title string, at time.Time) *models.Notification {
	t.Helper()
	n, err := models.NewNotification(recipientID, title, "body", models.NotificationTypeAnnouncement, nil, []models.Channel{models.ChannelInApp}, models.PriorityNormal)
	require.NoError(t, err)
	n.CreatedAt = at
	return n
}

func TestCreateNotificationRequiresChannels(t *testing.T) {
	repo := NewMemoryNotificationRepository()

	_, err := models.NewNotification("u-1", "title", "body", models.NotificationTypeAnnouncement, nil, nil, models.PriorityNormal)
	assert.ErrorIs(t, err, apperrors.ErrMissingChannels)

	err = repo.Create(context.Background(), &models.Notification{ID: "n-1", RecipientID: "u-1"})
	assert.ErrorIs(t, err, apperrors.ErrMissingChannels)
}

func TestListForUserNewestFirstWithLimit(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	oldest := newTestNotification(t, "u-1", "oldest", base)
	middle := newTestNotification(t, "u-1", "middle", base.Add(time.Minute))
	newest := newTestNotification(t, "u-1", "newest", base.Add(2*time.Minute))
	other := newTestNotification(t, "u-2", "other user", base.Add(3*time.Minute))
	for _, n := range []*models.Notification{oldest, newest, middle, other} {
		require.NoError(t, repo.Create(ctx, n))
	}

	got, err := repo.ListForUser(ctx, "u-1", false, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "newest", got[0].Title)
	assert.Equal(t, "middle", got[1].Title)
	assert.Equal(t, "oldest", got[2].Title)

	got, err = repo.ListForUser(ctx, "u-1", false, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newest", got[0].Title)

	require.NoError(t, repo.MarkRead(ctx, middle.ID, "u-1"))
	got, err = repo.ListForUser(ctx, "u-1", true, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newest", got[0].Title)
	assert.Equal(t, "oldest", got[1].Title)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()

	n := newTestNotification(t, "u-1", "hello", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, n))

	require.NoError(t, repo.MarkRead(ctx, n.ID, "u-1"))
	got, err := repo.ListForUser(ctx, "u-1", false, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].IsRead)
	require.NotNil(t, got[0].ReadAt)
	firstReadAt := *got[0].ReadAt

	// Marking again keeps the original read timestamp
	require.NoError(t, repo.MarkRead(ctx, n.ID, "u-1"))
	got, err = repo.ListForUser(ctx, "u-1", false, 0)
	require.NoError(t, err)
	require.Equal(t, firstReadAt, *got[0].ReadAt)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing", "u-1"), apperrors.ErrNotificationNotFound)
}

func TestMarkReadOnlyByRecipient(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()

	n := newTestNotification(t, "u-1", "private", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, n))

	// Another user cannot flip someone else's read state
	assert.ErrorIs(t, repo.MarkRead(ctx, n.ID, "u-2"), apperrors.ErrNotificationNotFound)

	got, err := repo.ListForUser(ctx, "u-1", false, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsRead)

	require.NoError(t, repo.MarkRead(ctx, n.ID, "u-1"))
	got, err = repo.ListForUser(ctx, "u-1", false, 0)
	require.NoError(t, err)
	assert.True(t, got[0].IsRead)
}

func TestCountUnread(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	a := newTestNotification(t, "u-1", "a", now)
	b := newTestNotification(t, "u-1", "b", now.Add(time.Second))
	c := newTestNotification(t, "u-2", "c", now)
	for _, n := range []*models.Notification{a, b, c} {
		require.NoError(t, repo.Create(ctx, n))
	}

	count, err := repo.CountUnread(ctx, "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, repo.MarkRead(ctx, a.ID, "u-1"))
	count, err = repo.CountUnread(ctx, "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountUnread(ctx, "u-3")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUpdateStatusMarksSent(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()

	a := newTestNotification(t, "u-1", "a", time.Now().UTC())
	b := newTestNotification(t, "u-1", "b", time.Now().UTC().Add(time.Second))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.UpdateStatus(ctx, []string{a.ID, b.ID, "missing"}, models.NotificationStatusSent))

	got, err := repo.ListForUser(ctx, "u-1", false, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, n := range got {
		assert.Equal(t, models.NotificationStatusSent, n.Status)
	}
}

func TestWatchForUserEmitsFullSnapshots(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, _, err := repo.WatchForUser(ctx, "u-1", 0)
	require.NoError(t, err)

	initial := recvNotifications(t, snapshots)
	assert.Empty(t, initial)

	n := newTestNotification(t, "u-1", "incoming", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, n))
	snap := recvNotifications(t, snapshots)
	require.Len(t, snap, 1)
	assert.False(t, snap[0].IsRead)

	// A read-state change re-emits the whole list, not a delta
	require.NoError(t, repo.MarkRead(ctx, n.ID, "u-1"))
	snap = recvNotifications(t, snapshots)
	require.Len(t, snap, 1)
	assert.True(t, snap[0].IsRead)

	// Another user's notification never wakes this watcher
	other := newTestNotification(t, "u-2", "elsewhere", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, other))
	select {
	case snap, ok := <-snapshots:
		if ok {
			require.Len(t, snap, 1, "snapshot must still contain only u-1 items")
		}
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	for range snapshots {
	}
}

func recvNotifications(t *testing.T, ch <-chan []models.Notification) []models.Notification {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "snapshot channel closed early")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
