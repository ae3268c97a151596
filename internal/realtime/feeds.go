package realtime

import (
	"context"
	"sync"

	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/repositories"
)

// MessageFeed keeps a live, ordered view of one conversation's visible
// messages. Changing the driving conversation id tears down the old
// subscription before establishing the new one; clearing it goes back to Idle.
type MessageFeed struct {
	mu             sync.Mutex
	repo           repositories.ConversationRepository
	projection     *Projection[[]models.Message]
	conversationID string
}

func NewMessageFeed(repo repositories.ConversationRepository) *MessageFeed {
	return &MessageFeed{
		repo:       repo,
		projection: NewProjection[[]models.Message](),
	}
}

// SetConversation switches the feed to a conversation. An empty id stops the
// feed.
func (f *MessageFeed) SetConversation(conversationID string) error {
	f.mu.Lock()
	if f.conversationID == conversationID {
		f.mu.Unlock()
		return nil
	}
	f.conversationID = conversationID
	f.mu.Unlock()

	if conversationID == "" {
		f.projection.Stop()
		return nil
	}
	return f.projection.Start(func(ctx context.Context) (<-chan []models.Message, <-chan error, error) {
		return f.repo.WatchMessages(ctx, conversationID)
	})
}

func (f *MessageFeed) Close() {
	f.mu.Lock()
	f.conversationID = ""
	f.mu.Unlock()
	f.projection.Stop()
}

func (f *MessageFeed) State() State               { return f.projection.State() }
func (f *MessageFeed) Err() error                 { return f.projection.Err() }
func (f *MessageFeed) Messages() []models.Message { return f.projection.Snapshot() }

// NotificationFeed keeps a live view of one user's notifications, newest
// first, with the unread count re-derived from every snapshot.
type NotificationFeed struct {
	mu         sync.Mutex
	repo       repositories.NotificationRepository
	projection *Projection[[]models.Notification]
	userID     string
	limit      int64
}

func NewNotificationFeed(repo repositories.NotificationRepository, limit int64) *NotificationFeed {
	return &NotificationFeed{
		repo:       repo,
		projection: NewProjection[[]models.Notification](),
		limit:      limit,
	}
}

// SetUser switches the feed to a user. An empty id stops the feed.
func (f *NotificationFeed) SetUser(userID string) error {
	f.mu.Lock()
	if f.userID == userID {
		f.mu.Unlock()
		return nil
	}
	f.userID = userID
	limit := f.limit
	f.mu.Unlock()

	if userID == "" {
		f.projection.Stop()
		return nil
	}
	return f.projection.Start(func(ctx context.Context) (<-chan []models.Notification, <-chan error, error) {
		return f.repo.WatchForUser(ctx, userID, limit)
	})
}

func (f *NotificationFeed) Close() {
	f.mu.Lock()
	f.userID = ""
	f.mu.Unlock()
	f.projection.Stop()
}

func (f *NotificationFeed) State() State { return f.projection.State() }
func (f *NotificationFeed) Err() error   { return f.projection.Err() }

func (f *NotificationFeed) Notifications() []models.Notification {
	return f.projection.Snapshot()
}

// UnreadCount is derived from the current snapshot, never cached across
// snapshots.
func (f *NotificationFeed) UnreadCount() int {
	count := 0
	for _, n := range f.projection.Snapshot() {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// OnChange registers a callback fired on every projection change. Must be set
// before the first SetUser.
func (f *NotificationFeed) OnChange(fn func()) { f.projection.OnChange(fn) }
