package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/eventra/backend/internal/models"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

// MemoryNotificationRepository is the in-process counterpart of the Mongo
// notification repository, with identical read-state semantics.
type MemoryNotificationRepository struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	watchers      map[int]*memoryNotificationWatcher
	nextWatcherID int
}

type memoryNotificationWatcher struct {
	userID string
	notify chan struct{}
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		notifications: make(map[string]*models.Notification),
		watchers:      make(map[int]*memoryNotificationWatcher),
	}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if len(notification.Channels) == 0 {
		return apperrors.ErrMissingChannels
	}

	r.mu.Lock()
	dup := *notification
	r.notifications[notification.ID] = &dup
	r.mu.Unlock()

	r.notifyWatchers(notification.RecipientID)
	return nil
}

func (r *MemoryNotificationRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(userID, unreadOnly, limit), nil
}

func (r *MemoryNotificationRepository) listLocked(userID string, unreadOnly bool, limit int64) []models.Notification {
	result := []models.Notification{}
	for _, n := range r.notifications {
		if n.RecipientID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result
}

func (r *MemoryNotificationRepository) WatchForUser(ctx context.Context, userID string, limit int64) (<-chan []models.Notification, <-chan error, error) {
	r.mu.Lock()
	id := r.nextWatcherID
	r.nextWatcherID++
	w := &memoryNotificationWatcher{
		userID: userID,
		notify: make(chan struct{}, 1),
	}
	r.watchers[id] = w
	r.mu.Unlock()

	snapshots := make(chan []models.Notification)
	errs := make(chan error, 1)
	go func() {
		defer close(snapshots)
		defer close(errs)
		defer func() {
			r.mu.Lock()
			delete(r.watchers, id)
			r.mu.Unlock()
		}()

		emit := func() bool {
			r.mu.Lock()
			items := r.listLocked(userID, false, limit)
			r.mu.Unlock()
			select {
			case snapshots <- items:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.notify:
				if !emit() {
					return
				}
			}
		}
	}()
	return snapshots, errs, nil
}

func (r *MemoryNotificationRepository) notifyWatchers(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.watchers {
		if w.userID != userID {
			continue
		}
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}

func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	r.mu.Lock()
	n, ok := r.notifications[notificationID]
	if !ok || n.RecipientID != userID {
		r.mu.Unlock()
		return apperrors.ErrNotificationNotFound
	}
	var recipient string
	changed := false
	if !n.IsRead {
		now := time.Now().UTC()
		n.IsRead = true
		n.ReadAt = &now
		recipient = n.RecipientID
		changed = true
	}
	r.mu.Unlock()

	if changed {
		r.notifyWatchers(recipient)
	}
	return nil
}

func (r *MemoryNotificationRepository) UpdateStatus(ctx context.Context, notificationIDs []string, status models.NotificationStatus) error {
	r.mu.Lock()
	recipients := map[string]struct{}{}
	for _, id := range notificationIDs {
		if n, ok := r.notifications[id]; ok {
			n.Status = status
			recipients[n.RecipientID] = struct{}{}
		}
	}
	r.mu.Unlock()

	for recipient := range recipients {
		r.notifyWatchers(recipient)
	}
	return nil
}

func (r *MemoryNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
