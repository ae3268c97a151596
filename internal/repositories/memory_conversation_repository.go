package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/eventra/backend/internal/models"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

// MemoryConversationRepository is an in-process ConversationRepository with
// the same invariants as the Mongo one: the message insert and the parent
// conversation update happen under one lock, unread counters are incremented
// store-side, and watchers receive full snapshots. Used by the test suite and
// for running the server without a database.
type MemoryConversationRepository struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	watchers      map[int]*memoryMessageWatcher
	nextWatcherID int
}

type memoryMessageWatcher struct {
	conversationID string
	notify         chan struct{}
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
		watchers:      make(map[int]*memoryMessageWatcher),
	}
}

func (r *MemoryConversationRepository) CreateConversation(ctx context.Context, client, admin models.Participant, priority models.Priority, orderRef *models.OrderRef) (*models.Conversation, error) {
	conv, err := models.NewConversation(client, admin, priority, orderRef)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.conversations {
		if existing.ClientID() == client.UserID {
			return copyConversation(existing), nil
		}
	}
	r.conversations[conv.ID] = conv
	return copyConversation(conv), nil
}

func (r *MemoryConversationRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	return copyConversation(conv), nil
}

func (r *MemoryConversationRepository) ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []models.Conversation{}
	for _, conv := range r.conversations {
		if conv.HasParticipant(userID) {
			result = append(result, *copyConversation(conv))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *MemoryConversationRepository) AppendMessage(ctx context.Context, conversationID string, sender models.Participant, text string, msgType models.MessageType) (*models.Message, error) {
	msg, err := models.NewMessage(conversationID, sender, text, msgType)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		r.mu.Unlock()
		return nil, apperrors.ErrConversationNotFound
	}

	r.messages[conversationID] = append(r.messages[conversationID], *msg)
	conv.LastMessage = &models.LastMessage{
		Text:      msg.Text,
		SenderID:  msg.SenderID,
		Timestamp: msg.CreatedAt,
		Type:      msg.Type,
	}
	conv.UpdatedAt = msg.CreatedAt
	for _, p := range conv.Participants {
		if p.UserID != sender.UserID {
			conv.UnreadCount[p.UserID]++
		}
	}
	r.mu.Unlock()

	r.notifyWatchers(conversationID)
	return msg, nil
}

func (r *MemoryConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visibleMessages(conversationID), nil
}

func (r *MemoryConversationRepository) visibleMessages(conversationID string) []models.Message {
	result := []models.Message{}
	for _, msg := range r.messages[conversationID] {
		if !msg.IsDeleted {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (r *MemoryConversationRepository) WatchMessages(ctx context.Context, conversationID string) (<-chan []models.Message, <-chan error, error) {
	r.mu.Lock()
	id := r.nextWatcherID
	r.nextWatcherID++
	w := &memoryMessageWatcher{
		conversationID: conversationID,
		notify:         make(chan struct{}, 1),
	}
	r.watchers[id] = w
	r.mu.Unlock()

	snapshots := make(chan []models.Message)
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
			msgs := r.visibleMessages(conversationID)
			r.mu.Unlock()
			select {
			case snapshots <- msgs:
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

func (r *MemoryConversationRepository) notifyWatchers(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.watchers {
		if w.conversationID != conversationID {
			continue
		}
		select {
		case w.notify <- struct{}{}:
		default: // a refresh is already pending
		}
	}
}

func (r *MemoryConversationRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	r.mu.Lock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		r.mu.Unlock()
		return apperrors.ErrConversationNotFound
	}
	conv.UnreadCount[userID] = 0
	r.mu.Unlock()

	r.notifyWatchers(conversationID)
	return nil
}

func (r *MemoryConversationRepository) SoftDeleteMessage(ctx context.Context, conversationID, messageID string) error {
	r.mu.Lock()
	msgs := r.messages[conversationID]
	found := false
	for i := range msgs {
		if msgs[i].ID == messageID {
			msgs[i].IsDeleted = true
			found = true
			break
		}
	}
	r.mu.Unlock()

	if !found {
		return apperrors.ErrMessageNotFound
	}
	r.notifyWatchers(conversationID)
	return nil
}

func (r *MemoryConversationRepository) UpdateMessageStatus(ctx context.Context, conversationID, messageID string, status models.MessageStatus) error {
	r.mu.Lock()
	msgs := r.messages[conversationID]
	found := false
	changed := false
	for i := range msgs {
		if msgs[i].ID == messageID {
			found = true
			if msgs[i].Status.Before(status) {
				msgs[i].Status = status
				changed = true
			}
			break
		}
	}
	r.mu.Unlock()

	if !found {
		return apperrors.ErrMessageNotFound
	}
	if changed {
		r.notifyWatchers(conversationID)
	}
	return nil
}

func copyConversation(conv *models.Conversation) *models.Conversation {
	dup := *conv
	dup.Participants = append([]models.Participant(nil), conv.Participants...)
	dup.UnreadCount = make(map[string]int, len(conv.UnreadCount))
	for k, v := range conv.UnreadCount {
		dup.UnreadCount[k] = v
	}
	if conv.LastMessage != nil {
		lm := *conv.LastMessage
		dup.LastMessage = &lm
	}
	return &dup
}

// RecordMessageTimestamp overrides a stored message's createdAt. Test helper
// for exercising ordering with distinct timestamps.
func (r *MemoryConversationRepository) RecordMessageTimestamp(conversationID, messageID string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			msgs[i].CreatedAt = at
			return
		}
	}
}
