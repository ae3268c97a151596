package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/eventra/backend/internal/models"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

// ConversationRepository owns conversations and their messages, including the
// denormalized lastMessage/unreadCount bookkeeping. AppendMessage performs the
// message insert and the parent conversation update atomically, so no reader
// ever observes one without the other.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, client, admin models.Participant, priority models.Priority, orderRef *models.OrderRef) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	AppendMessage(ctx context.Context, conversationID string, sender models.Participant, text string, msgType models.MessageType) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	// WatchMessages emits a full snapshot of the visible message list on
	// subscription and again after every change. Cancel ctx to unsubscribe;
	// both channels close on teardown.
	WatchMessages(ctx context.Context, conversationID string) (<-chan []models.Message, <-chan error, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
	SoftDeleteMessage(ctx context.Context, conversationID, messageID string) error
	UpdateMessageStatus(ctx context.Context, conversationID, messageID string, status models.MessageStatus) error
}

type mongoConversationRepository struct {
	client        *mongo.Client
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &mongoConversationRepository{
		client:        db.Client(),
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// CreateConversation validates participants and dedupes by client id: an
// existing conversation for the same client is returned instead of a
// duplicate.
func (r *mongoConversationRepository) CreateConversation(ctx context.Context, client, admin models.Participant, priority models.Priority, orderRef *models.OrderRef) (*models.Conversation, error) {
	conv, err := models.NewConversation(client, admin, priority, orderRef)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"participants": bson.M{"$elemMatch": bson.M{
		"user_id": client.UserID,
		"role":    models.RoleClient,
	}}}
	var existing models.Conversation
	err = r.conversations.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	if _, err := r.conversations.InsertOne(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *mongoConversationRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *mongoConversationRepository) ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	filter := bson.M{"participants.user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// AppendMessage inserts the message and updates the parent conversation
// (lastMessage overwrite plus store-side $inc of every non-sender unread
// counter) inside one session transaction.
func (r *mongoConversationRepository) AppendMessage(ctx context.Context, conversationID string, sender models.Participant, text string, msgType models.MessageType) (*models.Message, error) {
	msg, err := models.NewMessage(conversationID, sender, text, msgType)
	if err != nil {
		return nil, err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var conv models.Conversation
		if err := r.conversations.FindOne(sc, bson.M{"_id": conversationID}).Decode(&conv); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, apperrors.ErrConversationNotFound
			}
			return nil, err
		}

		if _, err := r.messages.InsertOne(sc, msg); err != nil {
			return nil, err
		}

		update := bson.M{"$set": bson.M{
			"last_message": models.LastMessage{
				Text:      msg.Text,
				SenderID:  msg.SenderID,
				Timestamp: msg.CreatedAt,
				Type:      msg.Type,
			},
			"updated_at": msg.CreatedAt,
		}}
		inc := bson.M{}
		for _, p := range conv.Participants {
			if p.UserID != sender.UserID {
				inc["unread_count."+p.UserID] = 1
			}
		}
		if len(inc) > 0 {
			update["$inc"] = inc
		}

		if _, err := r.conversations.UpdateOne(sc, bson.M{"_id": conversationID}, update); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the visible messages ascending by createdAt. Deleted
// messages stay in storage and are filtered out here.
func (r *mongoConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	filter := bson.M{
		"conversation_id": conversationID,
		"is_deleted":      false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *mongoConversationRepository) WatchMessages(ctx context.Context, conversationID string) (<-chan []models.Message, <-chan error, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.D{
		{Key: "fullDocument.conversation_id", Value: conversationID},
	}}}}
	stream, err := r.messages.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, nil, err
	}

	snapshots := make(chan []models.Message)
	errs := make(chan error, 1)
	go func() {
		defer close(snapshots)
		defer close(errs)
		defer stream.Close(context.Background())

		emit := func() bool {
			msgs, err := r.ListMessages(ctx, conversationID)
			if err != nil {
				if ctx.Err() == nil {
					errs <- err
				}
				return false
			}
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
		for stream.Next(ctx) {
			if !emit() {
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			errs <- err
		}
	}()
	return snapshots, errs, nil
}

// MarkRead resets the caller's unread counter to zero. Idempotent.
func (r *mongoConversationRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	result, err := r.conversations.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{"unread_count." + userID: 0}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrConversationNotFound
	}
	return nil
}

func (r *mongoConversationRepository) SoftDeleteMessage(ctx context.Context, conversationID, messageID string) error {
	result, err := r.messages.UpdateOne(ctx,
		bson.M{"_id": messageID, "conversation_id": conversationID},
		bson.M{"$set": bson.M{"is_deleted": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// UpdateMessageStatus advances a message along sent->delivered->read. A
// request that would regress the status matches nothing and is a no-op.
func (r *mongoConversationRepository) UpdateMessageStatus(ctx context.Context, conversationID, messageID string, status models.MessageStatus) error {
	predecessors := []models.MessageStatus{}
	for _, s := range []models.MessageStatus{models.MessageStatusSent, models.MessageStatusDelivered} {
		if s.Before(status) {
			predecessors = append(predecessors, s)
		}
	}
	if len(predecessors) == 0 {
		// Nothing precedes "sent"; there is no forward transition to make.
		return r.ensureMessageExists(ctx, conversationID, messageID)
	}

	result, err := r.messages.UpdateOne(ctx,
		bson.M{
			"_id":             messageID,
			"conversation_id": conversationID,
			"status":          bson.M{"$in": predecessors},
		},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return r.ensureMessageExists(ctx, conversationID, messageID)
	}
	return nil
}

func (r *mongoConversationRepository) ensureMessageExists(ctx context.Context, conversationID, messageID string) error {
	count, err := r.messages.CountDocuments(ctx, bson.M{"_id": messageID, "conversation_id": conversationID})
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
