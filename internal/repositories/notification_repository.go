package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/eventra/backend/internal/models"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

// NotificationRepository owns per-recipient notification records and their
// read state. Records are written by the broadcast dispatcher and mutated
// only by the owning recipient (read state) or the dispatcher (status).
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error)
	// WatchForUser has the same snapshot/teardown contract as
	// ConversationRepository.WatchMessages.
	WatchForUser(ctx context.Context, userID string, limit int64) (<-chan []models.Notification, <-chan error, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	UpdateStatus(ctx context.Context, notificationIDs []string, status models.NotificationStatus) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type mongoNotificationRepository struct {
	notifications *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{notifications: db.Collection("notifications")}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if len(notification.Channels) == 0 {
		return apperrors.ErrMissingChannels
	}
	_, err := r.notifications.InsertOne(ctx, notification)
	return err
}

func (r *mongoNotificationRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int64) ([]models.Notification, error) {
	filter := bson.M{"recipient_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *mongoNotificationRepository) WatchForUser(ctx context.Context, userID string, limit int64) (<-chan []models.Notification, <-chan error, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.D{
		{Key: "fullDocument.recipient_id", Value: userID},
	}}}}
	stream, err := r.notifications.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, nil, err
	}

	snapshots := make(chan []models.Notification)
	errs := make(chan error, 1)
	go func() {
		defer close(snapshots)
		defer close(errs)
		defer stream.Close(context.Background())

		emit := func() bool {
			items, err := r.ListForUser(ctx, userID, false, limit)
			if err != nil {
				if ctx.Err() == nil {
					errs <- err
				}
				return false
			}
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

// MarkRead flips is_read and stamps read_at the first time only. Calling it
// on an already-read notification is a no-op; read_at never moves. Only the
// owning recipient can flip the flag; anyone else gets not-found.
func (r *mongoNotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	now := time.Now().UTC()
	result, err := r.notifications.UpdateOne(ctx,
		bson.M{"_id": notificationID, "recipient_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		count, err := r.notifications.CountDocuments(ctx, bson.M{"_id": notificationID, "recipient_id": userID})
		if err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrNotificationNotFound
		}
	}
	return nil
}

func (r *mongoNotificationRepository) UpdateStatus(ctx context.Context, notificationIDs []string, status models.NotificationStatus) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	_, err := r.notifications.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": notificationIDs}},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}

func (r *mongoNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.notifications.CountDocuments(ctx, bson.M{"recipient_id": userID, "is_read": false})
}
