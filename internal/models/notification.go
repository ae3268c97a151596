package models

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusFailed    NotificationStatus = "failed"
)

// Notification type tags. The tag only drives client-side routing and icon
// selection; delivery semantics are identical for all of them.
const (
	NotificationTypeNewStaff     = "new_staff"
	NotificationTypeNewService   = "new_service"
	NotificationTypeNewOffer     = "new_offer"
	NotificationTypeOrderStatus  = "order_status"
	NotificationTypeAnnouncement = "announcement"
	NotificationTypeNewMessage   = "new_message"
)

// Reference points a notification at the entity it is about
type Reference struct {
	ID   string `json:"id" bson:"id"`
	Kind string `json:"kind" bson:"kind"`
}

// Notification is a single-recipient alert record (MongoDB). Broadcasts are
// fanned out into one of these per recipient before persistence, so stored
// records always have exactly one addressing mode.
type Notification struct {
	ID          string             `json:"id" bson:"_id"`
	RecipientID string             `json:"recipient_id" bson:"recipient_id"`
	Title       string             `json:"title" bson:"title"`
	Body        string             `json:"body" bson:"body"`
	ImageURL    string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Type        string             `json:"type" bson:"type"`
	Priority    Priority           `json:"priority" bson:"priority"`
	Channels    []Channel          `json:"channels" bson:"channels"`
	Status      NotificationStatus `json:"status" bson:"status"`
	Reference   *Reference         `json:"reference,omitempty" bson:"reference,omitempty"`
	IsRead      bool               `json:"is_read" bson:"is_read"`
	ReadAt      *time.Time         `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// NewNotification validates and stamps a per-recipient notification record.
func NewNotification(recipientID, title, body, notifType string, ref *Reference, channels []Channel, priority Priority) (*Notification, error) {
	if len(channels) == 0 {
		return nil, apperrors.ErrMissingChannels
	}
	if priority == "" {
		priority = PriorityNormal
	}

	return &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Title:       title,
		Body:        body,
		Type:        notifType,
		Priority:    priority,
		Channels:    channels,
		Status:      NotificationStatusPending,
		Reference:   ref,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// HasChannel reports whether ch is among the notification's channels
func (n *Notification) HasChannel(ch Channel) bool {
	for _, c := range n.Channels {
		if c == ch {
			return true
		}
	}
	return false
}
