package models

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Participant is a member of a conversation. Exactly one client participant
// exists per conversation; one or more admins may join.
type Participant struct {
	UserID    string `json:"user_id" bson:"user_id"`
	Role      Role   `json:"role" bson:"role"`
	FullName  string `json:"full_name" bson:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
}

// LastMessage is the denormalized snapshot of the most recent message,
// kept on the conversation so inbox listings need no join.
type LastMessage struct {
	Text      string      `json:"text" bson:"text"`
	SenderID  string      `json:"sender_id" bson:"sender_id"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	Type      MessageType `json:"type" bson:"type"`
}

type ConversationMetadata struct {
	Priority Priority `json:"priority" bson:"priority"`
}

// Conversation represents an admin-to-client messaging thread (MongoDB).
// UnreadCount maps participant user id to that participant's unread total.
type Conversation struct {
	ID           string               `json:"id" bson:"_id"`
	Participants []Participant        `json:"participants" bson:"participants"`
	OrderID      string               `json:"order_id,omitempty" bson:"order_id,omitempty"`
	OrderNumber  string               `json:"order_number,omitempty" bson:"order_number,omitempty"`
	LastMessage  *LastMessage         `json:"last_message,omitempty" bson:"last_message,omitempty"`
	UnreadCount  map[string]int       `json:"unread_count" bson:"unread_count"`
	Metadata     ConversationMetadata `json:"metadata" bson:"metadata"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// OrderRef links a conversation to a business order; both fields travel together.
type OrderRef struct {
	OrderID     string `json:"order_id" validate:"required"`
	OrderNumber string `json:"order_number" validate:"required"`
}

// NewConversation builds a conversation for one client and one admin.
func NewConversation(client, admin Participant, priority Priority, orderRef *OrderRef) (*Conversation, error) {
	if client.UserID == "" || client.Role != RoleClient {
		return nil, apperrors.ErrInvalidParticipants
	}
	if admin.UserID == "" || admin.Role != RoleAdmin {
		return nil, apperrors.ErrInvalidParticipants
	}
	if priority == "" {
		priority = PriorityNormal
	}

	now := time.Now().UTC()
	conv := &Conversation{
		ID:           uuid.NewString(),
		Participants: []Participant{client, admin},
		UnreadCount: map[string]int{
			client.UserID: 0,
			admin.UserID:  0,
		},
		Metadata:  ConversationMetadata{Priority: priority},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if orderRef != nil {
		conv.OrderID = orderRef.OrderID
		conv.OrderNumber = orderRef.OrderNumber
	}
	return conv, nil
}

// ClientID returns the user id of the client participant
func (c *Conversation) ClientID() string {
	for _, p := range c.Participants {
		if p.Role == RoleClient {
			return p.UserID
		}
	}
	return ""
}

// HasParticipant reports whether userID belongs to the conversation
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
