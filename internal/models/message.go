package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeSystem MessageType = "system"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
)

type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

var messageStatusRank = map[MessageStatus]int{
	MessageStatusSent:      0,
	MessageStatusDelivered: 1,
	MessageStatusRead:      2,
}

// Before reports whether s precedes other in the sent->delivered->read
// progression. Status never regresses; writers must check this.
func (s MessageStatus) Before(other MessageStatus) bool {
	return messageStatusRank[s] < messageStatusRank[other]
}

// Message is a single conversation entry (MongoDB). Messages are only ever
// soft-deleted: IsDeleted rows stay in storage and are filtered at read time.
type Message struct {
	ID              string        `json:"id" bson:"_id"`
	ConversationID  string        `json:"conversation_id" bson:"conversation_id"`
	SenderID        string        `json:"sender_id" bson:"sender_id"`
	SenderName      string        `json:"sender_name" bson:"sender_name"`
	SenderRole      Role          `json:"sender_role" bson:"sender_role"`
	SenderAvatar    string        `json:"sender_avatar,omitempty" bson:"sender_avatar,omitempty"`
	Text            string        `json:"text" bson:"text"`
	Type            MessageType   `json:"type" bson:"type"`
	Status          MessageStatus `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	IsDeleted       bool          `json:"is_deleted" bson:"is_deleted"`
	IsSystemMessage bool          `json:"is_system_message" bson:"is_system_message"`
}

// NewMessage validates and stamps a message for appending. CreatedAt is
// assigned here (server clock) and is the sole ordering key.
func NewMessage(conversationID string, sender Participant, text string, msgType MessageType) (*Message, error) {
	if msgType == "" {
		msgType = MessageTypeText
	}
	if msgType == MessageTypeText && strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	return &Message{
		ID:              uuid.NewString(),
		ConversationID:  conversationID,
		SenderID:        sender.UserID,
		SenderName:      sender.FullName,
		SenderRole:      sender.Role,
		SenderAvatar:    sender.AvatarURL,
		Text:            text,
		Type:            msgType,
		Status:          MessageStatusSent,
		CreatedAt:       time.Now().UTC(),
		IsSystemMessage: msgType == MessageTypeSystem,
	}, nil
}
