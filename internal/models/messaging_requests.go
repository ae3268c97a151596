package models

// CreateConversationRequest starts a conversation between the calling admin
// and a client.
type CreateConversationRequest struct {
	ClientID uint      `json:"client_id" validate:"required"`
	Priority Priority  `json:"priority,omitempty" validate:"omitempty,oneof=normal high urgent"`
	OrderRef *OrderRef `json:"order_ref,omitempty"`
}

type SendMessageRequest struct {
	Text string      `json:"text"`
	Type MessageType `json:"type,omitempty" validate:"omitempty,oneof=text system image file"`
}

type UpdateMessageStatusRequest struct {
	Status MessageStatus `json:"status" validate:"required,oneof=sent delivered read"`
}

type AnnouncementRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=150"`
	Body     string   `json:"body" validate:"required,min=1,max=2000"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Priority Priority `json:"priority,omitempty" validate:"omitempty,oneof=normal high urgent"`
}
