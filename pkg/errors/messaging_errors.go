package errors

// Sentinel errors for the messaging and notification stores. Handlers and
// tests match against these with errors.Is.
var (
	ErrInvalidParticipants  = New(CodeInvalidArgument, "conversation requires exactly one client participant")
	ErrEmptyMessage         = New(CodeInvalidArgument, "message text must not be empty")
	ErrMissingChannels      = New(CodeInvalidArgument, "notification requires at least one delivery channel")
	ErrConversationNotFound = New(CodeNotFound, "conversation not found")
	ErrMessageNotFound      = New(CodeNotFound, "message not found")
	ErrNotificationNotFound = New(CodeNotFound, "notification not found")
)
