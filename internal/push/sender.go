package push

import (
	"context"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"

	"github.com/anonto42/eventra/backend/internal/models"
)

// Result aggregates one multicast call. InvalidTokens holds tokens the
// service reported as permanently dead; callers should stop sending to them.
type Result struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// Sender delivers one notification to a batch of device tokens. The batch
// must respect the service's per-call limit; batching is the caller's job.
type Sender interface {
	SendMulticast(ctx context.Context, tokens []string, notification *models.Notification) (*Result, error)
}

type fcmSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) Sender {
	return &fcmSender{client: client}
}

func (s *fcmSender) SendMulticast(ctx context.Context, tokens []string, notification *models.Notification) (*Result, error) {
	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    notification.Title,
			Body:     notification.Body,
			ImageURL: notification.ImageURL,
		},
		Data: pushData(notification),
		Android: &messaging.AndroidConfig{
			Priority: androidPriority(notification.Priority),
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": apnsPriority(notification.Priority)},
		},
	}

	br, err := s.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SuccessCount: br.SuccessCount,
		FailureCount: br.FailureCount,
	}
	for i, resp := range br.Responses {
		if resp.Success || resp.Error == nil {
			continue
		}
		if isTerminalTokenError(resp.Error) {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}
	return result, nil
}

// isTerminalTokenError reports whether the failure means the token will never
// work again (unregistered device or malformed registration token).
func isTerminalTokenError(err error) bool {
	return messaging.IsUnregistered(err) || errorutils.IsInvalidArgument(err)
}

func pushData(n *models.Notification) map[string]string {
	data := map[string]string{"type": n.Type}
	if n.Reference != nil {
		data["reference_id"] = n.Reference.ID
		data["reference_kind"] = n.Reference.Kind
	}
	return data
}

func androidPriority(p models.Priority) string {
	if p == models.PriorityHigh || p == models.PriorityUrgent {
		return "high"
	}
	return "normal"
}

func apnsPriority(p models.Priority) string {
	if p == models.PriorityHigh || p == models.PriorityUrgent {
		return "10"
	}
	return "5"
}
