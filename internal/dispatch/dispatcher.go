package dispatch

import (
	"context"
	"log"
	"time"

	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/push"
)

// UserDirectory is the slice of the user repository the dispatcher needs to
// resolve audiences and clean up dead push tokens.
type UserDirectory interface {
	GetUsers() ([]models.User, error)
	GetUsersByRole(role string) ([]models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	ClearPushTokenByValue(token string) error
}

// NotificationWriter is the slice of the notification repository the
// dispatcher writes through.
type NotificationWriter interface {
	Create(ctx context.Context, notification *models.Notification) error
	UpdateStatus(ctx context.Context, notificationIDs []string, status models.NotificationStatus) error
}

type audienceKind int

const (
	audienceAll audienceKind = iota
	audienceRole
	audienceUsers
)

// Audience is the addressing mode of a broadcast, resolved into concrete
// users exactly once before any record is persisted.
type Audience struct {
	kind    audienceKind
	role    string
	userIDs []uint
}

func AllUsers() Audience                { return Audience{kind: audienceAll} }
func RoleAudience(role string) Audience { return Audience{kind: audienceRole, role: role} }
func Recipients(ids ...uint) Audience   { return Audience{kind: audienceUsers, userIDs: ids} }
func Single(id uint) Audience           { return Recipients(id) }

// Event is one logical notification to fan out.
type Event struct {
	Title    string
	Body     string
	ImageURL string
	Type     string
	Priority models.Priority
	Channels []models.Channel
	Ref      *models.Reference
	Audience Audience
}

// Result aggregates a dispatch. Per-recipient outcomes are logged, never
// propagated; callers only see counts.
type Result struct {
	Sent          int `json:"sent"`
	Failed        int `json:"failed"`
	InvalidTokens int `json:"invalid_tokens"`
}

// Dispatcher fans one Event out to N recipients: push batches through the
// delivery service plus one in-app notification record per recipient. The
// two channels are independent; push failures never suppress in-app records.
type Dispatcher struct {
	users         UserDirectory
	notifications NotificationWriter
	sender        push.Sender
	batchSize     int
}

func New(users UserDirectory, notifications NotificationWriter, sender push.Sender, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Dispatcher{
		users:         users,
		notifications: notifications,
		sender:        sender,
		batchSize:     batchSize,
	}
}

// Dispatch runs all batches to completion; there is no cancellation once the
// fan-out has started.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (*Result, error) {
	recipients, err := d.resolve(ev.Audience)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return &Result{}, nil
	}

	// Build every per-recipient record up front so channel validation fails
	// before any side effect.
	records := make([]*models.Notification, 0, len(recipients))
	for i := range recipients {
		n, err := models.NewNotification(recipients[i].RecipientID(), ev.Title, ev.Body, ev.Type, ev.Ref, ev.Channels, ev.Priority)
		if err != nil {
			return nil, err
		}
		n.ImageURL = ev.ImageURL
		records = append(records, n)
	}

	result := &Result{}
	if records[0].HasChannel(models.ChannelPush) {
		d.sendPushBatches(ctx, recipients, records[0], result)
	}

	if records[0].HasChannel(models.ChannelInApp) {
		createdIDs := make([]string, 0, len(records))
		for _, n := range records {
			if err := d.notifications.Create(ctx, n); err != nil {
				log.Printf("dispatch: failed to write notification for %s: %v", n.RecipientID, err)
				continue
			}
			createdIDs = append(createdIDs, n.ID)
		}
		if err := d.notifications.UpdateStatus(ctx, createdIDs, models.NotificationStatusSent); err != nil {
			log.Printf("dispatch: failed to mark notifications sent: %v", err)
		}
	}

	return result, nil
}

// DispatchAsync detaches the fan-out from the caller. The triggering business
// action never waits on, or fails because of, notification delivery.
func (d *Dispatcher) DispatchAsync(ev Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result, err := d.Dispatch(ctx, ev)
		if err != nil {
			log.Printf("dispatch: %s broadcast failed: %v", ev.Type, err)
			return
		}
		log.Printf("dispatch: %s broadcast done: sent=%d failed=%d invalid_tokens=%d",
			ev.Type, result.Sent, result.Failed, result.InvalidTokens)
	}()
}

func (d *Dispatcher) resolve(a Audience) ([]models.User, error) {
	switch a.kind {
	case audienceRole:
		return d.users.GetUsersByRole(a.role)
	case audienceUsers:
		return d.users.GetUsersByIDs(a.userIDs)
	default:
		return d.users.GetUsers()
	}
}

func (d *Dispatcher) sendPushBatches(ctx context.Context, recipients []models.User, n *models.Notification, result *Result) {
	tokens := make([]string, 0, len(recipients))
	for i := range recipients {
		if recipients[i].PushToken != "" {
			tokens = append(tokens, recipients[i].PushToken)
		}
	}

	for _, batch := range chunkTokens(tokens, d.batchSize) {
		res, err := d.sender.SendMulticast(ctx, batch, n)
		if err != nil {
			// Transport-level failure: this batch degrades to in-app only.
			log.Printf("dispatch: push batch of %d failed: %v", len(batch), err)
			result.Failed += len(batch)
			continue
		}
		result.Sent += res.SuccessCount
		result.Failed += res.FailureCount
		for _, token := range res.InvalidTokens {
			result.InvalidTokens++
			if err := d.users.ClearPushTokenByValue(token); err != nil {
				log.Printf("dispatch: failed to clear dead push token: %v", err)
			}
		}
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	var batches [][]string
	for len(tokens) > 0 {
		n := size
		if n > len(tokens) {
			n = len(tokens)
		}
		batches = append(batches, tokens[:n])
		tokens = tokens[n:]
	}
	return batches
}
