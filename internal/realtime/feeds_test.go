package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/repositories"
)

func seedConversation(t *testing.T, repo *repositories.MemoryConversationRepository, clientID string) *models.Conversation {
	t.Helper()
	conv, err := repo.CreateConversation(context.Background(),
		models.Participant{UserID: clientID, Role: models.RoleClient, FullName: "Client"},
		models.Participant{UserID: "admin-1", Role: models.RoleAdmin, FullName: "Admin"},
		models.PriorityNormal, nil)
	require.NoError(t, err)
	return conv
}

func TestMessageFeedFollowsConversation(t *testing.T) {
	repo := repositories.NewMemoryConversationRepository()
	conv := seedConversation(t, repo, "client-1")
	feed := NewMessageFeed(repo)
	defer feed.Close()

	require.NoError(t, feed.SetConversation(conv.ID))
	require.Eventually(t, func() bool {
		return feed.State() == StateLive
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, feed.Messages())

	sender := models.Participant{UserID: "admin-1", Role: models.RoleAdmin}
	_, err := repo.AppendMessage(context.Background(), conv.ID, sender, "welcome aboard", models.MessageTypeText)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		msgs := feed.Messages()
		return len(msgs) == 1 && msgs[0].Text == "welcome aboard"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMessageFeedSwitchesConversations(t *testing.T) {
	repo := repositories.NewMemoryConversationRepository()
	convA := seedConversation(t, repo, "client-a")
	convB := seedConversation(t, repo, "client-b")

	sender := models.Participant{UserID: "admin-1", Role: models.RoleAdmin}
	_, err := repo.AppendMessage(context.Background(), convA.ID, sender, "in A", models.MessageTypeText)
	require.NoError(t, err)
	_, err = repo.AppendMessage(context.Background(), convB.ID, sender, "in B", models.MessageTypeText)
	require.NoError(t, err)

	feed := NewMessageFeed(repo)
	defer feed.Close()

	require.NoError(t, feed.SetConversation(convA.ID))
	require.Eventually(t, func() bool {
		msgs := feed.Messages()
		return len(msgs) == 1 && msgs[0].Text == "in A"
	}, 2*time.Second, 5*time.Millisecond)

	// Re-setting the same id must not restart the subscription
	require.NoError(t, feed.SetConversation(convA.ID))
	assert.Equal(t, StateLive, feed.State())

	require.NoError(t, feed.SetConversation(convB.ID))
	require.Eventually(t, func() bool {
		msgs := feed.Messages()
		return len(msgs) == 1 && msgs[0].Text == "in B"
	}, 2*time.Second, 5*time.Millisecond)

	// Clearing the id stops the feed entirely
	require.NoError(t, feed.SetConversation(""))
	assert.Equal(t, StateIdle, feed.State())
	assert.Empty(t, feed.Messages())
}

func TestNotificationFeedUnreadCount(t *testing.T) {
	repo := repositories.NewMemoryNotificationRepository()
	feed := NewNotificationFeed(repo, 50)
	defer feed.Close()

	require.NoError(t, feed.SetUser("u-1"))
	require.Eventually(t, func() bool {
		return feed.State() == StateLive
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, feed.UnreadCount())

	ctx := context.Background()
	var first *models.Notification
	for i, title := range []string{"one", "two", "three"} {
		n, err := models.NewNotification("u-1", title, "body", models.NotificationTypeAnnouncement, nil, []models.Channel{models.ChannelInApp}, models.PriorityNormal)
		require.NoError(t, err)
		n.CreatedAt = n.CreatedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, n))
		if first == nil {
			first = n
		}
	}

	require.Eventually(t, func() bool {
		return len(feed.Notifications()) == 3 && feed.UnreadCount() == 3
	}, 2*time.Second, 5*time.Millisecond)

	// The count is re-derived from the snapshot after a read-state change
	require.NoError(t, repo.MarkRead(ctx, first.ID, "u-1"))
	require.Eventually(t, func() bool {
		return feed.UnreadCount() == 2
	}, 2*time.Second, 5*time.Millisecond)

	// Newest first
	assert.Equal(t, "three", feed.Notifications()[0].Title)
}

func TestNotificationFeedOnChange(t *testing.T) {
	repo := repositories.NewMemoryNotificationRepository()
	feed := NewNotificationFeed(repo, 50)
	defer feed.Close()

	changed := make(chan struct{}, 16)
	feed.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	require.NoError(t, feed.SetUser("u-1"))
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change event after subscribing")
	}
}
