package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/push"
	"github.com/anonto42/eventra/backend/internal/repositories"
	apperrors "github.com/anonto42/eventra/backend/pkg/errors"
)

type fakeDirectory struct {
	users         []models.User
	clearedTokens []string
}

func (d *fakeDirectory) GetUsers() ([]models.User, error) { return d.users, nil }

func (d *fakeDirectory) GetUsersByRole(role string) ([]models.User, error) {
	var out []models.User
	for _, u := range d.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, u := range d.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (d *fakeDirectory) ClearPushTokenByValue(token string) error {
	d.clearedTokens = append(d.clearedTokens, token)
	return nil
}

// fakeSender reports the tokens in badTokens as permanently invalid and
// everything else as delivered. A non-nil transportErr fails whole batches.
type fakeSender struct {
	badTokens    map[string]bool
	transportErr error
	batches      [][]string
}

func (s *fakeSender) SendMulticast(ctx context.Context, tokens []string, n *models.Notification) (*push.Result, error) {
	s.batches = append(s.batches, tokens)
	if s.transportErr != nil {
		return nil, s.transportErr
	}
	res := &push.Result{}
	for _, token := range tokens {
		if s.badTokens[token] {
			res.FailureCount++
			res.InvalidTokens = append(res.InvalidTokens, token)
		} else {
			res.SuccessCount++
		}
	}
	return res, nil
}

func threeUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "Amina", Role: "client", PushToken: "tok-good-1"},
		{ID: 2, Name: "Rafi", Role: "client", PushToken: "tok-dead"},
		{ID: 3, Name: "Admin", Role: "admin", PushToken: "tok-good-2"},
	}
}

func TestDispatchFansOutToAllRecipients(t *testing.T) {
	directory := &fakeDirectory{users: threeUsers()}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{badTokens: map[string]bool{"tok-dead": true}}
	d := New(directory, notifRepo, sender, 500)

	staff := &models.StaffMember{FullName: "Nadia Islam"}
	staff.ID = 7
	result, err := d.Dispatch(context.Background(), NewStaffEvent(staff))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.InvalidTokens)
	assert.Equal(t, []string{"tok-dead"}, directory.clearedTokens)

	// Every recipient got exactly one in-app record, marked sent
	ctx := context.Background()
	for _, userID := range []string{"1", "2", "3"} {
		got, err := notifRepo.ListForUser(ctx, userID, false, 0)
		require.NoError(t, err)
		require.Len(t, got, 1, "user %s", userID)
		assert.Equal(t, models.NotificationTypeNewStaff, got[0].Type)
		assert.Equal(t, models.NotificationStatusSent, got[0].Status)
		require.NotNil(t, got[0].Reference)
		assert.Equal(t, "7", got[0].Reference.ID)
		assert.Equal(t, "staff", got[0].Reference.Kind)
	}
}

func TestDispatchPushFailureStillWritesInApp(t *testing.T) {
	directory := &fakeDirectory{users: threeUsers()}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{transportErr: errors.New("fcm unreachable")}
	d := New(directory, notifRepo, sender, 500)

	result, err := d.Dispatch(context.Background(), AnnouncementEvent(models.AnnouncementRequest{
		Title: "Venue closed",
		Body:  "All bookings moved to Saturday",
	}))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, 0, result.InvalidTokens)

	ctx := context.Background()
	for _, userID := range []string{"1", "2", "3"} {
		got, err := notifRepo.ListForUser(ctx, userID, false, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, models.NotificationStatusSent, got[0].Status)
	}
}

func TestDispatchMissingChannelsFailsBeforeSideEffects(t *testing.T) {
	directory := &fakeDirectory{users: threeUsers()}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{}
	d := New(directory, notifRepo, sender, 500)

	_, err := d.Dispatch(context.Background(), Event{
		Title:    "broken",
		Body:     "no channels",
		Type:     models.NotificationTypeAnnouncement,
		Audience: AllUsers(),
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingChannels)
	assert.Empty(t, sender.batches, "no push may leave before validation")

	got, listErr := notifRepo.ListForUser(context.Background(), "1", false, 0)
	require.NoError(t, listErr)
	assert.Empty(t, got, "no record may be written before validation")
}

func TestDispatchSingleRecipient(t *testing.T) {
	directory := &fakeDirectory{users: threeUsers()}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{}
	d := New(directory, notifRepo, sender, 500)

	result, err := d.Dispatch(context.Background(), OrderStatusEvent(1, "ord-9", "EV-2026-009", "confirmed"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	ctx := context.Background()
	got, err := notifRepo.ListForUser(ctx, "1", false, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationTypeOrderStatus, got[0].Type)
	assert.Equal(t, "ord-9", got[0].Reference.ID)

	for _, other := range []string{"2", "3"} {
		got, err := notifRepo.ListForUser(ctx, other, false, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestDispatchRoleAudience(t *testing.T) {
	directory := &fakeDirectory{users: threeUsers()}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{}
	d := New(directory, notifRepo, sender, 500)

	ev := AnnouncementEvent(models.AnnouncementRequest{Title: "admins only", Body: "staff meeting"})
	ev.Audience = RoleAudience("admin")
	result, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	got, err := notifRepo.ListForUser(context.Background(), "3", false, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDispatchSkipsUsersWithoutTokens(t *testing.T) {
	users := threeUsers()
	users[1].PushToken = ""
	directory := &fakeDirectory{users: users}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{}
	d := New(directory, notifRepo, sender, 500)

	result, err := d.Dispatch(context.Background(), AnnouncementEvent(models.AnnouncementRequest{Title: "hi", Body: "there"}))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent, "tokenless users never enter push counts")
	assert.Equal(t, 0, result.Failed)

	// ...but still get their in-app record
	got, err := notifRepo.ListForUser(context.Background(), "2", false, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDispatchBatchesTokens(t *testing.T) {
	var users []models.User
	for i := uint(1); i <= 5; i++ {
		users = append(users, models.User{ID: i, Role: "client", PushToken: "tok"})
	}
	directory := &fakeDirectory{users: users}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{}
	d := New(directory, notifRepo, sender, 2)

	result, err := d.Dispatch(context.Background(), AnnouncementEvent(models.AnnouncementRequest{Title: "t", Body: "b"}))
	require.NoError(t, err)
	assert.Equal(t, 5, result.Sent)
	require.Len(t, sender.batches, 3)
	assert.Len(t, sender.batches[0], 2)
	assert.Len(t, sender.batches[1], 2)
	assert.Len(t, sender.batches[2], 1)
}

func TestChunkTokens(t *testing.T) {
	assert.Nil(t, chunkTokens(nil, 3))
	assert.Len(t, chunkTokens([]string{"a", "b", "c"}, 3), 1)

	batches := chunkTokens([]string{"a", "b", "c", "d"}, 3)
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"a", "b", "c"}, batches[0])
	assert.Equal(t, []string{"d"}, batches[1])
}

func TestDispatchEmptyAudience(t *testing.T) {
	directory := &fakeDirectory{}
	notifRepo := repositories.NewMemoryNotificationRepository()
	sender := &fakeSender{}
	d := New(directory, notifRepo, sender, 500)

	result, err := d.Dispatch(context.Background(), AnnouncementEvent(models.AnnouncementRequest{Title: "t", Body: "b"}))
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)
	assert.Empty(t, sender.batches)
}
