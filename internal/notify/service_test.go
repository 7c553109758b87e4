package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/followup/internal/domain"
)

var readTime = time.Date(2025, time.June, 2, 10, 30, 0, 0, time.UTC)

type fakeNotifications struct {
	notifications map[string]*domain.Notification
	tasks         map[string]*domain.Task
	listed        []domain.Notification
	lastFilters   domain.ListFilters
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{
		notifications: make(map[string]*domain.Notification),
		tasks:         make(map[string]*domain.Task),
	}
}

func (f *fakeNotifications) Get(ctx context.Context, id string) (*domain.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, nil
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotifications) Create(ctx context.Context, n domain.Notification) error {
	f.notifications[n.ID] = &n
	return nil
}

func (f *fakeNotifications) HasOutstanding(ctx context.Context, recipientID, leadID, notifType string) (bool, error) {
	return false, nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, id string, at time.Time) error {
	n := f.notifications[id]
	n.Read = true
	n.ReadAt = &at
	return nil
}

func (f *fakeNotifications) DeleteWithLinkedTask(ctx context.Context, id string) error {
	n := f.notifications[id]
	if n.TaskID != nil {
		delete(f.tasks, *n.TaskID)
	}
	delete(f.notifications, id)
	return nil
}

func (f *fakeNotifications) ListForUser(ctx context.Context, userID string, filters domain.ListFilters) ([]domain.Notification, error) {
	f.lastFilters = filters
	return f.listed, nil
}

func seed(f *fakeNotifications, taskID string) (ownerNotif, adminNotif domain.Notification) {
	leadID := "lead-1"
	f.tasks[taskID] = &domain.Task{ID: taskID, OwnerID: "user-u", LeadID: leadID, Type: domain.TaskTypeLeadInactivity, Status: domain.TaskStatusPending}

	ownerNotif = domain.Notification{ID: "n-owner", RecipientID: "user-u", LeadID: &leadID, Type: domain.NotificationTypeLeadInactivity, TaskID: &taskID}
	adminNotif = domain.Notification{ID: "n-admin", RecipientID: "admin-1", LeadID: &leadID, Type: domain.NotificationTypeLeadInactivity}
	f.notifications[ownerNotif.ID] = &ownerNotif
	f.notifications[adminNotif.ID] = &adminNotif
	return ownerNotif, adminNotif
}

func TestAcknowledgeDeletesNotificationAndLinkedTask(t *testing.T) {
	fake := newFakeNotifications()
	seed(fake, "task-1")

	svc := NewService(fake)
	err := svc.Acknowledge(context.Background(), "n-owner", "user-u")
	require.NoError(t, err)

	require.NotContains(t, fake.notifications, "n-owner")
	require.NotContains(t, fake.tasks, "task-1")
	// Admin notifications for the same lead are untouched.
	require.Contains(t, fake.notifications, "n-admin")
}

func TestAcknowledgeUnlinkedRemovesOnlyNotification(t *testing.T) {
	fake := newFakeNotifications()
	seed(fake, "task-1")

	svc := NewService(fake)
	err := svc.Acknowledge(context.Background(), "n-admin", "admin-1")
	require.NoError(t, err)

	require.NotContains(t, fake.notifications, "n-admin")
	require.Contains(t, fake.tasks, "task-1")
}

func TestAcknowledgeUnknownNotification(t *testing.T) {
	svc := NewService(newFakeNotifications())
	err := svc.Acknowledge(context.Background(), "n-missing", "user-u")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcknowledgeWrongCaller(t *testing.T) {
	fake := newFakeNotifications()
	seed(fake, "task-1")

	svc := NewService(fake)
	err := svc.Acknowledge(context.Background(), "n-owner", "admin-1")
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.Contains(t, fake.notifications, "n-owner")
}

func TestMarkReadSetsFlagWithoutDeleting(t *testing.T) {
	fake := newFakeNotifications()
	seed(fake, "task-1")

	svc := NewService(fake, WithClock(func() time.Time { return readTime }))
	err := svc.MarkRead(context.Background(), "n-owner", "user-u")
	require.NoError(t, err)

	n := fake.notifications["n-owner"]
	require.True(t, n.Read)
	require.NotNil(t, n.ReadAt)
	require.True(t, n.ReadAt.Equal(readTime))
	require.Contains(t, fake.tasks, "task-1")
}

func TestMarkReadGuards(t *testing.T) {
	fake := newFakeNotifications()
	seed(fake, "task-1")
	svc := NewService(fake)

	require.ErrorIs(t, svc.MarkRead(context.Background(), "n-missing", "user-u"), domain.ErrNotFound)
	require.ErrorIs(t, svc.MarkRead(context.Background(), "n-owner", "someone-else"), domain.ErrForbidden)
}

func TestListForUserForwardsFilters(t *testing.T) {
	fake := newFakeNotifications()
	fake.listed = []domain.Notification{{ID: "n-1", RecipientID: "user-u"}}
	svc := NewService(fake)

	out, err := svc.ListForUser(context.Background(), "user-u", domain.ListFilters{UnreadOnly: true, UnacknowledgedOnly: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, fake.lastFilters.UnreadOnly)
	require.True(t, fake.lastFilters.UnacknowledgedOnly)
}

func TestListForUserRejectsEmptyUser(t *testing.T) {
	svc := NewService(newFakeNotifications())
	_, err := svc.ListForUser(context.Background(), "  ", domain.ListFilters{})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
