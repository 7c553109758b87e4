package domain

import (
	"context"
	"time"
)

// LeadRepository captures read access to leads.
type LeadRepository interface {
	// ListCandidates returns leads with an owner and a non-terminal status.
	ListCandidates(ctx context.Context) ([]Lead, error)
}

// TaskRepository captures persistence for follow-up tasks.
type TaskRepository interface {
	// FindByLeadAndType returns the open task of the given type for the lead,
	// or nil when none exists. All stored tasks are open: acknowledgment
	// deletes them.
	FindByLeadAndType(ctx context.Context, leadID, taskType string) (*Task, error)
	Create(ctx context.Context, task Task) error
}

// NotificationRepository captures persistence for notifications.
type NotificationRepository interface {
	Get(ctx context.Context, notificationID string) (*Notification, error)
	Create(ctx context.Context, notification Notification) error
	// HasOutstanding reports whether the recipient already holds an
	// unacknowledged notification of the given type for the lead.
	HasOutstanding(ctx context.Context, recipientID, leadID, notifType string) (bool, error)
	MarkRead(ctx context.Context, notificationID string, at time.Time) error
	// DeleteWithLinkedTask removes the notification and its linked task, if
	// any, in a single transaction.
	DeleteWithLinkedTask(ctx context.Context, notificationID string) error
	ListForUser(ctx context.Context, userID string, filters ListFilters) ([]Notification, error)
}

// UserRepository captures read access to users.
type UserRepository interface {
	ListAdmins(ctx context.Context) ([]User, error)
}
