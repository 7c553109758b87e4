package domain

import "time"

// NotificationTypeLeadInactivity marks alerts raised for silent leads.
const NotificationTypeLeadInactivity = "lead_inactivity"

// Notification is a per-recipient alert. A row's presence means the alert is
// still outstanding: acknowledging deletes the row (and its linked task, if
// any), so no acknowledged resting state is ever stored. TaskID is set only on
// the owner's notification; a task can be linked from at most one notification.
type Notification struct {
	ID          string
	RecipientID string
	LeadID      *string
	Type        string
	TaskID      *string
	Read        bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// ListFilters narrows a per-user notification listing. UnacknowledgedOnly is
// structurally a no-op because acknowledged rows are deleted; it is accepted so
// callers can state intent without knowing that detail.
type ListFilters struct {
	UnreadOnly         bool
	UnacknowledgedOnly bool
}
