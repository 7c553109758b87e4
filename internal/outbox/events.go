package outbox

import "time"

// Event type identifiers recorded with outbox rows.
const (
	EventTaskCreated              = "task.created"
	EventNotificationCreated      = "notification.created"
	EventNotificationAcknowledged = "notification.acknowledged"
)

// Topic is the Kafka topic all follow-up events publish to.
const Topic = "followup_events"

// TaskCreated is emitted when the scanner opens an escalation episode.
type TaskCreated struct {
	TaskID    string    `json:"task_id"`
	LeadID    string    `json:"lead_id"`
	OwnerID   string    `json:"owner_id"`
	TaskType  string    `json:"task_type"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationCreated is emitted for every notification fanned out.
type NotificationCreated struct {
	NotificationID string    `json:"notification_id"`
	RecipientID    string    `json:"recipient_id"`
	LeadID         *string   `json:"lead_id,omitempty"`
	TaskID         *string   `json:"task_id,omitempty"`
	NotifType      string    `json:"notification_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationAcknowledged is emitted when an escalation episode closes.
type NotificationAcknowledged struct {
	NotificationID string    `json:"notification_id"`
	RecipientID    string    `json:"recipient_id"`
	LeadID         *string   `json:"lead_id,omitempty"`
	TaskID         *string   `json:"task_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
