package domain

import "time"

// TaskTypeLeadInactivity marks follow-up tasks raised by the inactivity scanner.
// The column is open to other task types created elsewhere in the application.
const TaskTypeLeadInactivity = "lead_inactivity"

// TaskStatus represents the processing status of a follow-up task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
)

// Task is a pending follow-up obligation on a lead. An inactivity task exists
// at most once per lead and is removed only when its linked notification is
// acknowledged; there is no independent closure path.
type Task struct {
	ID        string
	OwnerID   string
	LeadID    string
	Type      string
	Status    TaskStatus
	CreatedAt time.Time
}
