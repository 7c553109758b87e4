package domain

// UserRole distinguishes supervisory users from regular agents.
type UserRole string

const (
	RoleAgent UserRole = "agent"
	RoleAdmin UserRole = "admin"
)

// User is an application user referenced by leads, tasks, and notifications.
type User struct {
	ID          string
	DisplayName string
	Role        UserRole
}
