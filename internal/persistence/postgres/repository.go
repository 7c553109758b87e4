// Package postgres provides pgx-backed persistence for leads, tasks,
// notifications, users, and the transactional outbox.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/followup/internal/domain"
)

// LeadRepository reads leads from Postgres.
type LeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository constructs a LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// ListCandidates returns leads eligible for inactivity scanning: owned and in
// a non-terminal status.
func (r *LeadRepository) ListCandidates(ctx context.Context) ([]domain.Lead, error) {
	const query = `SELECT lead_id, owner_id, status, created_at
        FROM leads
        WHERE owner_id IS NOT NULL AND status NOT IN ($1, $2)
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, domain.LeadStatusWon, domain.LeadStatusLost)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		var lead domain.Lead
		if err := rows.Scan(&lead.ID, &lead.OwnerID, &lead.Status, &lead.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UserRepository reads users from Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// ListAdmins returns all users with the supervisory role.
func (r *UserRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT user_id, display_name, role FROM users WHERE role = $1 ORDER BY user_id`

	rows, err := r.pool.Query(ctx, query, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.DisplayName, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
