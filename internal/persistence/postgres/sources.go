package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/followup/internal/resolver"
)

// activitySource answers "when did this record family last touch the lead"
// with a single MAX() query. Every lead-linked table with a timestamp can be
// exposed this way and registered with the resolver.
type activitySource struct {
	name  string
	pool  *pgxpool.Pool
	query string
}

func (s *activitySource) Name() string { return s.name }

func (s *activitySource) LatestForLead(ctx context.Context, leadID string) (*time.Time, error) {
	var latest *time.Time
	if err := s.pool.QueryRow(ctx, s.query, leadID).Scan(&latest); err != nil {
		return nil, err
	}
	// MAX over zero rows yields NULL, which scans to nil: no records, not an error.
	return latest, nil
}

// NewNoteSource exposes lead notes as an activity source.
func NewNoteSource(pool *pgxpool.Pool) resolver.Source {
	return &activitySource{
		name:  "notes",
		pool:  pool,
		query: `SELECT MAX(created_at) FROM lead_notes WHERE lead_id=$1`,
	}
}

// NewAppointmentSource exposes lead appointments as an activity source.
func NewAppointmentSource(pool *pgxpool.Pool) resolver.Source {
	return &activitySource{
		name:  "appointments",
		pool:  pool,
		query: `SELECT MAX(created_at) FROM lead_appointments WHERE lead_id=$1`,
	}
}

// NewQuoteSource exposes lead quotes as an activity source.
func NewQuoteSource(pool *pgxpool.Pool) resolver.Source {
	return &activitySource{
		name:  "quotes",
		pool:  pool,
		query: `SELECT MAX(created_at) FROM lead_quotes WHERE lead_id=$1`,
	}
}
