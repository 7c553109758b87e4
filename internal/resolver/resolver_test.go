package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name string
	ts   *time.Time
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) LatestForLead(ctx context.Context, leadID string) (*time.Time, error) {
	return s.ts, s.err
}

func tsPtr(t time.Time) *time.Time { return &t }

func TestLastActivityReturnsMaxAcrossSources(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	r := New(
		&stubSource{name: "notes", ts: tsPtr(base.Add(-72 * time.Hour))},
		&stubSource{name: "appointments", ts: tsPtr(base.Add(-3 * time.Hour))},
		&stubSource{name: "quotes", ts: tsPtr(base.Add(-50 * time.Hour))},
	)

	got, err := r.LastActivity(context.Background(), "lead-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Equal(base.Add(-3*time.Hour)))
}

func TestLastActivityIgnoresEmptySources(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	r := New(
		&stubSource{name: "notes"},
		&stubSource{name: "quotes", ts: tsPtr(base)},
	)

	got, err := r.LastActivity(context.Background(), "lead-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Equal(base))
}

func TestLastActivityAbsentWhenNoSourceHasRecords(t *testing.T) {
	r := New(&stubSource{name: "notes"}, &stubSource{name: "appointments"})

	got, err := r.LastActivity(context.Background(), "lead-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLastActivityMonotonicUnderNewerRecords(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	quotes := &stubSource{name: "quotes", ts: tsPtr(base)}

	r := New(&stubSource{name: "notes", ts: tsPtr(base.Add(-10 * time.Hour))}, quotes)

	before, err := r.LastActivity(context.Background(), "lead-1")
	require.NoError(t, err)

	quotes.ts = tsPtr(base.Add(2 * time.Hour))
	after, err := r.LastActivity(context.Background(), "lead-1")
	require.NoError(t, err)

	require.False(t, after.Before(*before))
	require.True(t, after.Equal(base.Add(2*time.Hour)))
}

func TestLastActivityPropagatesSourceErrors(t *testing.T) {
	cause := errors.New("connection reset")
	r := New(
		&stubSource{name: "notes", ts: tsPtr(time.Now())},
		&stubSource{name: "appointments", err: cause},
	)

	_, err := r.LastActivity(context.Background(), "lead-1")
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "appointments")
}
