package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/followup/internal/domain"
	"example.com/followup/internal/resolver"
)

var reportTime = time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

type fakeLeads struct{ leads []domain.Lead }

func (f *fakeLeads) ListCandidates(ctx context.Context) ([]domain.Lead, error) {
	return f.leads, nil
}

type fakeTasks struct{ byLead map[string]domain.Task }

func (f *fakeTasks) FindByLeadAndType(ctx context.Context, leadID, taskType string) (*domain.Task, error) {
	task, ok := f.byLead[leadID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (f *fakeTasks) Create(ctx context.Context, task domain.Task) error { return nil }

type mapSource struct{ byID map[string]time.Time }

func (s *mapSource) Name() string { return "activities" }

func (s *mapSource) LatestForLead(ctx context.Context, leadID string) (*time.Time, error) {
	ts, ok := s.byID[leadID]
	if !ok {
		return nil, nil
	}
	return &ts, nil
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func fixture() (*fakeLeads, *fakeTasks, *mapSource) {
	leads := &fakeLeads{leads: []domain.Lead{
		{ID: "lead-1", OwnerID: strPtr("user-a"), Status: domain.LeadStatusQuoted},
		{ID: "lead-2", OwnerID: strPtr("user-a"), Status: domain.LeadStatusContacted},
		{ID: "lead-3", OwnerID: strPtr("user-b"), Status: domain.LeadStatusNew},
		{ID: "lead-fresh", OwnerID: strPtr("user-b"), Status: domain.LeadStatusContacted},
		{ID: "lead-silent", OwnerID: strPtr("user-b"), Status: domain.LeadStatusNew},
	}}
	tasks := &fakeTasks{byLead: map[string]domain.Task{
		"lead-1": {ID: "t-1", OwnerID: "user-a", LeadID: "lead-1", Type: domain.TaskTypeLeadInactivity, Status: domain.TaskStatusPending},
		"lead-3": {ID: "t-3", OwnerID: "user-b", LeadID: "lead-3", Type: domain.TaskTypeLeadInactivity, Status: domain.TaskStatusPending},
	}}
	source := &mapSource{byID: map[string]time.Time{
		"lead-1":     reportTime.Add(-50*time.Hour - 30*time.Minute),
		"lead-2":     reportTime.Add(-73 * time.Hour),
		"lead-3":     reportTime.Add(-96 * time.Hour),
		"lead-fresh": reportTime.Add(-2 * time.Hour),
		// lead-silent has no activity records at all.
	}}
	return leads, tasks, source
}

func newAggregator(leads *fakeLeads, tasks *fakeTasks, source *mapSource) *Aggregator {
	return NewAggregator(leads, tasks, resolver.New(source), 48*time.Hour,
		WithClock(func() time.Time { return reportTime }))
}

func TestFollowUpSummaryDefaultsToThreshold(t *testing.T) {
	agg := newAggregator(fixture())

	summary, err := agg.FollowUpSummary(context.Background(), Filters{})
	require.NoError(t, err)

	// lead-fresh is under the threshold; lead-silent has no resolvable activity.
	require.Len(t, summary.InactiveLeads, 3)
	require.Equal(t, "lead-3", summary.InactiveLeads[0].LeadID)
	require.Equal(t, 96, summary.InactiveLeads[0].HoursInactive)
	require.Equal(t, 50, summary.InactiveLeads[2].HoursInactive, "hours are floored")

	require.Len(t, summary.OwnerStats, 2)
	userA := summary.OwnerStats[0]
	require.Equal(t, "user-a", userA.OwnerID)
	require.Equal(t, 2, userA.InactiveLeads)
	require.Equal(t, 61, userA.AverageHoursInactive) // (50+73)/2 floored
	require.Equal(t, 1, userA.PendingTasks)

	userB := summary.OwnerStats[1]
	require.Equal(t, 1, userB.InactiveLeads)
	require.Equal(t, 1, userB.PendingTasks)
}

func TestFollowUpSummaryOwnerFilter(t *testing.T) {
	agg := newAggregator(fixture())

	summary, err := agg.FollowUpSummary(context.Background(), Filters{OwnerID: "user-b"})
	require.NoError(t, err)

	require.Len(t, summary.InactiveLeads, 1)
	require.Equal(t, "lead-3", summary.InactiveLeads[0].LeadID)
	require.Len(t, summary.OwnerStats, 1)
	require.Equal(t, "user-b", summary.OwnerStats[0].OwnerID)
}

func TestFollowUpSummaryHoursBand(t *testing.T) {
	agg := newAggregator(fixture())

	summary, err := agg.FollowUpSummary(context.Background(), Filters{MinHours: intPtr(60), MaxHours: intPtr(90)})
	require.NoError(t, err)

	require.Len(t, summary.InactiveLeads, 1)
	require.Equal(t, "lead-2", summary.InactiveLeads[0].LeadID)
}

func TestFollowUpSummaryExplicitMinOverridesThreshold(t *testing.T) {
	agg := newAggregator(fixture())

	summary, err := agg.FollowUpSummary(context.Background(), Filters{MinHours: intPtr(0)})
	require.NoError(t, err)

	// With an explicit lower bound even fresh leads appear.
	require.Len(t, summary.InactiveLeads, 4)
}

func TestFollowUpSummaryTaskStatusFilterExcludesTasklessLeads(t *testing.T) {
	agg := newAggregator(fixture())
	pending := domain.TaskStatusPending

	summary, err := agg.FollowUpSummary(context.Background(), Filters{TaskStatus: &pending})
	require.NoError(t, err)

	require.Len(t, summary.InactiveLeads, 2)
	for _, row := range summary.InactiveLeads {
		require.NotNil(t, row.TaskStatus)
		require.Equal(t, pending, *row.TaskStatus)
	}
}

func TestFollowUpSummaryRejectsInvertedBand(t *testing.T) {
	agg := newAggregator(fixture())

	_, err := agg.FollowUpSummary(context.Background(), Filters{MinHours: intPtr(90), MaxHours: intPtr(60)})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
