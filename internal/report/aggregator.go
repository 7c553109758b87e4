// Package report derives follow-up summaries for dashboards from current
// storage state. Nothing here is cached; every call recomputes from a fresh
// read so there is no invalidation logic to maintain.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"example.com/followup/internal/domain"
	"example.com/followup/internal/resolver"
)

// Filters narrows the follow-up summary. MinHours and MaxHours bound the
// hours-inactive band inclusively; when MinHours is unset the scanner's
// escalation threshold is the implicit lower bound, so the default listing
// shows exactly the leads the scanner considers inactive.
type Filters struct {
	OwnerID    string
	MinHours   *int
	MaxHours   *int
	TaskStatus *domain.TaskStatus
}

// InactiveLead is one row of the filterable inactive-lead listing.
type InactiveLead struct {
	LeadID         string
	OwnerID        string
	Status         domain.LeadStatus
	HoursInactive  int
	LastActivityAt time.Time
	TaskStatus     *domain.TaskStatus
}

// OwnerStat is the per-owner rollup. AverageHoursInactive is floored to an
// integer for display.
type OwnerStat struct {
	OwnerID              string
	InactiveLeads        int
	AverageHoursInactive int
	PendingTasks         int
}

// Summary packages the follow-up report.
type Summary struct {
	InactiveLeads []InactiveLead
	OwnerStats    []OwnerStat
}

// Aggregator computes follow-up summaries.
type Aggregator struct {
	leads     domain.LeadRepository
	tasks     domain.TaskRepository
	resolver  *resolver.Resolver
	threshold time.Duration
	now       func() time.Time
}

// Option configures optional behaviour for the Aggregator.
type Option func(*Aggregator)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator constructs an Aggregator sharing the scanner's threshold.
func NewAggregator(leads domain.LeadRepository, tasks domain.TaskRepository, res *resolver.Resolver, threshold time.Duration, opts ...Option) *Aggregator {
	a := &Aggregator{
		leads:     leads,
		tasks:     tasks,
		resolver:  res,
		threshold: threshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FollowUpSummary lists matching inactive leads and aggregates them per owner.
// Candidate eligibility matches the scanner: owned leads in a non-terminal
// status. Leads with no resolvable activity are skipped. A task-status filter
// only matches leads that actually carry an inactivity task.
func (a *Aggregator) FollowUpSummary(ctx context.Context, filters Filters) (Summary, error) {
	if filters.MinHours != nil && *filters.MinHours < 0 {
		return Summary{}, fmt.Errorf("%w: min hours must be >= 0", domain.ErrInvalidArgument)
	}
	if filters.MaxHours != nil && *filters.MaxHours < 0 {
		return Summary{}, fmt.Errorf("%w: max hours must be >= 0", domain.ErrInvalidArgument)
	}
	if filters.MinHours != nil && filters.MaxHours != nil && *filters.MinHours > *filters.MaxHours {
		return Summary{}, fmt.Errorf("%w: min hours exceeds max hours", domain.ErrInvalidArgument)
	}

	candidates, err := a.leads.ListCandidates(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load candidate leads: %w", err)
	}

	now := a.now()
	rows := make([]InactiveLead, 0, len(candidates))

	for _, lead := range candidates {
		if lead.OwnerID == nil {
			continue
		}
		ownerID := *lead.OwnerID
		if filters.OwnerID != "" && filters.OwnerID != ownerID {
			continue
		}

		last, err := a.resolver.LastActivity(ctx, lead.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("resolve last activity for lead %s: %w", lead.ID, err)
		}
		if last == nil {
			continue
		}

		elapsed := now.Sub(*last)
		hours := int(elapsed.Hours())

		if filters.MinHours != nil {
			if hours < *filters.MinHours {
				continue
			}
		} else if elapsed <= a.threshold {
			continue
		}
		if filters.MaxHours != nil && hours > *filters.MaxHours {
			continue
		}

		task, err := a.tasks.FindByLeadAndType(ctx, lead.ID, domain.TaskTypeLeadInactivity)
		if err != nil {
			return Summary{}, fmt.Errorf("load task for lead %s: %w", lead.ID, err)
		}
		if filters.TaskStatus != nil && (task == nil || task.Status != *filters.TaskStatus) {
			continue
		}

		row := InactiveLead{
			LeadID:         lead.ID,
			OwnerID:        ownerID,
			Status:         lead.Status,
			HoursInactive:  hours,
			LastActivityAt: *last,
		}
		if task != nil {
			status := task.Status
			row.TaskStatus = &status
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].HoursInactive != rows[j].HoursInactive {
			return rows[i].HoursInactive > rows[j].HoursInactive
		}
		return rows[i].LeadID < rows[j].LeadID
	})

	return Summary{InactiveLeads: rows, OwnerStats: ownerStats(rows)}, nil
}

func ownerStats(rows []InactiveLead) []OwnerStat {
	type acc struct {
		count   int
		hours   int
		pending int
	}
	byOwner := make(map[string]*acc)
	for _, row := range rows {
		entry, ok := byOwner[row.OwnerID]
		if !ok {
			entry = &acc{}
			byOwner[row.OwnerID] = entry
		}
		entry.count++
		entry.hours += row.HoursInactive
		if row.TaskStatus != nil && *row.TaskStatus == domain.TaskStatusPending {
			entry.pending++
		}
	}

	stats := make([]OwnerStat, 0, len(byOwner))
	for ownerID, entry := range byOwner {
		stats = append(stats, OwnerStat{
			OwnerID:              ownerID,
			InactiveLeads:        entry.count,
			AverageHoursInactive: entry.hours / entry.count,
			PendingTasks:         entry.pending,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].OwnerID < stats[j].OwnerID })
	return stats
}
