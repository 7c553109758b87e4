// Package scanner implements the batch inactivity scan over candidate leads.
package scanner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/followup/internal/domain"
	"example.com/followup/internal/observability"
	"example.com/followup/internal/resolver"
)

// LeadError records a per-lead failure that did not abort the run.
type LeadError struct {
	LeadID string
	Err    error
}

// Report summarises one scan run.
type Report struct {
	Processed            int
	TasksCreated         int
	NotificationsCreated int
	Errors               []LeadError
}

// Option configures optional behaviour for the Scanner.
type Option func(*Scanner)

// WithLogger overrides the logger used to report per-lead failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		s.now = now
	}
}

// WithWorkers sets the number of leads processed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Scanner loads candidate leads, resolves their inactivity, and escalates the
// ones silent beyond the threshold. It holds no state between runs; repeated
// runs are made idempotent by the existence checks against stored tasks and
// notifications. Concurrent runs are not coordinated here: the external
// scheduler is expected to keep at most one run active at a time.
type Scanner struct {
	leads         domain.LeadRepository
	tasks         domain.TaskRepository
	notifications domain.NotificationRepository
	users         domain.UserRepository
	resolver      *resolver.Resolver
	threshold     time.Duration
	workers       int
	now           func() time.Time
	logger        *log.Logger
}

// New constructs a Scanner with the given inactivity threshold.
func New(
	leads domain.LeadRepository,
	tasks domain.TaskRepository,
	notifications domain.NotificationRepository,
	users domain.UserRepository,
	res *resolver.Resolver,
	threshold time.Duration,
	opts ...Option,
) *Scanner {
	s := &Scanner{
		leads:         leads,
		tasks:         tasks,
		notifications: notifications,
		users:         users,
		resolver:      res,
		threshold:     threshold,
		workers:       4,
		now:           time.Now,
		logger:        log.New(log.Writer(), "[scanner] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one scan. Per-lead failures are captured in the report and do
// not stop the run; a failure loading the candidate set or the admin roster
// aborts the run before any per-lead writes.
func (s *Scanner) Run(ctx context.Context) (Report, error) {
	start := s.now()

	candidates, err := s.leads.ListCandidates(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load candidate leads: %w", err)
	}

	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load admin users: %w", err)
	}

	jobs := make(chan domain.Lead)
	results := make(chan leadResult)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lead := range jobs {
				tasks, notifs, err := s.processLead(ctx, lead, admins)
				results <- leadResult{leadID: lead.ID, tasks: tasks, notifications: notifs, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, lead := range candidates {
			select {
			case jobs <- lead:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	report := Report{}
	for res := range results {
		report.Processed++
		report.TasksCreated += res.tasks
		report.NotificationsCreated += res.notifications
		if res.err != nil {
			s.logger.Printf("lead %s: %v", res.leadID, res.err)
			report.Errors = append(report.Errors, LeadError{LeadID: res.leadID, Err: res.err})
		}
	}

	observability.RecordScan(s.now().Sub(start), report.TasksCreated, report.NotificationsCreated, len(report.Errors))
	return report, nil
}

type leadResult struct {
	leadID        string
	tasks         int
	notifications int
	err           error
}

// processLead evaluates a single lead. All checks and writes for one lead run
// on one goroutine so its check-then-create sequence is never interleaved with
// itself within a run.
func (s *Scanner) processLead(ctx context.Context, lead domain.Lead, admins []domain.User) (tasksCreated, notificationsCreated int, err error) {
	if lead.OwnerID == nil {
		return 0, 0, nil
	}
	ownerID := *lead.OwnerID

	last, err := s.resolver.LastActivity(ctx, lead.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve last activity: %w", err)
	}
	if last == nil {
		// No activity record anywhere: inactivity duration is unknowable.
		return 0, 0, nil
	}

	elapsed := s.now().Sub(*last)
	if elapsed <= s.threshold {
		return 0, 0, nil
	}

	existing, err := s.tasks.FindByLeadAndType(ctx, lead.ID, domain.TaskTypeLeadInactivity)
	if err != nil {
		return 0, 0, fmt.Errorf("check existing task: %w", err)
	}
	if existing != nil {
		// Escalation episode already open; acknowledgment is the only way out.
		return 0, 0, nil
	}

	task := domain.Task{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		LeadID:    lead.ID,
		Type:      domain.TaskTypeLeadInactivity,
		Status:    domain.TaskStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return 0, 0, fmt.Errorf("create task: %w", err)
	}
	tasksCreated++

	created, err := s.notifyRecipient(ctx, ownerID, lead.ID, &task.ID)
	if err != nil {
		return tasksCreated, notificationsCreated, fmt.Errorf("notify owner: %w", err)
	}
	if created {
		notificationsCreated++
	}

	for _, admin := range admins {
		created, err := s.notifyRecipient(ctx, admin.ID, lead.ID, nil)
		if err != nil {
			return tasksCreated, notificationsCreated, fmt.Errorf("notify admin %s: %w", admin.ID, err)
		}
		if created {
			notificationsCreated++
		}
	}

	return tasksCreated, notificationsCreated, nil
}

// notifyRecipient creates an inactivity notification unless the recipient
// already holds an outstanding one for the lead.
func (s *Scanner) notifyRecipient(ctx context.Context, recipientID, leadID string, taskID *string) (bool, error) {
	outstanding, err := s.notifications.HasOutstanding(ctx, recipientID, leadID, domain.NotificationTypeLeadInactivity)
	if err != nil {
		return false, err
	}
	if outstanding {
		return false, nil
	}

	notification := domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		LeadID:      &leadID,
		Type:        domain.NotificationTypeLeadInactivity,
		TaskID:      taskID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return false, err
	}
	return true, nil
}
