package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/followup/internal/domain"
	"example.com/followup/internal/outbox"
)

// TaskRepository persists follow-up tasks in Postgres.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository constructs a TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// FindByLeadAndType returns the open task of the given type for the lead, or
// nil when none exists.
func (r *TaskRepository) FindByLeadAndType(ctx context.Context, leadID, taskType string) (*domain.Task, error) {
	const query = `SELECT task_id, owner_id, lead_id, task_type, status, created_at
        FROM tasks WHERE lead_id=$1 AND task_type=$2`

	row := r.pool.QueryRow(ctx, query, leadID, taskType)
	var task domain.Task
	if err := row.Scan(&task.ID, &task.OwnerID, &task.LeadID, &task.Type, &task.Status, &task.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// Create persists the task and records the outbox event inside one
// transaction.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO tasks (task_id, owner_id, lead_id, task_type, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`

	if _, err = tx.Exec(ctx, stmt, task.ID, task.OwnerID, task.LeadID, task.Type, task.Status, task.CreatedAt); err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "task", task.ID, outbox.EventTaskCreated, task.LeadID, outbox.TaskCreated{
		TaskID:    task.ID,
		LeadID:    task.LeadID,
		OwnerID:   task.OwnerID,
		TaskType:  task.Type,
		CreatedAt: task.CreatedAt,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}
