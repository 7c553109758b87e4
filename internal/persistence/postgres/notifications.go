package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/followup/internal/domain"
	"example.com/followup/internal/outbox"
)

// NotificationRepository persists notifications in Postgres.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository constructs a NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const notificationColumns = `notification_id, recipient_id, lead_id, notif_type, task_id, read, read_at, created_at`

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.RecipientID, &n.LeadID, &n.Type, &n.TaskID, &n.Read, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Get retrieves a notification by ID, nil when absent.
func (r *NotificationRepository) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	const query = `SELECT ` + notificationColumns + ` FROM notifications WHERE notification_id=$1`

	n, err := scanNotification(r.pool.QueryRow(ctx, query, notificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

// Create persists the notification and records the outbox event
// inside one transaction.
func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO notifications (notification_id, recipient_id, lead_id, notif_type, task_id, read, read_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	if _, err = tx.Exec(ctx, stmt, n.ID, n.RecipientID, n.LeadID, n.Type, n.TaskID, n.Read, n.ReadAt, n.CreatedAt); err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, "notification", n.ID, outbox.EventNotificationCreated, n.RecipientID, outbox.NotificationCreated{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		LeadID:         n.LeadID,
		TaskID:         n.TaskID,
		NotifType:      n.Type,
		CreatedAt:      n.CreatedAt,
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// HasOutstanding reports whether the recipient holds a live notification of
// the given type for the lead. Acknowledged rows are deleted, so existence is
// the whole check.
func (r *NotificationRepository) HasOutstanding(ctx context.Context, recipientID, leadID, notifType string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM notifications WHERE recipient_id=$1 AND lead_id=$2 AND notif_type=$3)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, recipientID, leadID, notifType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MarkRead sets the read flag and timestamp.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string, at time.Time) error {
	const stmt = `UPDATE notifications SET read=TRUE, read_at=$2 WHERE notification_id=$1`

	tag, err := r.pool.Exec(ctx, stmt, notificationID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteWithLinkedTask removes the notification and its linked task, if any,
// as one transaction, and records the acknowledgment event with them.
func (r *NotificationRepository) DeleteWithLinkedTask(ctx context.Context, notificationID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const query = `SELECT ` + notificationColumns + ` FROM notifications WHERE notification_id=$1 FOR UPDATE`

	n, err := scanNotification(tx.QueryRow(ctx, query, notificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM notifications WHERE notification_id=$1`, n.ID); err != nil {
		return err
	}
	if n.TaskID != nil {
		if _, err = tx.Exec(ctx, `DELETE FROM tasks WHERE task_id=$1`, *n.TaskID); err != nil {
			return err
		}
	}

	if err = insertOutbox(ctx, tx, "notification", n.ID, outbox.EventNotificationAcknowledged, n.RecipientID, outbox.NotificationAcknowledged{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		LeadID:         n.LeadID,
		TaskID:         n.TaskID,
		OccurredAt:     time.Now().UTC(),
	}); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// ListForUser returns the user's notifications, newest first. The
// unacknowledged-only filter is accepted but cannot exclude anything: a row
// that still exists is unacknowledged by definition.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, filters domain.ListFilters) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id=$1`
	if filters.UnreadOnly {
		query += ` AND read=FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}
