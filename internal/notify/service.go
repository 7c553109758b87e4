// Package notify exposes the notification-center operations that close or
// update an escalation episode.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"example.com/followup/internal/domain"
)

// Service mediates caller access to notifications. Acknowledging is the only
// path that closes an escalation episode: it deletes the notification together
// with its linked task. A lead becoming active again never closes the episode
// on its own.
type Service struct {
	notifications domain.NotificationRepository
	now           func() time.Time
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a Service.
func NewService(notifications domain.NotificationRepository, opts ...Option) *Service {
	s := &Service{notifications: notifications, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acknowledge deletes the notification and its linked task as a pair. Fails
// with ErrNotFound when the notification does not exist and ErrForbidden when
// the caller is not its recipient.
func (s *Service) Acknowledge(ctx context.Context, notificationID, callerID string) error {
	notification, err := s.load(ctx, notificationID, callerID)
	if err != nil {
		return err
	}
	if err := s.notifications.DeleteWithLinkedTask(ctx, notification.ID); err != nil {
		return fmt.Errorf("acknowledge notification %s: %w", notification.ID, err)
	}
	return nil
}

// MarkRead sets the read flag and timestamp. It does not affect acknowledgment
// or the row's existence.
func (s *Service) MarkRead(ctx context.Context, notificationID, callerID string) error {
	notification, err := s.load(ctx, notificationID, callerID)
	if err != nil {
		return err
	}
	if err := s.notifications.MarkRead(ctx, notification.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("mark notification %s read: %w", notification.ID, err)
	}
	return nil
}

// ListForUser returns the user's outstanding notifications. Every stored row
// is unacknowledged by construction, so the unacknowledged-only filter never
// excludes anything.
func (s *Service) ListForUser(ctx context.Context, userID string, filters domain.ListFilters) ([]domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: empty user id", domain.ErrInvalidArgument)
	}
	return s.notifications.ListForUser(ctx, userID, filters)
}

func (s *Service) load(ctx context.Context, notificationID, callerID string) (*domain.Notification, error) {
	if strings.TrimSpace(notificationID) == "" {
		return nil, fmt.Errorf("%w: empty notification id", domain.ErrInvalidArgument)
	}
	notification, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, fmt.Errorf("notification %s: %w", notificationID, domain.ErrNotFound)
	}
	if notification.RecipientID != callerID {
		return nil, fmt.Errorf("notification %s: %w", notificationID, domain.ErrForbidden)
	}
	return notification, nil
}
