package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// DefaultMailTimeout bounds one notification email
const DefaultMailTimeout = 30 * time.Second

// NotificationService logs notices and mails them out
type NotificationService struct {
	notifications NotificationStore
	mailer        Mailer
	publisher     NotificationPublisher
	logger        zerolog.Logger
	now           func() time.Time
	mailTimeout   time.Duration
	inFlight      sync.WaitGroup
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications NotificationStore, mailer Mailer, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		mailer:        mailer,
		logger:        logger,
		now:           time.Now,
		mailTimeout:   DefaultMailTimeout,
	}
}

// WithPublisher also pushes every sent notification to publisher
func (s *NotificationService) WithPublisher(publisher NotificationPublisher) *NotificationService {
	s.publisher = publisher
	return s
}

// Send appends the notice to the log, then emails it in the background.
// Send does not wait for the mail; a mail failure is logged and does not
// undo the log entry.
func (s *NotificationService) Send(ctx context.Context, input NotificationInput) (*models.Notification, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject", "subject is required")
	}
	if strings.ContainsAny(subject, "\r\n") {
		return nil, apperrors.NewValidationError("subject", "subject must be a single line")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, apperrors.NewValidationError("message", "message is required")
	}

	recipients := validation.SplitRecipients(input.Recipients)
	if len(recipients) == 0 {
		return nil, apperrors.ErrNoRecipients
	}
	for _, r := range recipients {
		if !validation.IsEmail(r) {
			return nil, apperrors.NewValidationError("recipients", fmt.Sprintf("%q is not a valid email address", r))
		}
	}

	notification := &models.Notification{
		Subject:    subject,
		Message:    message,
		Recipients: strings.Join(recipients, ", "),
		SentAt:     s.now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(recipients, notification)
	}
	s.dispatchMail(ctx, notification.ID, recipients, subject, message)

	s.logger.Info().Int64("notificationID", notification.ID).Int("recipients", len(recipients)).Msg("Notification sent")
	return notification, nil
}

func (s *NotificationService) dispatchMail(ctx context.Context, id int64, recipients []string, subject, message string) {
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)

	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		defer cancel()

		if err := s.mailer.SendNotification(mailCtx, recipients, subject, message); err != nil {
			s.logger.Error().Err(err).Int64("notificationID", id).Int("recipients", len(recipients)).Msg("Failed to email notification")
		}
	}()
}

// WaitForMail blocks until every email started by Send has finished or
// ctx is done.
func (s *NotificationService) WaitForMail(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List returns the notification log, most recent first
func (s *NotificationService) List(ctx context.Context) ([]*models.Notification, error) {
	return s.notifications.List(ctx)
}
