package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/hostelhub/internal/app/models"
)

// NotificationRepository is the append-only notification log
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db, sb: statementBuilder()}
}

// Create appends a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	sql, args, err := r.sb.Insert("notifications").
		Columns("subject", "message", "recipients", "sent_at").
		Values(n.Subject, n.Message, n.Recipients, n.SentAt).
		Suffix("RETURNING notification_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n.ID); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// List returns every notification, most recent first
func (r *NotificationRepository) List(ctx context.Context) ([]*models.Notification, error) {
	sql, args, err := r.sb.Select("notification_id", "subject", "message", "recipients", "sent_at").
		From("notifications").
		OrderBy("sent_at DESC", "notification_id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.Subject, &n.Message, &n.Recipients, &n.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
