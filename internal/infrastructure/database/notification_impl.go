package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type notificationRepository struct {
	db *PostgresDB
}

func NewNotificationRepository(db *PostgresDB) repositories.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (user_id, type, title, message, category, link)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Message, n.Category, n.Link).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	var notifications []*models.Notification
	query := `SELECT id, user_id, type, title, message, category, is_read, link, created_at
              FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	query := `UPDATE notifications SET is_read = true WHERE user_id = $1 AND id = ANY($2)`
	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, userID int64, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification %d not found", id)
	}
	return nil
}

func (r *notificationRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
