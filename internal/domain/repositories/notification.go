package repositories

import (
	"context"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
	Delete(ctx context.Context, userID int64, id int64) error
	Clear(ctx context.Context, userID int64) error
}
