package repositories

import (
	"context"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
)

type UsageRepository interface {
	// InsertBatch appends records; it never updates existing rows.
	InsertBatch(ctx context.Context, records []*models.UsageRecord) error

	CountAll(ctx context.Context, userID *int64) (int64, error)
	StatsByApp(ctx context.Context, userID *int64) ([]*models.AppUsageStat, error)
	StatsForApp(ctx context.Context, appID string, userID *int64) (*models.AppUsageStat, error)
	DailySeries(ctx context.Context, userID *int64, days int) ([]*models.DailyUsage, error)
}
