package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type usageRepository struct {
	db *PostgresDB
}

func NewUsageRepository(db *PostgresDB) repositories.UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) InsertBatch(ctx context.Context, records []*models.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(records))
	args := make([]any, 0, len(records)*5)
	for i, rec := range records {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, rec.AppID, rec.UserID, rec.Endpoint, rec.StatusCode, rec.ResponseTimeMs)
	}

	query := `INSERT INTO api_usage (app_id, user_id, endpoint, status_code, response_time_ms) VALUES ` +
		strings.Join(valueStrings, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert usage batch: %w", err)
	}
	return nil
}

func (r *usageRepository) CountAll(ctx context.Context, userID *int64) (int64, error) {
	var count int64
	query, args := scoped(`SELECT COUNT(*) FROM api_usage`, userID, nil)
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count usage: %w", err)
	}
	return count, nil
}

func (r *usageRepository) StatsByApp(ctx context.Context, userID *int64) ([]*models.AppUsageStat, error) {
	var stats []*models.AppUsageStat
	query, args := scoped(`SELECT app_id,
              COUNT(*) AS calls,
              COALESCE(AVG(response_time_ms), 0) AS avg_response_ms,
              COUNT(*) FILTER (WHERE status_code >= 400) AS error_count,
              COALESCE(EXTRACT(EPOCH FROM MAX(created_at)), 0)::bigint AS last_called_unix
          FROM api_usage`, userID, nil)
	query += ` GROUP BY app_id ORDER BY calls DESC`
	if err := r.db.SelectContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get per-app stats: %w", err)
	}
	return stats, nil
}

func (r *usageRepository) StatsForApp(ctx context.Context, appID string, userID *int64) (*models.AppUsageStat, error) {
	var stat models.AppUsageStat
	query, args := scoped(`SELECT app_id,
              COUNT(*) AS calls,
              COALESCE(AVG(response_time_ms), 0) AS avg_response_ms,
              COUNT(*) FILTER (WHERE status_code >= 400) AS error_count,
              COALESCE(EXTRACT(EPOCH FROM MAX(created_at)), 0)::bigint AS last_called_unix
          FROM api_usage`, userID, &appID)
	query += ` GROUP BY app_id`
	err := r.db.GetContext(ctx, &stat, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.AppUsageStat{AppID: appID}, nil
		}
		return nil, fmt.Errorf("failed to get app stats: %w", err)
	}
	return &stat, nil
}

func (r *usageRepository) DailySeries(ctx context.Context, userID *int64, days int) ([]*models.DailyUsage, error) {
	var series []*models.DailyUsage
	query := `SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS day, COUNT(*) AS calls
              FROM api_usage
              WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')`
	args := []any{days}
	if userID != nil {
		query += ` AND user_id = $2`
		args = append(args, *userID)
	}
	query += ` GROUP BY created_at::date ORDER BY day`
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get daily series: %w", err)
	}
	return series, nil
}

// scoped appends WHERE clauses for the optional user and app filters.
func scoped(query string, userID *int64, appID *string) (string, []any) {
	var clauses []string
	var args []any
	if userID != nil {
		args = append(args, *userID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if appID != nil {
		args = append(args, *appID)
		clauses = append(clauses, fmt.Sprintf("app_id = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	return query, args
}
