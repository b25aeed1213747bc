package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type appRepository struct {
	db *PostgresDB
}

func NewAppRepository(db *PostgresDB) repositories.AppRepository {
	return &appRepository{db: db}
}

const appColumns = `id, title, description, icon_url, category, route, is_active, created_at, updated_at`

func (r *appRepository) ListApps(ctx context.Context, category string) ([]*models.App, error) {
	var apps []*models.App
	var err error
	if category != "" {
		query := `SELECT ` + appColumns + ` FROM apps WHERE is_active = true AND category = $1 ORDER BY title`
		err = r.db.SelectContext(ctx, &apps, query, category)
	} else {
		query := `SELECT ` + appColumns + ` FROM apps WHERE is_active = true ORDER BY category, title`
		err = r.db.SelectContext(ctx, &apps, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, nil
}

func (r *appRepository) GetApp(ctx context.Context, id string) (*models.App, error) {
	var app models.App
	query := `SELECT ` + appColumns + ` FROM apps WHERE id = $1`
	err := r.db.GetContext(ctx, &app, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("app %s not found", id)
		}
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	return &app, nil
}

func (r *appRepository) UpsertApp(ctx context.Context, app *models.App) error {
	query := `INSERT INTO apps (id, title, description, icon_url, category, route, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              ON CONFLICT (id) DO UPDATE SET
                  title = EXCLUDED.title,
                  description = EXCLUDED.description,
                  icon_url = EXCLUDED.icon_url,
                  category = EXCLUDED.category,
                  route = EXCLUDED.route,
                  is_active = EXCLUDED.is_active,
                  updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.Title, app.Description, app.IconURL, app.Category, app.Route, app.IsActive)
	if err != nil {
		return fmt.Errorf("failed to upsert app %s: %w", app.ID, err)
	}
	return nil
}

func (r *appRepository) GetUserApp(ctx context.Context, userID int64, appID string) (*models.UserApp, error) {
	var ua models.UserApp
	query := `SELECT id, user_id, app_id, is_favorite, purchased_at
              FROM user_apps WHERE user_id = $1 AND app_id = $2`
	err := r.db.GetContext(ctx, &ua, query, userID, appID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrUserAppNotFound
		}
		return nil, fmt.Errorf("failed to get user app: %w", err)
	}
	return &ua, nil
}

func (r *appRepository) ListUserApps(ctx context.Context, userID int64) ([]*models.UserApp, error) {
	var uas []*models.UserApp
	query := `SELECT id, user_id, app_id, is_favorite, purchased_at
              FROM user_apps WHERE user_id = $1 ORDER BY purchased_at DESC`
	if err := r.db.SelectContext(ctx, &uas, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user apps: %w", err)
	}
	return uas, nil
}

func (r *appRepository) CountUserApps(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_apps WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count user apps: %w", err)
	}
	return count, nil
}

func (r *appRepository) CreateUserApp(ctx context.Context, ua *models.UserApp) error {
	query := `INSERT INTO user_apps (user_id, app_id, is_favorite)
              VALUES ($1, $2, $3)
              RETURNING id, purchased_at`
	err := r.db.QueryRowContext(ctx, query, ua.UserID, ua.AppID, ua.IsFavorite).
		Scan(&ua.ID, &ua.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create user app: %w", err)
	}
	return nil
}

func (r *appRepository) SetFavorite(ctx context.Context, userID int64, appID string, favorite bool) error {
	query := `UPDATE user_apps SET is_favorite = $3 WHERE user_id = $1 AND app_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, appID, favorite)
	if err != nil {
		return fmt.Errorf("failed to set favorite: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrUserAppNotFound
	}
	return nil
}

func (r *appRepository) ListFavorites(ctx context.Context, userID int64) ([]*models.App, error) {
	var apps []*models.App
	query := `SELECT a.id, a.title, a.description, a.icon_url, a.category, a.route, a.is_active, a.created_at, a.updated_at
              FROM apps a
              JOIN user_apps ua ON ua.app_id = a.id
              WHERE ua.user_id = $1 AND ua.is_favorite = true
              ORDER BY a.category, a.title`
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return apps, nil
}
