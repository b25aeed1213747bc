package repositories

import (
	"context"
	"errors"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
)

// ErrUserAppNotFound is returned when a user has no row for an app.
var ErrUserAppNotFound = errors.New("user app not found")

type AppRepository interface {
	ListApps(ctx context.Context, category string) ([]*models.App, error)
	GetApp(ctx context.Context, id string) (*models.App, error)
	UpsertApp(ctx context.Context, app *models.App) error

	GetUserApp(ctx context.Context, userID int64, appID string) (*models.UserApp, error)
	ListUserApps(ctx context.Context, userID int64) ([]*models.UserApp, error)
	CountUserApps(ctx context.Context, userID int64) (int, error)
	CreateUserApp(ctx context.Context, ua *models.UserApp) error
	SetFavorite(ctx context.Context, userID int64, appID string, favorite bool) error
	ListFavorites(ctx context.Context, userID int64) ([]*models.App, error)
}
