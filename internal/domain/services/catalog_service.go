package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type CatalogService interface {
	ListApps(ctx context.Context, category string) ([]*models.App, error)
	GetApp(ctx context.Context, user *models.User, appID string) (*models.AppWithFlags, error)
	Purchase(ctx context.Context, user *models.User, appID string) (*models.UserApp, error)
	ToggleFavorite(ctx context.Context, user *models.User, appID string, cohort models.Cohort) (*models.UserApp, error)
	ListUserApps(ctx context.Context, userID int64) ([]*models.UserApp, error)
	ListFavoritesByCategory(ctx context.Context, userID int64) (map[string][]*models.App, error)
}

type catalogService struct {
	appRepo repositories.AppRepository
}

func NewCatalogService(appRepo repositories.AppRepository) CatalogService {
	return &catalogService{appRepo: appRepo}
}

func (s *catalogService) ListApps(ctx context.Context, category string) ([]*models.App, error) {
	return s.appRepo.ListApps(ctx, category)
}

func (s *catalogService) GetApp(ctx context.Context, user *models.User, appID string) (*models.AppWithFlags, error) {
	app, err := s.appRepo.GetApp(ctx, appID)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("app %s not found", appID))
	}

	result := &models.AppWithFlags{App: *app}
	if user != nil {
		ua, err := s.appRepo.GetUserApp(ctx, user.ID, appID)
		if err == nil {
			result.Purchased = true
			result.IsFavorite = ua.IsFavorite
		} else if !errors.Is(err, repositories.ErrUserAppNotFound) {
			return nil, err
		}
	}
	return result, nil
}

// Purchase is idempotent: a second call returns the existing row without
// touching the quota.
func (s *catalogService) Purchase(ctx context.Context, user *models.User, appID string) (*models.UserApp, error) {
	app, err := s.appRepo.GetApp(ctx, appID)
	if err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("app %s not found", appID))
	}
	if !app.IsActive {
		return nil, apperrors.NotFound(fmt.Sprintf("app %s not found", appID))
	}

	if existing, err := s.appRepo.GetUserApp(ctx, user.ID, appID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repositories.ErrUserAppNotFound) {
		return nil, err
	}

	count, err := s.appRepo.CountUserApps(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if count >= user.AppCap() {
		return nil, apperrors.Forbidden("plan quota reached").WithDetails(map[string]any{
			"plan": user.Plan,
			"max":  user.AppCap(),
		})
	}

	ua := &models.UserApp{UserID: user.ID, AppID: appID}
	if err := s.appRepo.CreateUserApp(ctx, ua); err != nil {
		return nil, err
	}
	return ua, nil
}

// ToggleFavorite flips the favorite flag. In the full cohort the app must
// be purchased first; in preview the row is auto-created.
func (s *catalogService) ToggleFavorite(ctx context.Context, user *models.User, appID string, cohort models.Cohort) (*models.UserApp, error) {
	if _, err := s.appRepo.GetApp(ctx, appID); err != nil {
		return nil, apperrors.NotFound(fmt.Sprintf("app %s not found", appID))
	}

	ua, err := s.appRepo.GetUserApp(ctx, user.ID, appID)
	if errors.Is(err, repositories.ErrUserAppNotFound) {
		if cohort == models.CohortFull {
			return nil, apperrors.Forbidden("app must be purchased before favoriting")
		}
		ua = &models.UserApp{UserID: user.ID, AppID: appID, IsFavorite: true}
		if err := s.appRepo.CreateUserApp(ctx, ua); err != nil {
			return nil, err
		}
		return ua, nil
	}
	if err != nil {
		return nil, err
	}

	ua.IsFavorite = !ua.IsFavorite
	if err := s.appRepo.SetFavorite(ctx, user.ID, appID, ua.IsFavorite); err != nil {
		return nil, err
	}
	return ua, nil
}

func (s *catalogService) ListUserApps(ctx context.Context, userID int64) ([]*models.UserApp, error) {
	return s.appRepo.ListUserApps(ctx, userID)
}

func (s *catalogService) ListFavoritesByCategory(ctx context.Context, userID int64) (map[string][]*models.App, error) {
	favorites, err := s.appRepo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*models.App)
	for _, app := range favorites {
		grouped[app.Category] = append(grouped[app.Category], app)
	}
	return grouped, nil
}
