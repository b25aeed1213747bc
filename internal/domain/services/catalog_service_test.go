package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type fakeAppRepo struct {
	apps     map[string]*models.App
	userApps map[string]*models.UserApp // keyed by appID, single test user
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{
		apps:     make(map[string]*models.App),
		userApps: make(map[string]*models.UserApp),
	}
}

func (f *fakeAppRepo) addApp(id, category string, active bool) {
	f.apps[id] = &models.App{ID: id, Category: category, IsActive: active}
}

func (f *fakeAppRepo) ListApps(_ context.Context, category string) ([]*models.App, error) {
	var out []*models.App
	for _, a := range f.apps {
		if category == "" || a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) GetApp(_ context.Context, id string) (*models.App, error) {
	if a, ok := f.apps[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrUserAppNotFound
}

func (f *fakeAppRepo) UpsertApp(_ context.Context, app *models.App) error {
	f.apps[app.ID] = app
	return nil
}

func (f *fakeAppRepo) GetUserApp(_ context.Context, _ int64, appID string) (*models.UserApp, error) {
	if ua, ok := f.userApps[appID]; ok {
		return ua, nil
	}
	return nil, repositories.ErrUserAppNotFound
}

func (f *fakeAppRepo) ListUserApps(context.Context, int64) ([]*models.UserApp, error) {
	var out []*models.UserApp
	for _, ua := range f.userApps {
		out = append(out, ua)
	}
	return out, nil
}

func (f *fakeAppRepo) CountUserApps(context.Context, int64) (int, error) {
	return len(f.userApps), nil
}

func (f *fakeAppRepo) CreateUserApp(_ context.Context, ua *models.UserApp) error {
	f.userApps[ua.AppID] = ua
	return nil
}

func (f *fakeAppRepo) SetFavorite(_ context.Context, _ int64, appID string, favorite bool) error {
	f.userApps[appID].IsFavorite = favorite
	return nil
}

func (f *fakeAppRepo) ListFavorites(context.Context, int64) ([]*models.App, error) {
	var out []*models.App
	for appID, ua := range f.userApps {
		if ua.IsFavorite {
			out = append(out, f.apps[appID])
		}
	}
	return out, nil
}

func basicUser() *models.User {
	return &models.User{ID: 1, Plan: models.PlanBasic, Cohort: models.CohortFull}
}

func TestPurchaseCreatesUserApp(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("seo-analyzer", "seo", true)
	svc := NewCatalogService(repo)

	ua, err := svc.Purchase(context.Background(), basicUser(), "seo-analyzer")
	require.NoError(t, err)
	assert.Equal(t, "seo-analyzer", ua.AppID)
	assert.Len(t, repo.userApps, 1)
}

func TestPurchaseIsIdempotent(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("seo-analyzer", "seo", true)
	svc := NewCatalogService(repo)
	user := basicUser()

	first, err := svc.Purchase(context.Background(), user, "seo-analyzer")
	require.NoError(t, err)

	second, err := svc.Purchase(context.Background(), user, "seo-analyzer")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, repo.userApps, 1)
}

func TestPurchaseUnknownOrInactiveApp(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("retired", "seo", false)
	svc := NewCatalogService(repo)

	_, err := svc.Purchase(context.Background(), basicUser(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.FromError(err).Kind)

	// Inactive apps are indistinguishable from missing ones.
	_, err = svc.Purchase(context.Background(), basicUser(), "retired")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.FromError(err).Kind)
}

func TestPurchaseEnforcesPlanQuota(t *testing.T) {
	repo := newFakeAppRepo()
	svc := NewCatalogService(repo)
	user := basicUser()

	quota := user.AppCap()
	for i := 0; i < quota+1; i++ {
		id := string(rune('a' + i))
		repo.addApp(id, "misc", true)
	}

	for i := 0; i < quota; i++ {
		_, err := svc.Purchase(context.Background(), user, string(rune('a'+i)))
		require.NoError(t, err)
	}

	_, err := svc.Purchase(context.Background(), user, string(rune('a'+quota)))
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.KindForbidden, appErr.Kind)
	assert.Equal(t, quota, appErr.Details["max"])
}

func TestToggleFavoriteFullRequiresPurchase(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("seo-analyzer", "seo", true)
	svc := NewCatalogService(repo)
	user := basicUser()

	_, err := svc.ToggleFavorite(context.Background(), user, "seo-analyzer", models.CohortFull)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.FromError(err).Kind)

	_, err = svc.Purchase(context.Background(), user, "seo-analyzer")
	require.NoError(t, err)

	ua, err := svc.ToggleFavorite(context.Background(), user, "seo-analyzer", models.CohortFull)
	require.NoError(t, err)
	assert.True(t, ua.IsFavorite)

	ua, err = svc.ToggleFavorite(context.Background(), user, "seo-analyzer", models.CohortFull)
	require.NoError(t, err)
	assert.False(t, ua.IsFavorite, "second toggle flips back")
}

func TestToggleFavoritePreviewAutoCreates(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("qr-generator", "generators", true)
	svc := NewCatalogService(repo)
	user := &models.User{ID: 1, Plan: models.PlanBasic, Cohort: models.CohortPreview}

	ua, err := svc.ToggleFavorite(context.Background(), user, "qr-generator", models.CohortPreview)
	require.NoError(t, err)
	assert.True(t, ua.IsFavorite, "preview favorite auto-creates the row favorited")
}

func TestGetAppDecoratesUserFlags(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("seo-analyzer", "seo", true)
	svc := NewCatalogService(repo)
	user := basicUser()

	anon, err := svc.GetApp(context.Background(), nil, "seo-analyzer")
	require.NoError(t, err)
	assert.False(t, anon.Purchased)

	_, err = svc.Purchase(context.Background(), user, "seo-analyzer")
	require.NoError(t, err)

	owned, err := svc.GetApp(context.Background(), user, "seo-analyzer")
	require.NoError(t, err)
	assert.True(t, owned.Purchased)
	assert.False(t, owned.IsFavorite)
}

func TestListFavoritesByCategory(t *testing.T) {
	repo := newFakeAppRepo()
	repo.addApp("seo-analyzer", "seo", true)
	repo.addApp("pagespeed", "seo", true)
	repo.addApp("qr-generator", "generators", true)
	svc := NewCatalogService(repo)
	user := &models.User{ID: 1, Plan: models.PlanBasic, Cohort: models.CohortPreview}

	for _, id := range []string{"seo-analyzer", "pagespeed", "qr-generator"} {
		_, err := svc.ToggleFavorite(context.Background(), user, id, models.CohortPreview)
		require.NoError(t, err)
	}

	grouped, err := svc.ListFavoritesByCategory(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, grouped["seo"], 2)
	assert.Len(t, grouped["generators"], 1)
}
