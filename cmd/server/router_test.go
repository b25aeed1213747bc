package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/config"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/interfaces/http/handlers"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

type captureCatalog struct {
	lastAppID string
}

func (f *captureCatalog) ListApps(context.Context, string) ([]*models.App, error) {
	return nil, nil
}

func (f *captureCatalog) GetApp(_ context.Context, _ *models.User, appID string) (*models.AppWithFlags, error) {
	f.lastAppID = appID
	return &models.AppWithFlags{}, nil
}

func (f *captureCatalog) Purchase(_ context.Context, _ *models.User, appID string) (*models.UserApp, error) {
	f.lastAppID = appID
	return &models.UserApp{}, nil
}

func (f *captureCatalog) ToggleFavorite(_ context.Context, _ *models.User, appID string, _ models.Cohort) (*models.UserApp, error) {
	f.lastAppID = appID
	return &models.UserApp{}, nil
}

func (f *captureCatalog) ListUserApps(context.Context, int64) ([]*models.UserApp, error) {
	return nil, nil
}

func (f *captureCatalog) ListFavoritesByCategory(context.Context, int64) (map[string][]*models.App, error) {
	return nil, nil
}

type captureStats struct {
	lastAppID string
}

func (f *captureStats) Dashboard(context.Context, *int64) (*services.Dashboard, error) {
	return &services.Dashboard{}, nil
}

func (f *captureStats) AppStats(_ context.Context, appID string, _ *int64) (*models.AppUsageStat, error) {
	f.lastAppID = appID
	return &models.AppUsageStat{AppID: appID}, nil
}

// newCatalogRouter wires the real route table around capturing fakes so
// the path parameter names are exercised exactly as production mounts them.
func newCatalogRouter(t *testing.T) (*gin.Engine, *captureCatalog, *captureStats) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := &captureCatalog{}
	stats := &captureStats{}

	passThrough := func(c *gin.Context) { c.Next() }
	fakeAuth := func(c *gin.Context) {
		c.Set(pipeline.ContextUser, &models.User{ID: 7, Role: models.RoleUser, IsActive: true})
		c.Next()
	}

	router := newRouter(routerDeps{
		cfg: &config.Config{
			Server:    config.ServerConfig{Cohort: "full", FrontendURL: "http://localhost:3000"},
			RateLimit: config.RateLimitConfig{PreviewPerHour: 50, FullPerHour: 200},
		},
		catalog:      handlers.NewCatalogHandler(catalog, models.CohortFull, logger),
		stats:        handlers.NewStatsHandler(stats, logger),
		jwtAuth:      fakeAuth,
		requireAdmin: passThrough,
		rateLimit:    passThrough,
		versionGate:  passThrough,
		logger:       logger,
	})
	return router, catalog, stats
}

func TestAppRoutesDeliverAppID(t *testing.T) {
	router, catalog, _ := newCatalogRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
	}{
		{"detail", http.MethodGet, "/api/full/apps/seo-analyzer"},
		{"purchase", http.MethodPost, "/api/full/apps/seo-analyzer/purchase"},
		{"favorite", http.MethodPost, "/api/full/apps/seo-analyzer/favorite"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			catalog.lastAppID = ""
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "seo-analyzer", catalog.lastAppID)
		})
	}
}

func TestHealthWithoutCheckers(t *testing.T) {
	router, _, _ := newCatalogRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"online"`)
}

func TestStatsAppRouteDeliversAppID(t *testing.T) {
	router, _, stats := newCatalogRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/full/stats/apps/whois-lookup", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "whois-lookup", stats.lastAppID)
}
