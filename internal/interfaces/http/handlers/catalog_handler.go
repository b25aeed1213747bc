package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

type CatalogHandler struct {
	catalog services.CatalogService
	cohort  models.Cohort
	logger  *slog.Logger
}

func NewCatalogHandler(catalog services.CatalogService, cohort models.Cohort, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, cohort: cohort, logger: logger}
}

func (h *CatalogHandler) List(c *gin.Context) {
	apps, err := h.catalog.ListApps(c.Request.Context(), c.Query("category"))
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps})
}

func (h *CatalogHandler) Detail(c *gin.Context) {
	app, err := h.catalog.GetApp(c.Request.Context(), pipeline.CurrentUser(c), c.Param("app_id"))
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"app": app})
}

// Purchase is disabled in the preview cohort; the router never mounts it
// there, so reaching this handler implies the full cohort.
func (h *CatalogHandler) Purchase(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	ua, err := h.catalog.Purchase(c.Request.Context(), user, c.Param("app_id"))
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_app": ua})
}

func (h *CatalogHandler) ToggleFavorite(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	ua, err := h.catalog.ToggleFavorite(c.Request.Context(), user, c.Param("app_id"), h.cohort)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_app": ua})
}

func (h *CatalogHandler) UserApps(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	uas, err := h.catalog.ListUserApps(c.Request.Context(), user.ID)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_apps": uas})
}

func (h *CatalogHandler) UserFavorites(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	grouped, err := h.catalog.ListFavoritesByCategory(c.Request.Context(), user.ID)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": grouped})
}
