package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

type StatsHandler struct {
	stats  services.StatsService
	logger *slog.Logger
}

func NewStatsHandler(stats services.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// scope limits stats to the caller unless they are an admin asking for
// the global view.
func (h *StatsHandler) scope(c *gin.Context) *int64 {
	user := pipeline.CurrentUser(c)
	if user == nil {
		return nil
	}
	if user.IsAdmin() && c.Query("scope") == "all" {
		return nil
	}
	id := user.ID
	return &id
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.stats.Dashboard(c.Request.Context(), h.scope(c))
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *StatsHandler) AppStats(c *gin.Context) {
	stat, err := h.stats.AppStats(c.Request.Context(), c.Param("app_id"), h.scope(c))
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, stat)
}
