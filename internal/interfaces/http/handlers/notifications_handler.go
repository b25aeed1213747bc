package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

type NotificationsHandler struct {
	notifications services.NotificationService
	logger        *slog.Logger
}

func NewNotificationsHandler(notifications services.NotificationService, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, logger: logger}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	list, err := h.notifications.List(c.Request.Context(), user.ID)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationsHandler) Unread(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	list, err := h.notifications.Unread(c.Request.Context(), user.ID)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("ids is required"), h.logger)
		return
	}

	user := pipeline.CurrentUser(c)
	if err := h.notifications.MarkRead(c.Request.Context(), user.ID, req.IDs); err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *NotificationsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		pipeline.RespondError(c, apperrors.Validation("invalid notification id"), h.logger)
		return
	}

	user := pipeline.CurrentUser(c)
	if err := h.notifications.Delete(c.Request.Context(), user.ID, id); err != nil {
		pipeline.RespondError(c, apperrors.NotFound("notification not found"), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *NotificationsHandler) Clear(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	if err := h.notifications.Clear(c.Request.Context(), user.ID); err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cleared"})
}
