package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

type AuthHandler struct {
	authService  services.AuthService
	oauthService services.OAuthService
	logger       *slog.Logger
}

func NewAuthHandler(authService services.AuthService, oauthService services.OAuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, oauthService: oauthService, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("email, password and name are required"), h.logger)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("email and password are required"), h.logger)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("refresh_token is required"), h.logger)
		return
	}

	access, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	profile, err := h.authService.Me(c.Request.Context(), user.ID)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("current_password and new_password are required"), h.logger)
		return
	}

	user := pipeline.CurrentUser(c)
	if err := h.authService.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// ForgotPassword deliberately answers the same way for known and unknown
// addresses.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("a valid email is required"), h.logger)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "if the address exists, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("token and new_password are required"), h.logger)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (h *AuthHandler) GoogleURL(c *gin.Context) {
	state := uuid.New().String()
	c.JSON(http.StatusOK, gin.H{
		"url":   h.oauthService.AuthURL(state),
		"state": state,
	})
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		pipeline.RespondError(c, apperrors.Validation("code is required"), h.logger)
		return
	}

	resp, err := h.oauthService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, resp)
}
