package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

type CreditsHandler struct {
	ledger   *services.CreditLedger
	payments services.PaymentService
	logger   *slog.Logger
}

func NewCreditsHandler(ledger *services.CreditLedger, payments services.PaymentService, logger *slog.Logger) *CreditsHandler {
	return &CreditsHandler{ledger: ledger, payments: payments, logger: logger}
}

func (h *CreditsHandler) Balance(c *gin.Context) {
	user := pipeline.CurrentUser(c)
	balance, err := h.ledger.Balance(c.Request.Context(), user.ID)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

type creditMutation struct {
	// UserID targets another account; admin only. Defaults to the caller.
	UserID *int64 `json:"user_id"`
	Amount int    `json:"amount" binding:"required"`
}

// Add grants credits. Targeting another user requires the admin role.
func (h *CreditsHandler) Add(c *gin.Context) {
	var req creditMutation
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("amount is required"), h.logger)
		return
	}

	caller := pipeline.CurrentUser(c)
	target := caller.ID
	if req.UserID != nil && *req.UserID != caller.ID {
		if !caller.IsAdmin() {
			pipeline.RespondError(c, apperrors.Forbidden("admin role required to credit other users"), h.logger)
			return
		}
		target = *req.UserID
	}

	balance, err := h.ledger.AddCredits(c.Request.Context(), target, req.Amount)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": target, "balance": balance})
}

// Deduct burns credits through a reserve+commit so the non-negative
// invariant and bookkeeping hold even for manual adjustments.
func (h *CreditsHandler) Deduct(c *gin.Context) {
	var req creditMutation
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("amount is required"), h.logger)
		return
	}

	caller := pipeline.CurrentUser(c)
	target := caller.ID
	if req.UserID != nil && *req.UserID != caller.ID {
		if !caller.IsAdmin() {
			pipeline.RespondError(c, apperrors.Forbidden("admin role required to debit other users"), h.logger)
			return
		}
		target = *req.UserID
	}

	reservation, err := h.ledger.Reserve(c.Request.Context(), target, req.Amount)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	if err := reservation.Commit(c.Request.Context()); err != nil {
		pipeline.RespondError(c, apperrors.Internal(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": target, "balance": reservation.Remaining})
}

func (h *CreditsHandler) Packs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packs": services.CreditPacks})
}

func (h *CreditsHandler) Checkout(c *gin.Context) {
	var req struct {
		PackID     string `json:"pack_id" binding:"required"`
		SuccessURL string `json:"success_url" binding:"required"`
		CancelURL  string `json:"cancel_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		pipeline.RespondError(c, apperrors.Validation("pack_id, success_url and cancel_url are required"), h.logger)
		return
	}

	user := pipeline.CurrentUser(c)
	url, sessionID, err := h.payments.CreateCheckoutSession(
		c.Request.Context(), user.ID, req.PackID, req.SuccessURL, req.CancelURL)
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout_url": url, "session_id": sessionID})
}

// Webhook is unauthenticated; the stripe signature is the credential.
func (h *CreditsHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		pipeline.RespondError(c, apperrors.Validation("failed to read body"), h.logger)
		return
	}

	err = h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		pipeline.RespondError(c, apperrors.FromError(err), h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
