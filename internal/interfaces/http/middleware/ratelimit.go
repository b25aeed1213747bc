package middleware

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

// RateLimit checks the sliding window before any reservation happens.
// Identifier is the user id in the full cohort, the client IP in preview.
func RateLimit(limiter *services.RateLimiter, cohort models.Cohort, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if user := pipeline.CurrentUser(c); user != nil {
			identifier = strconv.FormatInt(user.ID, 10)
		}

		decision := limiter.Check(c.Request.Context(), cohort, identifier)
		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			pipeline.RespondError(c, apperrors.RateLimited(decision.Limit, 3600), logger)
			return
		}
		c.Next()
	}
}
