package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

// JWTAuth verifies the bearer access token and attaches the fresh user
// row. Claims carry only the id; role and balance always come from the
// database so a stale token can never elevate anyone.
func JWTAuth(jwtService services.JWTService, userRepo repositories.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			pipeline.RespondError(c, apperrors.AuthInvalid("authorization required"), logger)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			pipeline.RespondError(c, apperrors.AuthInvalid("invalid authorization header format"), logger)
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1], services.TokenAccess)
		if err != nil {
			pipeline.RespondError(c, apperrors.AuthInvalid("invalid or expired token"), logger)
			return
		}

		user, err := userRepo.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			pipeline.RespondError(c, apperrors.AuthInvalid("invalid or expired token"), logger)
			return
		}

		c.Set(pipeline.ContextUser, user)
		c.Next()
	}
}

// RequireAdmin gates admin surfaces. Must run after JWTAuth.
func RequireAdmin(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := pipeline.CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			pipeline.RespondError(c, apperrors.Forbidden("admin role required"), logger)
			return
		}
		c.Next()
	}
}
