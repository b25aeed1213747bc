package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/pipeline"
)

// VersionGate rejects requests addressed to the cohort this deployment
// does not serve. The rest of the chain is cohort-agnostic.
func VersionGate(cohort models.Cohort, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := models.Cohort(c.Param("cohort"))
		if requested != cohort {
			pipeline.RespondError(c,
				apperrors.Forbidden("this deployment serves the "+string(cohort)+" cohort"), logger)
			return
		}
		c.Set(pipeline.ContextCohort, cohort)
		c.Next()
	}
}
