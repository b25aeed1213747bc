package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/services"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/queue"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/providers"
)

// Context keys set by the gate middleware and read by Execute.
const (
	ContextUser   = "pipeline_user"
	ContextCohort = "pipeline_cohort"
)

// Pipeline walks every provider request through the same stages:
// version gate, auth, rate limit, credit reserve, dispatch, usage record,
// settle, respond. Handlers reduce to parsing input and picking a key.
type Pipeline struct {
	cohort        models.Cohort
	registry      *providers.Registry
	dispatcher    *providers.Dispatcher
	ledger        *services.CreditLedger
	usage         *queue.UsageQueue
	notifications services.NotificationService
	logger        *slog.Logger
}

func New(
	cohort models.Cohort,
	registry *providers.Registry,
	dispatcher *providers.Dispatcher,
	ledger *services.CreditLedger,
	usage *queue.UsageQueue,
	notifications services.NotificationService,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		cohort:        cohort,
		registry:      registry,
		dispatcher:    dispatcher,
		ledger:        ledger,
		usage:         usage,
		notifications: notifications,
		logger:        logger,
	}
}

func (p *Pipeline) Cohort() models.Cohort { return p.cohort }

// CurrentUser reads the authenticated user placed by the auth middleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// Execute runs the metered stages for one provider call. Auth and rate
// limiting already happened in middleware; from here credits are
// reserved before dispatch, usage is recorded regardless of outcome,
// and the reservation settles before the response goes out.
func (p *Pipeline) Execute(c *gin.Context, key string, params map[string]string, payload map[string]any, file *providers.File) {
	spec, err := p.registry.Get(key)
	if err != nil {
		p.respondError(c, apperrors.Internal(err))
		return
	}

	user := CurrentUser(c)
	cost := spec.ResolveCost(params, payload)

	// Reserve strictly precedes dispatch. Preview never debits.
	var reservation *services.Reservation
	if p.cohort == models.CohortFull && user != nil {
		reservation, err = p.ledger.Reserve(c.Request.Context(), user.ID, cost)
		if err != nil {
			p.respondError(c, apperrors.FromError(err))
			return
		}
	}

	start := time.Now()
	envelope, dispatchErr := p.dispatcher.Dispatch(c.Request.Context(), &providers.Request{
		Spec:    spec,
		Params:  params,
		Payload: payload,
		File:    file,
	})
	elapsed := time.Since(start)

	status := http.StatusOK
	if dispatchErr != nil {
		status = apperrors.FromError(dispatchErr).Status
	}
	// Attribution goes by route path; paths outside the provider surface
	// map to no app and are not recorded.
	p.record(providers.AppIDForPath(c.Request.URL.Path), user, c, status, elapsed)

	// Settlement must not be lost to a client disconnect, so it runs on a
	// context detached from the request's cancellation.
	settleCtx := context.WithoutCancel(c.Request.Context())

	if dispatchErr != nil {
		// The upstream delivered nothing usable, whatever the kind of
		// failure; the balance goes back immediately.
		if reservation != nil {
			reservation.Refund(settleCtx)
		}
		p.respondError(c, apperrors.FromError(dispatchErr))
		return
	}

	// Settle before the response is serialized. A client disconnect after
	// this point changes nothing: the upstream was paid for.
	deducted, remaining := 0, 0
	if reservation != nil {
		if err := reservation.Commit(settleCtx); err != nil {
			p.logger.Error("commit failed after successful dispatch",
				"reservation_id", reservation.ID, "error", err)
		}
		deducted, remaining = reservation.Amount, reservation.Remaining
		p.notifications.NotifyLowCredits(settleCtx, user.ID, remaining)
	}

	p.respond(c, envelope, reservation != nil, deducted, remaining)
}

func (p *Pipeline) record(appID string, user *models.User, c *gin.Context, status int, elapsed time.Duration) {
	if appID == "" {
		return
	}
	rec := &models.UsageRecord{
		AppID:          appID,
		Endpoint:       c.Request.Method + " " + c.Request.URL.Path,
		StatusCode:     status,
		ResponseTimeMs: elapsed.Milliseconds(),
	}
	if user != nil {
		id := user.ID
		rec.UserID = &id
	}
	p.usage.Enqueue(rec)
}

// respond shapes the envelope: JSON bodies carry credits_info in the full
// cohort; binary bodies surface the same two values in headers.
func (p *Pipeline) respond(c *gin.Context, envelope *providers.Envelope, metered bool, deducted, remaining int) {
	if envelope.IsBinary() {
		if metered {
			c.Header("X-Credits-Deducted", strconv.Itoa(deducted))
			c.Header("X-Credits-Remaining", strconv.Itoa(remaining))
		}
		disposition := "attachment"
		if envelope.Filename != "" {
			disposition = `attachment; filename="` + envelope.Filename + `"`
		}
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, envelope.ContentType, envelope.Body)
		return
	}

	body := make(map[string]any, len(envelope.JSON)+2)
	for k, v := range envelope.JSON {
		body[k] = v
	}
	if envelope.Provider == "fallback" {
		body["provider"] = "fallback"
	}
	if metered {
		body["credits_info"] = gin.H{"deducted": deducted, "remaining": remaining}
	}
	c.JSON(http.StatusOK, body)
}

func (p *Pipeline) respondError(c *gin.Context, appErr *apperrors.Error) {
	RespondError(c, appErr, p.logger)
}

// RespondError writes the {error, details?, status_code} envelope. Internal
// causes are logged with a trace id, never echoed to the client.
func RespondError(c *gin.Context, appErr *apperrors.Error, logger *slog.Logger) {
	if appErr.Kind == apperrors.KindInternal && logger != nil {
		logger.Error("internal error",
			"path", c.Request.URL.Path, "error", appErr.Err)
	}

	body := gin.H{
		"error":       appErr.Message,
		"status_code": appErr.Status,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.Status, body)
}
