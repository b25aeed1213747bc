package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/config"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/interfaces/http/handlers"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/interfaces/http/middleware"
)

const serverVersion = "1.4.0"

// healthChecker is satisfied by the postgres and redis wrappers.
type healthChecker interface {
	Health() error
}

// routerDeps carries everything the HTTP surface needs, built in main.
type routerDeps struct {
	cfg           *config.Config
	db            healthChecker
	cache         healthChecker
	auth          *handlers.AuthHandler
	catalog       *handlers.CatalogHandler
	credits       *handlers.CreditsHandler
	stats         *handlers.StatsHandler
	notifications *handlers.NotificationsHandler
	provider      *handlers.ProviderHandler
	jwtAuth       gin.HandlerFunc
	requireAdmin  gin.HandlerFunc
	rateLimit     gin.HandlerFunc
	versionGate   gin.HandlerFunc
	logger        *slog.Logger
}

func newRouter(deps routerDeps) *gin.Engine {
	cohort := models.Cohort(deps.cfg.Server.Cohort)
	hourlyLimit := deps.cfg.RateLimit.PreviewPerHour
	if cohort == models.CohortFull {
		hourlyLimit = deps.cfg.RateLimit.FullPerHour
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.cfg.Server.FrontendURL))
	router.Use(middleware.RequestLogger(deps.logger))

	router.GET("/health", func(c *gin.Context) {
		status := "online"
		dependencies := gin.H{}
		for name, dep := range map[string]healthChecker{"database": deps.db, "redis": deps.cache} {
			if dep == nil {
				continue
			}
			if err := dep.Health(); err != nil {
				status = "degraded"
				dependencies[name] = "down"
				continue
			}
			dependencies[name] = "up"
		}

		code := http.StatusOK
		if status != "online" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":       status,
			"version":      serverVersion,
			"time":         time.Now().UTC(),
			"dependencies": dependencies,
		})
	})

	api := router.Group("/api/:cohort")
	api.Use(deps.versionGate)

	api.GET("/version-info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"cohort":  cohort,
			"version": serverVersion,
			"features": gin.H{
				"auth_required":       cohort == models.CohortFull,
				"credits_enabled":     cohort == models.CohortFull,
				"purchases_enabled":   cohort == models.CohortFull,
				"rate_limit_per_hour": hourlyLimit,
			},
		})
	})

	// Account surface. Registration and login are public in both
	// cohorts; everything user-scoped sits behind the JWT gate.
	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.auth.Register)
		auth.POST("/login", deps.auth.Login)
		auth.POST("/refresh", deps.auth.Refresh)
		auth.POST("/forgot-password", deps.auth.ForgotPassword)
		auth.POST("/reset-password", deps.auth.ResetPassword)
		auth.GET("/google/url", deps.auth.GoogleURL)
		auth.GET("/google/callback", deps.auth.GoogleCallback)
		auth.GET("/me", deps.jwtAuth, deps.auth.Me)
		auth.POST("/change-password", deps.jwtAuth, deps.auth.ChangePassword)
	}

	// App catalog. Browsing is public; favorites and purchases are not.
	apps := api.Group("/apps")
	{
		apps.GET("", deps.catalog.List)
		apps.GET("/:app_id", deps.catalog.Detail)
		apps.GET("/user/list", deps.jwtAuth, deps.catalog.UserApps)
		apps.GET("/user/favorites", deps.jwtAuth, deps.catalog.UserFavorites)
		apps.POST("/:app_id/favorite", deps.jwtAuth, deps.catalog.ToggleFavorite)
		if cohort == models.CohortFull {
			apps.POST("/:app_id/purchase", deps.jwtAuth, deps.catalog.Purchase)
		}
	}

	if cohort == models.CohortFull {
		credits := api.Group("/credits")
		{
			credits.POST("/webhook", deps.credits.Webhook)
			credits.GET("/balance", deps.jwtAuth, deps.credits.Balance)
			credits.GET("/packs", deps.jwtAuth, deps.credits.Packs)
			credits.POST("/checkout", deps.jwtAuth, deps.credits.Checkout)
			credits.POST("/add", deps.jwtAuth, deps.requireAdmin, deps.credits.Add)
			credits.POST("/deduct", deps.jwtAuth, deps.credits.Deduct)
		}
	}

	statsGroup := api.Group("/stats", deps.jwtAuth)
	{
		statsGroup.GET("/dashboard", deps.stats.Dashboard)
		statsGroup.GET("/apps/:app_id", deps.stats.AppStats)
	}

	notif := api.Group("/notifications", deps.jwtAuth)
	{
		notif.GET("", deps.notifications.List)
		notif.GET("/unread", deps.notifications.Unread)
		notif.POST("/read", deps.notifications.MarkRead)
		notif.DELETE("/:id", deps.notifications.Delete)
		notif.DELETE("", deps.notifications.Clear)
	}

	// Provider surface. Preview cohorts meter by client IP with no
	// account; the full cohort authenticates and debits credits.
	tools := api.Group("")
	if cohort == models.CohortFull {
		tools.Use(deps.jwtAuth)
	}
	tools.Use(deps.rateLimit)

	registerProviderRoutes(tools, deps.provider)

	return router
}

// registerProviderRoutes binds every catalog operation. Paths stay in
// step with the usage attribution table in the providers package.
func registerProviderRoutes(g *gin.RouterGroup, h *handlers.ProviderHandler) {
	g.GET("/instagram/stats", h.InstagramStats)
	g.GET("/instagram/download", h.InstagramDownload)
	g.GET("/tiktok/stats", h.TikTokStats)
	g.GET("/youtube/stats", h.YouTubeStats)
	g.GET("/youtube/download", h.YouTubeDownload)
	g.GET("/twitter/stats", h.TwitterStats)

	g.GET("/seo/analyze", h.SEOAnalyze)
	g.GET("/seo/keywords", h.SEOKeywords)
	g.GET("/seo/backlinks", h.SEOBacklinks)
	g.GET("/seo/authority", h.DomainAuthority)
	g.GET("/seo/traffic", h.WebsiteTraffic)
	g.GET("/seo/pagespeed", h.PageSpeed)

	g.GET("/net/whois", h.Whois)
	g.GET("/net/ssl", h.SSLCheck)
	g.GET("/net/dns", h.DNSLookup)
	g.GET("/net/ip", h.IPGeolocation)
	g.GET("/net/email", h.EmailValidate)

	g.POST("/convert/image", h.ImageConvert)
	g.POST("/convert/background", h.BackgroundRemove)
	g.POST("/convert/upscale", h.ImageUpscale)
	g.POST("/convert/audio", h.AudioConvert)
	g.GET("/convert/screenshot", h.WebsiteScreenshot)

	g.POST("/ai/chat", h.AIChat)
	g.POST("/ai/image", h.AIImage)
	g.POST("/ai/tts", h.TextToSpeech)
	g.POST("/ai/transcribe", h.Transcribe)
	g.POST("/ai/summarize", h.Summarize)
	g.POST("/ai/translate", h.Translate)
	g.POST("/ai/grammar", h.GrammarCheck)

	g.POST("/generate/qr", h.QRGenerate)
	g.GET("/generate/barcode", h.BarcodeGenerate)
	g.GET("/tools/currency", h.CurrencyConvert)
}
