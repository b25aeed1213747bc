// Command seed loads the app catalog and a demo admin account into the
// database. Safe to re-run: catalog rows upsert and the admin is only
// created once.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/config"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/infrastructure/database"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/providers"
)

type seedApp struct {
	id, title, description, category, route string
}

var catalog = []seedApp{
	{"instagram-stats", "Instagram Stats", "Profile and audience metrics for any public Instagram account", "social", "/instagram/stats"},
	{"instagram-downloader", "Instagram Downloader", "Download media from Instagram posts", "social", "/instagram/download"},
	{"tiktok-stats", "TikTok Stats", "Creator statistics for TikTok accounts", "social", "/tiktok/stats"},
	{"youtube-stats", "YouTube Stats", "Channel statistics and metadata", "social", "/youtube/stats"},
	{"youtube-downloader", "YouTube Downloader", "Fetch download links for YouTube videos", "social", "/youtube/download"},
	{"twitter-stats", "Twitter Stats", "Account metrics for X/Twitter handles", "social", "/twitter/stats"},

	{"seo-analyzer", "SEO Analyzer", "On-page SEO audit for any URL", "seo", "/seo/analyze"},
	{"seo-keywords", "Keyword Research", "Search volume and difficulty for keywords", "seo", "/seo/keywords"},
	{"seo-backlinks", "Backlink Checker", "Backlink profile for a domain", "seo", "/seo/backlinks"},
	{"domain-authority", "Domain Authority", "DA/PA scores for a domain", "seo", "/seo/authority"},
	{"website-traffic", "Website Traffic", "Traffic estimates and engagement metrics", "seo", "/seo/traffic"},
	{"pagespeed", "PageSpeed", "Core web vitals and performance audit", "seo", "/seo/pagespeed"},

	{"whois-lookup", "WHOIS Lookup", "Registration records for a domain", "network", "/net/whois"},
	{"ssl-checker", "SSL Checker", "Certificate chain and expiry inspection", "network", "/net/ssl"},
	{"dns-lookup", "DNS Lookup", "Resolve DNS records by type", "network", "/net/dns"},
	{"ip-geolocation", "IP Geolocation", "Location and network data for an IP", "network", "/net/ip"},
	{"email-validator", "Email Validator", "Deliverability checks for an address", "network", "/net/email"},

	{"image-converter", "Image Converter", "Convert images between formats", "converters", "/convert/image"},
	{"background-remover", "Background Remover", "Cut the background out of an image", "converters", "/convert/background"},
	{"image-upscaler", "Image Upscaler", "AI upscaling for low-resolution images", "converters", "/convert/upscale"},
	{"audio-converter", "Audio Converter", "Convert audio between formats", "converters", "/convert/audio"},
	{"website-screenshot", "Website Screenshot", "Capture a rendered page as an image", "converters", "/convert/screenshot"},

	{"ai-assistant", "AI Assistant", "Chat completions across model tiers", "ai", "/ai/chat"},
	{"ai-image-generator", "AI Image Generator", "Generate images from a text prompt", "ai", "/ai/image"},
	{"text-to-speech", "Text to Speech", "Synthesize speech from text", "ai", "/ai/tts"},
	{"transcription", "Transcription", "Speech-to-text for uploaded audio", "ai", "/ai/transcribe"},
	{"text-summarizer", "Text Summarizer", "Condense long text into key sentences", "ai", "/ai/summarize"},
	{"translator", "Translator", "Translate text between languages", "ai", "/ai/translate"},
	{"grammar-checker", "Grammar Checker", "Spot and fix grammar mistakes", "ai", "/ai/grammar"},

	{"qr-generator", "QR Generator", "QR codes for links, text and wifi", "generators", "/generate/qr"},
	{"barcode-generator", "Barcode Generator", "Barcodes in common symbologies", "generators", "/generate/barcode"},
	{"currency-converter", "Currency Converter", "Live exchange rate conversion", "generators", "/tools/currency"},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations("migrations"); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	appRepo := database.NewAppRepository(db)
	seeded := make(map[string]bool, len(catalog))
	for _, a := range catalog {
		seeded[a.id] = true
		app := &models.App{
			ID:          a.id,
			Title:       a.title,
			Description: a.description,
			Category:    a.category,
			Route:       a.route,
			IsActive:    true,
		}
		if err := appRepo.UpsertApp(ctx, app); err != nil {
			logger.Error("catalog upsert failed", "app", a.id, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("catalog seeded", "apps", len(catalog))

	// Every registered provider operation needs a catalog row or its usage
	// never surfaces in the dashboard.
	registry := providers.NewRegistry(cfg.Providers.APIKey, cfg.Providers.HostOverrides)
	for _, key := range registry.Keys() {
		spec, err := registry.Get(key)
		if err != nil {
			continue
		}
		if !seeded[spec.AppID] {
			logger.Warn("provider operation has no catalog entry", "key", key, "app", spec.AppID)
		}
	}

	if err := seedAdmin(ctx, db, logger); err != nil {
		logger.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
}

func seedAdmin(ctx context.Context, db *database.PostgresDB, logger *slog.Logger) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Info("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping admin")
		return nil
	}

	userRepo := database.NewUserRepository(db)
	if _, err := userRepo.GetUserByEmail(ctx, email); err == nil {
		logger.Info("admin already exists", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Administrator",
		Role:     models.RoleAdmin,
		Cohort:   models.CohortFull,
		Plan:     models.PlanPremium,
		Credits:  1000,
		IsActive: true,
	}
	if err := userRepo.CreateUser(ctx, admin); err != nil {
		return err
	}

	logger.Info("admin created", "email", email, "id", admin.ID)
	return nil
}
