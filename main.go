package main

import (
	"context"
	"time"

	"github.com/redants-101/nano-banana-ai/config"
	"github.com/redants-101/nano-banana-ai/database"
	authapi "github.com/redants-101/nano-banana-ai/internal/api/auth"
	billingapi "github.com/redants-101/nano-banana-ai/internal/api/billing"
	"github.com/redants-101/nano-banana-ai/internal/api/generate"
	"github.com/redants-101/nano-banana-ai/internal/api/health"
	siteapi "github.com/redants-101/nano-banana-ai/internal/api/site"
	"github.com/redants-101/nano-banana-ai/internal/api/subscription"
	"github.com/redants-101/nano-banana-ai/internal/api/uploads"
	routes "github.com/redants-101/nano-banana-ai/internal/app/http"
	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/auth"
	"github.com/redants-101/nano-banana-ai/internal/billing"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/i18n"
	"github.com/redants-101/nano-banana-ai/internal/imagegen"
	"github.com/redants-101/nano-banana-ai/internal/infra"
	"github.com/redants-101/nano-banana-ai/internal/infra/geoip"
	"github.com/redants-101/nano-banana-ai/internal/infra/ratelimit"
	"github.com/redants-101/nano-banana-ai/internal/infra/storage"
	"github.com/redants-101/nano-banana-ai/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.LoadEnv()
	logger := infra.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DBURL, cfg.IsProduction())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}

	if err := middleware.RegisterValidators(); err != nil {
		logger.Fatal().Err(err).Msg("register validators")
	}

	translations, err := i18n.LoadTranslations()
	if err != nil {
		logger.Fatal().Err(err).Msg("load translations")
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()
	detector := middleware.DetectLocale{Detector: i18n.NewDetector(geo)}

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	genRepo := repository.NewGenerationRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	sessions := auth.NewSessions(cfg.JWTSecret, auth.DefaultSessionTTL)
	catalog := plans.Catalog(cfg.CreemProProductID, cfg.CreemProYearlyProductID)

	var provider billing.Provider
	if p, err := billing.NewProvider(cfg); err != nil {
		logger.Error().Err(err).Msg("billing disabled")
	} else {
		provider = p
	}

	deps := routes.Deps{
		Sessions: sessions,
		Locale:   detector,
		Logger:   logger,
		Catalog:  catalog,
		Auth: authapi.NewHandler(authapi.Options{
			Providers:    oauthProviders(ctx, cfg, logger),
			Users:        userRepo,
			Sessions:     sessions,
			SecureCookie: cfg.IsProduction(),
			Logger:       logger,
		}),
		Billing: billingapi.NewHandler(provider, billing.NewReconciler(subRepo, eventRepo, logger), cfg.SiteURL, logger),
		Generate: generate.NewHandler(imagegen.NewClient(imagegen.Options{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Model:    cfg.OpenRouterModel,
			SiteURL:  cfg.SiteURL,
			SiteName: cfg.SiteName,
			Timeout:  cfg.ModelTimeout,
			Logger:   &logger,
		}), genRepo, logger),
		Health:       health.NewHandler(cfg, version),
		Subscription: subscription.NewHandler(subRepo, genRepo, logger),
		Uploads:      uploads.NewHandler(uploadStore(ctx, cfg, logger), logger),
	}

	deps.Site, err = siteapi.NewHandler(siteapi.Options{
		SiteURL:      cfg.SiteURL,
		SiteName:     cfg.SiteName,
		Catalog:      catalog,
		Translations: translations,
		Detector:     detector,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("load page templates")
	}

	if cfg.RedisURL != "" {
		limiter, err := ratelimit.NewRedisLimiter(ctx, cfg.RedisURL, cfg.GenerateRateLimit, time.Minute)
		if err != nil {
			logger.Warn().Err(err).Msg("rate limiting disabled")
		} else {
			defer limiter.Close()
			deps.Limiter = limiter
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Locale", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, deps)

	logger.Info().Str("port", cfg.Port).Str("billing", cfg.BillingProvider).Str("version", version).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func oauthProviders(ctx context.Context, cfg *config.Config, logger zerolog.Logger) auth.Providers {
	providers := auth.Providers{}
	if cfg.GitHubClientID != "" {
		providers[auth.ProviderGitHub] = auth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.SiteURL+"/api/auth/callback/"+auth.ProviderGitHub)
	}
	if cfg.GoogleClientID != "" {
		g, err := auth.NewGoogle(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.SiteURL+"/api/auth/callback/"+auth.ProviderGoogle)
		if err != nil {
			logger.Error().Err(err).Msg("google sign-in disabled")
		} else {
			providers[auth.ProviderGoogle] = g
		}
	}
	return providers
}

func uploadStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) uploads.Store {
	if !cfg.S3Enabled() {
		return storage.DataURLStore{}
	}
	s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:      cfg.S3Bucket,
		Region:      cfg.S3Region,
		Endpoint:    cfg.S3Endpoint,
		AccessKeyID: cfg.S3AccessKeyID,
		SecretKey:   cfg.S3SecretAccessKey,
		BaseURL:     cfg.S3PublicBaseURL,
	}, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("s3 storage disabled, falling back to data URLs")
		return storage.DataURLStore{}
	}
	return s3Store
}
