package routes

import (
	authapi "github.com/redants-101/nano-banana-ai/internal/api/auth"
	billingapi "github.com/redants-101/nano-banana-ai/internal/api/billing"
	"github.com/redants-101/nano-banana-ai/internal/api/generate"
	"github.com/redants-101/nano-banana-ai/internal/api/health"
	siteapi "github.com/redants-101/nano-banana-ai/internal/api/site"
	"github.com/redants-101/nano-banana-ai/internal/api/subscription"
	"github.com/redants-101/nano-banana-ai/internal/api/uploads"
	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps holds every handler the router mounts.
type Deps struct {
	Sessions     middleware.SessionParser
	Locale       middleware.LocaleDetector
	Limiter      middleware.Limiter // nil disables rate limiting
	Logger       zerolog.Logger
	Catalog      []plans.Plan
	Auth         *authapi.Handler
	Billing      *billingapi.Handler
	Generate     *generate.Handler
	Health       *health.Handler
	Site         *siteapi.Handler
	Subscription *subscription.Handler
	Uploads      *uploads.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.LocaleMiddleware(d.Locale), middleware.Session(d.Sessions))

	r.GET("/health", d.Health.Health)

	// Webhooks need the raw body for signature checks.
	r.POST("/api/billing/webhook", d.Billing.Webhook)

	api := r.Group("/api")
	api.GET("/health-check", d.Health.HealthCheck)
	api.GET("/check-env", d.Health.CheckEnv)
	api.GET("/plans", billingapi.ListPlans(d.Catalog))
	api.GET("/subscription/status", d.Subscription.Status)

	public := api.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware("imageUrl", "redirectTo", "productId"))

	public.POST("/auth/login", d.Auth.Login)
	public.POST("/auth/logout", d.Auth.Logout)
	public.POST("/billing/checkout", d.Billing.CreateCheckout)

	// Prompts go to the model verbatim and are never rendered as HTML.
	generateRoutes := api.Group("/")
	uploadRoutes := api.Group("/")
	if d.Limiter != nil {
		generateRoutes.Use(middleware.RateLimit(d.Limiter, "generate", d.Logger))
		uploadRoutes.Use(middleware.RateLimit(d.Limiter, "upload", d.Logger))
	}
	generateRoutes.POST("/generate-image", d.Generate.GenerateImage)
	uploadRoutes.POST("/uploads", d.Uploads.Upload)

	api.GET("/auth/callback/:provider", d.Auth.Callback)

	// Authenticated
	auth := api.Group("/")
	auth.Use(middleware.RequireSession())
	auth.GET("/auth/me", d.Auth.Me)

	d.Site.Register(r)
	r.NoRoute(d.Site.NotFound)
}
