package health

import (
	"net/http"
	"time"

	"github.com/redants-101/nano-banana-ai/config"

	"github.com/gin-gonic/gin"
)

const serviceName = "nano-banana-ai"

type Handler struct {
	cfg     *config.Config
	version string
	now     func() time.Time
}

func NewHandler(cfg *config.Config, version string) *Handler {
	return &Handler{cfg: cfg, version: version, now: time.Now}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HealthCheck handles GET /api/health-check.
func (h *Handler) HealthCheck(c *gin.Context) {
	d := config.Diagnose(h.cfg)

	status := http.StatusOK
	if d.Status == config.DiagnosticsError {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":      d.Status,
		"service":     serviceName,
		"version":     h.version,
		"environment": h.cfg.AppEnv,
		"timestamp":   h.now().UTC().Format(time.RFC3339),
		"diagnostics": d,
		"config": gin.H{
			"siteUrl":         h.cfg.SiteURL,
			"siteName":        h.cfg.SiteName,
			"model":           h.cfg.OpenRouterModel,
			"apiKey":          config.MaskSecret(h.cfg.OpenRouterAPIKey, 10),
			"billingProvider": h.cfg.BillingProvider,
			"storage":         storageMode(h.cfg),
			"rateLimit":       h.cfg.RedisURL != "",
			"geoip":           h.cfg.GeoIPDBPath != "",
		},
		"recommendations": recommendations(d),
	})
}

// CheckEnv handles GET /api/check-env.
func (h *Handler) CheckEnv(c *gin.Context) {
	groups := config.EnvGroups(h.cfg)

	var configured, required, requiredMissing, total int
	for _, g := range groups {
		for _, e := range g.Entries {
			total++
			if e.Configured {
				configured++
			}
			if e.Required {
				required++
				if !e.Configured {
					requiredMissing++
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"environment": h.cfg.AppEnv,
		"summary": gin.H{
			"total":           total,
			"configured":      configured,
			"required":        required,
			"requiredMissing": requiredMissing,
			"optional":        total - required,
			"ready":           requiredMissing == 0,
		},
		"groups": groups,
	})
}

func storageMode(cfg *config.Config) string {
	if cfg.S3Enabled() {
		return "s3"
	}
	return "inline"
}

func recommendations(d config.Diagnostics) []string {
	out := []string{}
	if d.Status == config.DiagnosticsOK {
		return out
	}
	if len(d.Errors) > 0 {
		out = append(out, "Set the missing variables and restart the service")
	}
	if len(d.Warnings) > 0 {
		out = append(out, "Review the warnings before deploying to production")
	}
	return out
}
