package config

import "strings"

const (
	DiagnosticsOK      = "ok"
	DiagnosticsWarning = "warning"
	DiagnosticsError   = "error"
)

// Diagnostics summarizes configuration problems for the health endpoints.
type Diagnostics struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// EnvEntry describes one environment variable without leaking its value.
type EnvEntry struct {
	Key        string `json:"key"`
	Configured bool   `json:"configured"`
	Required   bool   `json:"required"`
	Preview    string `json:"preview"`
}

// EnvGroup is a named set of related variables (site, auth, billing, ai...).
type EnvGroup struct {
	Name    string     `json:"name"`
	Entries []EnvEntry `json:"entries"`
}

// Diagnose checks the values the product cannot work without, and the ones
// that are commonly wrong in production.
func Diagnose(c *Config) Diagnostics {
	d := Diagnostics{Status: DiagnosticsOK, Warnings: []string{}, Errors: []string{}}

	if c.OpenRouterAPIKey == "" {
		d.Status = DiagnosticsError
		d.Errors = append(d.Errors, "OPENROUTER_API_KEY is not configured")
	}

	switch {
	case c.SiteURL == "":
		d.Warnings = append(d.Warnings, "SITE_URL is not configured, using default")
	case strings.Contains(c.SiteURL, "localhost") && c.IsProduction():
		if d.Status == DiagnosticsOK {
			d.Status = DiagnosticsWarning
		}
		d.Warnings = append(d.Warnings, "SITE_URL is set to localhost in production environment")
	}

	if c.GoogleClientID == "" && c.GitHubClientID == "" {
		d.Warnings = append(d.Warnings, "no OAuth provider is configured, sign-in is disabled")
	}

	if c.BillingWebhookSecret() == "" {
		d.Warnings = append(d.Warnings, "webhook secret for billing provider "+c.BillingProvider+" is not configured")
	}

	return d
}

// BillingAPIKey returns the credential of the selected billing provider.
func (c *Config) BillingAPIKey() string {
	switch c.BillingProvider {
	case "stripe":
		return c.StripeSecretKey
	case "paddle":
		return c.PaddleAPIKey
	default:
		return c.CreemAPIKey
	}
}

// BillingWebhookSecret returns the webhook secret of the selected billing provider.
func (c *Config) BillingWebhookSecret() string {
	switch c.BillingProvider {
	case "stripe":
		return c.StripeWebhookSecret
	case "paddle":
		return c.PaddleWebhookSecret
	default:
		return c.CreemWebhookSecret
	}
}

// EnvGroups lists every variable the service reads, grouped for display.
func EnvGroups(c *Config) []EnvGroup {
	return []EnvGroup{
		{Name: "basic", Entries: []EnvEntry{
			plain("SITE_URL", c.SiteURL, true),
			plain("SITE_NAME", c.SiteName, false),
			plain("APP_ENV", c.AppEnv, false),
		}},
		{Name: "database", Entries: []EnvEntry{
			secret("DB_URL", c.DBURL, true),
			secret("JWT_SECRET", c.JWTSecret, true),
		}},
		{Name: "auth", Entries: []EnvEntry{
			plain("GOOGLE_CLIENT_ID", c.GoogleClientID, false),
			secret("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret, false),
			plain("GITHUB_CLIENT_ID", c.GitHubClientID, false),
			secret("GITHUB_CLIENT_SECRET", c.GitHubClientSecret, false),
		}},
		{Name: "billing", Entries: []EnvEntry{
			plain("BILLING_PROVIDER", c.BillingProvider, true),
			secret("BILLING_API_KEY", c.BillingAPIKey(), false),
			secret("BILLING_WEBHOOK_SECRET", c.BillingWebhookSecret(), false),
			plain("CREEM_PRO_PRODUCT_ID", c.CreemProProductID, false),
			plain("CREEM_PRO_YEARLY_PRODUCT_ID", c.CreemProYearlyProductID, false),
		}},
		{Name: "ai", Entries: []EnvEntry{
			masked("OPENROUTER_API_KEY", c.OpenRouterAPIKey, true),
			plain("OPENROUTER_MODEL", c.OpenRouterModel, false),
		}},
		{Name: "infra", Entries: []EnvEntry{
			masked("REDIS_URL", c.RedisURL, false),
			plain("S3_BUCKET", c.S3Bucket, false),
			plain("GEOIP_DB_PATH", c.GeoIPDBPath, false),
		}},
	}
}

// MaskSecret keeps the first n characters of a secret.
func MaskSecret(v string, n int) string {
	if v == "" {
		return "NOT_SET"
	}
	if len(v) <= n {
		return strings.Repeat("*", len(v))
	}
	return v[:n] + "..."
}

func plain(key, v string, required bool) EnvEntry {
	preview := v
	if preview == "" {
		preview = "NOT_SET"
	}
	return EnvEntry{Key: key, Configured: v != "", Required: required, Preview: preview}
}

func masked(key, v string, required bool) EnvEntry {
	return EnvEntry{Key: key, Configured: v != "", Required: required, Preview: MaskSecret(v, 10)}
}

func secret(key, v string, required bool) EnvEntry {
	preview := "NOT_SET"
	if v != "" {
		preview = "***"
	}
	return EnvEntry{Key: key, Configured: v != "", Required: required, Preview: preview}
}
