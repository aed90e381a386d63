package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, read from the process environment
// (and an optional .env file).
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	SiteURL    string `env:"SITE_URL" envDefault:"http://localhost:3000"`
	SiteName   string `env:"SITE_NAME" envDefault:"Nano Banana AI Image Editor"`
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	DBURL      string `env:"DB_URL,required"`
	JWTSecret  string `env:"JWT_SECRET,required"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	OpenRouterAPIKey  string        `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterModel   string        `env:"OPENROUTER_MODEL" envDefault:"google/gemini-2.5-flash-image-preview"`
	ModelTimeout      time.Duration `env:"MODEL_TIMEOUT" envDefault:"120s"`

	BillingProvider string `env:"BILLING_PROVIDER" envDefault:"creem"`

	CreemAPIKey             string `env:"CREEM_API_KEY"`
	CreemAPIBaseURL         string `env:"CREEM_API_BASE_URL" envDefault:"https://api.creem.io"`
	CreemWebhookSecret      string `env:"CREEM_WEBHOOK_SECRET"`
	CreemProProductID       string `env:"CREEM_PRO_PRODUCT_ID"`
	CreemProYearlyProductID string `env:"CREEM_PRO_YEARLY_PRODUCT_ID"`
	StripeSecretKey         string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret     string `env:"STRIPE_WEBHOOK_SECRET"`
	PaddleAPIKey            string `env:"PADDLE_API_KEY"`
	PaddleWebhookSecret     string `env:"PADDLE_WEBHOOK_SECRET"`
	PaddleEnvironment       string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`

	RedisURL          string `env:"REDIS_URL"`
	GenerateRateLimit int    `env:"GENERATE_RATE_LIMIT" envDefault:"20"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`

	GeoIPDBPath string `env:"GEOIP_DB_PATH"`
}

// LoadEnv reads .env (when present) and the environment. Missing required
// variables stop the process.
func LoadEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	cfg, err := Parse(nil)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	cfg.BillingProvider = strings.ToLower(strings.TrimSpace(cfg.BillingProvider))
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}
