package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redants-101/nano-banana-ai/config"
)

var (
	ErrNotConfigured        = errors.New("billing: provider not configured")
	ErrWebhookNotConfigured = errors.New("billing: webhook secret not configured")
	ErrInvalidSignature     = errors.New("billing: invalid webhook signature")
	ErrMalformedEvent       = errors.New("billing: malformed webhook event")
)

// UpstreamError is a failed call to the provider API. Details carries the
// provider's decoded error body when there is one.
type UpstreamError struct {
	StatusCode int
	Message    string
	Details    any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("billing: upstream status %d: %s", e.StatusCode, e.Message)
}

// EventType is the provider-independent kind of a webhook event.
type EventType string

const (
	EventCheckoutCompleted     EventType = "checkout.completed"
	EventSubscriptionCreated   EventType = "subscription.created"
	EventSubscriptionUpdated   EventType = "subscription.updated"
	EventSubscriptionCancelled EventType = "subscription.cancelled"
	EventUnknown               EventType = "unknown"
)

// Event is a verified webhook notification reduced to what the subscription
// table needs.
type Event struct {
	ID             string
	Type           EventType
	ProviderType   string
	UserID         string
	Plan           string
	SubscriptionID string
	Status         string
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	Payload        []byte
}

type CheckoutRequest struct {
	ProductID    string
	BillingCycle string
	Plan         string
	Locale       string
	UserID       string
	Email        string
	SuccessURL   string
	CancelURL    string
}

type CheckoutSession struct {
	URL  string
	ID   string
	Data map[string]any
}

// Provider is a hosted checkout plus its webhook format.
type Provider interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(ctx context.Context, payload []byte, header http.Header) (*Event, error)
}

// NewProvider builds the provider selected by BILLING_PROVIDER.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.BillingProvider {
	case "creem", "":
		return NewCreem(CreemConfig{
			APIKey:        cfg.CreemAPIKey,
			BaseURL:       cfg.CreemAPIBaseURL,
			WebhookSecret: cfg.CreemWebhookSecret,
		}), nil
	case "stripe":
		return NewStripe(StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
		}), nil
	case "paddle":
		return NewPaddle(PaddleConfig{
			APIKey:        cfg.PaddleAPIKey,
			WebhookSecret: cfg.PaddleWebhookSecret,
			Environment:   cfg.PaddleEnvironment,
		})
	default:
		return nil, fmt.Errorf("billing: unknown provider %q", cfg.BillingProvider)
	}
}

// payloadID identifies events whose provider sends no event id.
func payloadID(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
