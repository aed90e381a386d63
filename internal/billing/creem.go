package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type CreemConfig struct {
	APIKey        string
	BaseURL       string
	WebhookSecret string
	HTTPClient    *http.Client
}

// Creem talks to the Creem REST API directly; there is no Go SDK.
type Creem struct {
	apiKey        string
	baseURL       string
	webhookSecret string
	httpClient    *http.Client
	now           func() time.Time
}

func NewCreem(cfg CreemConfig) *Creem {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.creem.io"
	}
	return &Creem{
		apiKey:        cfg.APIKey,
		baseURL:       baseURL,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    httpClient,
		now:           time.Now,
	}
}

func (c *Creem) Name() string { return "creem" }

type creemCheckout struct {
	ProductID  string            `json:"product_id"`
	Units      int               `json:"units"`
	SuccessURL string            `json:"success_url"`
	Customer   *creemCustomer    `json:"customer,omitempty"`
	Metadata   map[string]string `json:"metadata"`
}

type creemCustomer struct {
	Email string `json:"email"`
}

func (c *Creem) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body := creemCheckout{
		ProductID:  req.ProductID,
		Units:      1,
		SuccessURL: req.SuccessURL,
		Metadata: map[string]string{
			"plan":         req.Plan,
			"billingCycle": req.BillingCycle,
			"timestamp":    c.now().UTC().Format(time.RFC3339),
			"locale":       req.Locale,
			"cancelUrl":    req.CancelURL,
			"user_id":      req.UserID,
		},
	}
	if req.Email != "" {
		body.Customer = &creemCustomer{Email: req.Email}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("creem: encode checkout: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkouts", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("creem: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("creem: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("creem: read response: %w", err)
	}

	var data map[string]any
	decodeErr := json.Unmarshal(respBody, &data)

	if resp.StatusCode >= 300 {
		var details any = data
		if decodeErr != nil {
			details = map[string]any{"message": strings.TrimSpace(string(respBody))}
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "checkout request rejected", Details: details}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("creem: decode response: %w", decodeErr)
	}

	url := firstNonEmpty(stringValue(data, "checkout_url"), stringValue(data, "url"), stringValue(data, "payment_url"))
	if url == "" {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: "no checkout URL returned", Details: data}
	}

	return &CheckoutSession{
		URL:  url,
		ID:   firstNonEmpty(stringValue(data, "id"), stringValue(data, "checkout_id")),
		Data: data,
	}, nil
}

type creemEnvelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	EventType string          `json:"event_type"`
	CamelType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
	Object    json.RawMessage `json:"object"`
}

type creemObject struct {
	ID                     string          `json:"id"`
	Status                 string          `json:"status"`
	SubscriptionID         string          `json:"subscription_id"`
	Subscription           json.RawMessage `json:"subscription"`
	Metadata               map[string]any  `json:"metadata"`
	CurrentPeriodStartDate string          `json:"current_period_start_date"`
	CurrentPeriodEndDate   string          `json:"current_period_end_date"`
}

// ParseWebhook checks the hex HMAC-SHA256 of the body and decodes the event.
func (c *Creem) ParseWebhook(_ context.Context, payload []byte, header http.Header) (*Event, error) {
	if c.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}
	signature := firstNonEmpty(header.Get("creem-signature"), header.Get("x-creem-signature"))
	if !validHMAC(payload, signature, c.webhookSecret) {
		return nil, ErrInvalidSignature
	}
	return parseCreemEvent(payload)
}

func parseCreemEvent(payload []byte) (*Event, error) {
	var env creemEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	rawObj := env.Data
	if len(rawObj) == 0 || string(rawObj) == "null" {
		rawObj = env.Object
	}
	var obj creemObject
	if len(rawObj) > 0 && string(rawObj) != "null" {
		if err := json.Unmarshal(rawObj, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	}

	providerType := firstNonEmpty(env.Type, env.EventType, env.CamelType)
	ev := &Event{
		ID:           env.ID,
		Type:         creemEventType(providerType),
		ProviderType: providerType,
		UserID:       stringValue(obj.Metadata, "user_id"),
		Plan:         stringValue(obj.Metadata, "plan"),
		Status:       obj.Status,
		PeriodStart:  parseTime(obj.CurrentPeriodStartDate),
		PeriodEnd:    parseTime(obj.CurrentPeriodEndDate),
		Payload:      payload,
	}
	if ev.ID == "" {
		ev.ID = payloadID(payload)
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		ev.SubscriptionID = firstNonEmpty(obj.SubscriptionID, nestedID(obj.Subscription))
		ev.Status = ""
	default:
		ev.SubscriptionID = obj.ID
	}
	return ev, nil
}

func creemEventType(t string) EventType {
	switch t {
	case "checkout.session.completed", "checkout.completed":
		return EventCheckoutCompleted
	case "subscription.created":
		return EventSubscriptionCreated
	case "subscription.updated", "subscription.active", "subscription.paid":
		return EventSubscriptionUpdated
	case "subscription.cancelled", "subscription.canceled", "subscription.deleted", "subscription.expired":
		return EventSubscriptionCancelled
	default:
		return EventUnknown
	}
}

func validHMAC(payload []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// nestedID accepts either "sub_123" or {"id": "sub_123"}.
func nestedID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
