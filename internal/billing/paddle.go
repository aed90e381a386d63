package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

type PaddleConfig struct {
	APIKey        string
	WebhookSecret string
	Environment   string // production or sandbox
}

// Paddle creates a transaction whose checkout URL hosts Paddle.js. The
// product id is a Paddle price id.
type Paddle struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

func NewPaddle(cfg PaddleConfig) (*Paddle, error) {
	p := &Paddle{}
	if cfg.APIKey != "" {
		var err error
		switch strings.ToLower(cfg.Environment) {
		case "sandbox":
			p.client, err = paddle.NewSandbox(cfg.APIKey)
		case "production", "":
			p.client, err = paddle.New(cfg.APIKey)
		default:
			return nil, fmt.Errorf("paddle: invalid environment %q", cfg.Environment)
		}
		if err != nil {
			return nil, fmt.Errorf("paddle: create client: %w", err)
		}
	}
	if cfg.WebhookSecret != "" {
		p.verifier = paddle.NewWebhookVerifier(cfg.WebhookSecret)
	}
	return p, nil
}

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if p.client == nil {
		return nil, ErrNotConfigured
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.ProductID,
		Quantity: 1,
	})
	txReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"user_id":      req.UserID,
			"plan":         req.Plan,
			"billingCycle": req.BillingCycle,
			"locale":       req.Locale,
		},
	}
	if req.SuccessURL != "" {
		txReq.Checkout = &paddle.TransactionCheckout{URL: paddle.PtrTo(req.SuccessURL)}
	}

	tx, err := p.client.TransactionsClient.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Message: err.Error()}
	}
	if tx.Checkout == nil || tx.Checkout.URL == nil || *tx.Checkout.URL == "" {
		return nil, &UpstreamError{StatusCode: http.StatusInternalServerError, Message: "no checkout URL returned"}
	}

	return &CheckoutSession{
		URL: *tx.Checkout.URL,
		ID:  tx.ID,
		Data: map[string]any{
			"id":     tx.ID,
			"status": string(tx.Status),
		},
	}, nil
}

func (p *Paddle) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (*Event, error) {
	if p.verifier == nil {
		return nil, ErrWebhookNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/api/billing/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("paddle: build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", header.Get("Paddle-Signature"))

	ok, err := p.verifier.Verify(req)
	if err != nil || !ok {
		return nil, ErrInvalidSignature
	}
	return parsePaddleEvent(payload)
}

type paddleNotification struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Data      struct {
		ID             string         `json:"id"`
		Status         string         `json:"status"`
		SubscriptionID string         `json:"subscription_id"`
		CustomData     map[string]any `json:"custom_data"`
		BillingPeriod  *paddlePeriod  `json:"billing_period"`
		CurrentPeriod  *paddlePeriod  `json:"current_billing_period"`
	} `json:"data"`
}

type paddlePeriod struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func parsePaddleEvent(payload []byte) (*Event, error) {
	var n paddleNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	ev := &Event{
		ID:           n.EventID,
		ProviderType: n.EventType,
		Type:         paddleEventType(n.EventType),
		UserID:       stringValue(n.Data.CustomData, "user_id"),
		Plan:         stringValue(n.Data.CustomData, "plan"),
		Payload:      payload,
	}
	if ev.ID == "" {
		ev.ID = payloadID(payload)
	}

	period := n.Data.CurrentPeriod
	if period == nil {
		period = n.Data.BillingPeriod
	}
	if period != nil {
		ev.PeriodStart = timePtr(period.StartsAt)
		ev.PeriodEnd = timePtr(period.EndsAt)
	}

	if strings.HasPrefix(n.EventType, "transaction.") {
		ev.SubscriptionID = n.Data.SubscriptionID
	} else {
		ev.SubscriptionID = n.Data.ID
		ev.Status = n.Data.Status
	}
	return ev, nil
}

func paddleEventType(t string) EventType {
	switch t {
	case "transaction.completed":
		return EventCheckoutCompleted
	case "subscription.created", "subscription.activated":
		return EventSubscriptionCreated
	case "subscription.updated", "subscription.resumed", "subscription.past_due", "subscription.paused":
		return EventSubscriptionUpdated
	case "subscription.canceled":
		return EventSubscriptionCancelled
	default:
		return EventUnknown
	}
}
