package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
	"github.com/stripe/stripe-go/v75/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Backends      *stripe.Backends // nil uses the live API
}

// Stripe uses hosted Checkout in subscription mode. The product id sent by
// the pricing page is a Stripe price id.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(cfg StripeConfig) *Stripe {
	s := &Stripe{webhookSecret: cfg.WebhookSecret}
	if cfg.SecretKey != "" {
		s.api = client.New(cfg.SecretKey, cfg.Backends)
	}
	return s
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if s.api == nil {
		return nil, ErrNotConfigured
	}

	metadata := map[string]string{
		"user_id":      req.UserID,
		"plan":         req.Plan,
		"billingCycle": req.BillingCycle,
		"locale":       req.Locale,
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.ProductID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	if req.UserID != "" {
		params.ClientReferenceID = stripe.String(req.UserID)
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, &UpstreamError{StatusCode: stripeErr.HTTPStatusCode, Message: stripeErr.Msg, Details: stripeErr}
		}
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutSession{
		URL: sess.URL,
		ID:  sess.ID,
		Data: map[string]any{
			"id":     sess.ID,
			"url":    sess.URL,
			"status": sess.Status,
		},
	}, nil
}

func (s *Stripe) ParseWebhook(_ context.Context, payload []byte, header http.Header) (*Event, error) {
	if s.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		header.Get("Stripe-Signature"),
		s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	ev := &Event{
		ID:           event.ID,
		ProviderType: string(event.Type),
		Type:         EventUnknown,
		Payload:      payload,
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		ev.Type = EventCheckoutCompleted
		ev.UserID = firstNonEmpty(sess.Metadata["user_id"], sess.ClientReferenceID)
		ev.Plan = sess.Metadata["plan"]
		if sess.Subscription != nil {
			ev.SubscriptionID = sess.Subscription.ID
		}

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		ev.SubscriptionID = sub.ID
		ev.Status = string(sub.Status)
		ev.UserID = sub.Metadata["user_id"]
		ev.Plan = sub.Metadata["plan"]
		ev.PeriodStart = unixPtr(sub.CurrentPeriodStart)
		ev.PeriodEnd = unixPtr(sub.CurrentPeriodEnd)

		switch event.Type {
		case "customer.subscription.created":
			ev.Type = EventSubscriptionCreated
		case "customer.subscription.updated":
			ev.Type = EventSubscriptionUpdated
		default:
			ev.Type = EventSubscriptionCancelled
		}
	}
	return ev, nil
}

func unixPtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	return timePtr(time.Unix(sec, 0).UTC())
}
