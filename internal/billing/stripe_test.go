package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

func signedStripeHeader(t *testing.T, payload []byte, secret string) http.Header {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	h := http.Header{}
	h.Set("Stripe-Signature", signed.Header)
	return h
}

func TestStripeParseWebhook(t *testing.T) {
	s := NewStripe(StripeConfig{WebhookSecret: "whsec_test"})

	t.Run("checkout completed", func(t *testing.T) {
		payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","client_reference_id":"u1","subscription":"sub_1","metadata":{"plan":"pro_monthly"}}}}`)
		ev, err := s.ParseWebhook(context.Background(), payload, signedStripeHeader(t, payload, "whsec_test"))
		require.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, EventCheckoutCompleted, ev.Type)
		assert.Equal(t, "u1", ev.UserID)
		assert.Equal(t, "pro_monthly", ev.Plan)
		assert.Equal(t, "sub_1", ev.SubscriptionID)
	})

	t.Run("subscription deleted", func(t *testing.T) {
		payload := []byte(`{"id":"evt_2","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1","object":"subscription","status":"canceled","current_period_start":1735689600,"current_period_end":1738368000,"metadata":{"user_id":"u1"}}}}`)
		ev, err := s.ParseWebhook(context.Background(), payload, signedStripeHeader(t, payload, "whsec_test"))
		require.NoError(t, err)
		assert.Equal(t, EventSubscriptionCancelled, ev.Type)
		assert.Equal(t, "sub_1", ev.SubscriptionID)
		assert.Equal(t, "canceled", ev.Status)
		require.NotNil(t, ev.PeriodEnd)
		assert.Equal(t, int64(1738368000), ev.PeriodEnd.Unix())
	})

	t.Run("subscription updated", func(t *testing.T) {
		payload := []byte(`{"id":"evt_3","object":"event","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","object":"subscription","status":"past_due"}}}`)
		ev, err := s.ParseWebhook(context.Background(), payload, signedStripeHeader(t, payload, "whsec_test"))
		require.NoError(t, err)
		assert.Equal(t, EventSubscriptionUpdated, ev.Type)
		assert.Equal(t, "past_due", ev.Status)
		assert.Nil(t, ev.PeriodStart)
	})

	t.Run("unhandled type", func(t *testing.T) {
		payload := []byte(`{"id":"evt_4","object":"event","type":"invoice.paid","data":{"object":{}}}`)
		ev, err := s.ParseWebhook(context.Background(), payload, signedStripeHeader(t, payload, "whsec_test"))
		require.NoError(t, err)
		assert.Equal(t, EventUnknown, ev.Type)
	})

	t.Run("wrong secret", func(t *testing.T) {
		payload := []byte(`{"id":"evt_5","object":"event","type":"invoice.paid","data":{"object":{}}}`)
		_, err := s.ParseWebhook(context.Background(), payload, signedStripeHeader(t, payload, "whsec_other"))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewStripe(StripeConfig{}).ParseWebhook(context.Background(), []byte(`{}`), http.Header{})
		assert.ErrorIs(t, err, ErrWebhookNotConfigured)
	})
}

func TestStripeCreateCheckout(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","status":"open"}`))
	}))
	defer srv.Close()

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	s := NewStripe(StripeConfig{
		SecretKey: "sk_test_123",
		Backends:  &stripe.Backends{API: backend, Connect: backend, Uploads: backend},
	})

	sess, err := s.CreateCheckout(context.Background(), CheckoutRequest{
		ProductID:    "price_123",
		BillingCycle: "monthly",
		Plan:         "pro_monthly",
		UserID:       "u1",
		SuccessURL:   "https://nano-banana.ai/en/payment/success",
		CancelURL:    "https://nano-banana.ai/en/pricing",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)

	assert.Equal(t, []string{"subscription"}, form["mode"])
	assert.Equal(t, []string{"price_123"}, form["line_items[0][price]"])
	assert.Equal(t, []string{"u1"}, form["client_reference_id"])
	assert.Equal(t, []string{"pro_monthly"}, form["metadata[plan]"])
	assert.Equal(t, []string{"u1"}, form["subscription_data[metadata][user_id]"])
}

func TestStripeCheckoutNotConfigured(t *testing.T) {
	_, err := NewStripe(StripeConfig{}).CreateCheckout(context.Background(), CheckoutRequest{ProductID: "p"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
