package billingapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/billing"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxWebhookBody = 65536

// WebhookHandler applies verified events to stored subscriptions.
type WebhookHandler interface {
	Handle(ctx context.Context, provider string, ev *billing.Event) (billing.Outcome, error)
}

type Handler struct {
	provider   billing.Provider
	reconciler WebhookHandler
	siteURL    string
	logger     zerolog.Logger
}

// NewHandler wires the handler. provider may be nil when billing is disabled.
func NewHandler(provider billing.Provider, reconciler WebhookHandler, siteURL string, logger zerolog.Logger) *Handler {
	return &Handler{provider: provider, reconciler: reconciler, siteURL: siteURL, logger: logger}
}

type checkoutRequest struct {
	ProductID    string `json:"productId"`
	BillingCycle string `json:"billingCycle" binding:"omitempty,oneof=monthly yearly"`
	Locale       string `json:"locale"`
}

// CreateCheckout handles POST /api/billing/checkout.
func (h *Handler) CreateCheckout(c *gin.Context) {
	var body checkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidRequest, middleware.Locale(c))})
		return
	}
	if l, ok := i18n.Parse(body.Locale); ok {
		middleware.SetLocale(c, l)
	}
	locale := middleware.Locale(c)

	if body.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgMissingProduct, locale)})
		return
	}
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgBillingUnavailable, locale)})
		return
	}

	cycle := body.BillingCycle
	if cycle == "" {
		cycle = plans.CycleMonthly
	}
	req := billing.CheckoutRequest{
		ProductID:    body.ProductID,
		BillingCycle: cycle,
		Plan:         plans.PlanForCycle(cycle),
		Locale:       string(locale),
		SuccessURL:   h.siteURL + i18n.AddLocale("/payment/success", locale),
		CancelURL:    h.siteURL + i18n.AddLocale("/payment/cancel", locale),
	}
	if claims := middleware.Claims(c); claims != nil {
		req.UserID = claims.UserID
		req.Email = claims.Email
	}

	session, err := h.provider.CreateCheckout(c.Request.Context(), req)
	if err != nil {
		h.checkoutError(c, err, locale)
		return
	}

	h.logger.Info().
		Str("provider", h.provider.Name()).
		Str("session_id", session.ID).
		Str("plan", req.Plan).
		Str("user_id", req.UserID).
		Msg("checkout session created")

	c.JSON(http.StatusOK, gin.H{
		"checkoutUrl": session.URL,
		"sessionId":   session.ID,
		"success":     true,
		"data":        session.Data,
	})
}

func (h *Handler) checkoutError(c *gin.Context, err error, locale i18n.Locale) {
	var upstream *billing.UpstreamError
	switch {
	case errors.Is(err, billing.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgBillingUnavailable, locale)})
	case errors.As(err, &upstream) && upstream.StatusCode == http.StatusForbidden:
		h.logger.Warn().Err(err).Msg("billing provider rejected credentials")
		c.JSON(http.StatusForbidden, gin.H{
			"error":   i18n.Message(i18n.MsgCheckoutForbidden, locale),
			"details": upstream.Details,
			"status":  upstream.StatusCode,
		})
	case errors.As(err, &upstream):
		h.logger.Error().Err(err).Msg("checkout failed upstream")
		c.JSON(upstreamStatus(upstream.StatusCode), gin.H{
			"error":   i18n.Message(i18n.MsgCheckoutFailed, locale),
			"details": upstream.Details,
			"status":  upstream.StatusCode,
		})
	default:
		h.logger.Error().Err(err).Msg("checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   i18n.Message(i18n.MsgCheckoutFailed, locale),
			"details": err.Error(),
		})
	}
}

func upstreamStatus(code int) int {
	if code < 400 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}

// Webhook handles POST /api/billing/webhook.
func (h *Handler) Webhook(c *gin.Context) {
	locale := middleware.Locale(c)
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgWebhookNotConfigured, locale)})
		return
	}

	payload, err := readWebhookBody(c, maxWebhookBody)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request body"})
		return
	}

	ev, err := h.provider.ParseWebhook(c.Request.Context(), payload, c.Request.Header)
	switch {
	case errors.Is(err, billing.ErrWebhookNotConfigured):
		h.logger.Error().Str("provider", h.provider.Name()).Msg("webhook secret not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgWebhookNotConfigured, locale)})
		return
	case errors.Is(err, billing.ErrInvalidSignature):
		h.logger.Warn().Str("provider", h.provider.Name()).Msg("webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	case err != nil:
		h.logger.Warn().Err(err).Str("provider", h.provider.Name()).Msg("malformed webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	outcome, err := h.reconciler.Handle(c.Request.Context(), h.provider.Name(), ev)
	if err != nil {
		// non-2xx makes the provider redeliver
		h.logger.Error().Err(err).Str("event_id", ev.ID).Str("type", ev.ProviderType).Msg("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	h.logger.Info().
		Str("provider", h.provider.Name()).
		Str("event_id", ev.ID).
		Str("type", ev.ProviderType).
		Str("outcome", string(outcome)).
		Msg("webhook handled")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func readWebhookBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
