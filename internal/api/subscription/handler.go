package subscription

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/domain/subscriptions"
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type SubscriptionFinder interface {
	FindActiveByUser(ctx context.Context, userID string) (*subscriptions.Subscription, error)
}

type GenerationCounter interface {
	CountSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

type Handler struct {
	subs   SubscriptionFinder
	gens   GenerationCounter
	logger zerolog.Logger
	now    func() time.Time
}

func NewHandler(subs SubscriptionFinder, gens GenerationCounter, logger zerolog.Logger) *Handler {
	return &Handler{subs: subs, gens: gens, logger: logger, now: time.Now}
}

type statusResponse struct {
	Plan               string     `json:"plan"`
	Status             string     `json:"status"`
	CreditsUsed        int64      `json:"credits_used"`
	CreditsLimit       int        `json:"credits_limit"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	SubscriptionID     string     `json:"subscription_id,omitempty"`
}

var freeStatus = statusResponse{
	Plan:         plans.TierFree,
	Status:       subscriptions.StatusInactive,
	CreditsUsed:  0,
	CreditsLimit: plans.FreeCredits,
}

// Status handles GET /api/subscription/status. Anonymous callers and users
// without an active subscription get the free plan.
func (h *Handler) Status(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		c.JSON(http.StatusOK, freeStatus)
		return
	}

	sub, err := h.subs.FindActiveByUser(c.Request.Context(), userID)
	if errors.Is(err, subscriptions.ErrNotFound) {
		c.JSON(http.StatusOK, freeStatus)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	used, err := h.gens.CountSince(c.Request.Context(), userID, monthStart(h.now()))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		Plan:               sub.Plan,
		Status:             sub.Status,
		CreditsUsed:        used,
		CreditsLimit:       plans.CreditsLimit(sub.Plan),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		SubscriptionID:     sub.SubscriptionID,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.logger.Error().Err(err).Str("user_id", middleware.UserID(c)).Msg("subscription status")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   i18n.Message(i18n.MsgSubscriptionFailed, middleware.Locale(c)),
		"message": err.Error(),
	})
}

// monthStart is the first instant of t's calendar month, in UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
