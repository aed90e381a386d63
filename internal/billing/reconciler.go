package billing

import (
	"context"
	"fmt"
	"time"

	billingmodel "github.com/redants-101/nano-banana-ai/internal/domain/billing"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/domain/subscriptions"

	"github.com/rs/zerolog"
)

// DefaultPeriod is used when a checkout event carries no billing period.
const DefaultPeriod = 30 * 24 * time.Hour

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
)

type SubscriptionStore interface {
	Upsert(ctx context.Context, sub *subscriptions.Subscription) error
	UpdateBySubscriptionID(ctx context.Context, subscriptionID string, fields map[string]any) (int64, error)
}

type EventStore interface {
	Record(ctx context.Context, ev *billingmodel.WebhookEvent) (bool, error)
	MarkProcessed(ctx context.Context, id uint, processingError string) error
}

// Reconciler turns verified webhook events into subscription rows.
type Reconciler struct {
	subs   SubscriptionStore
	events EventStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewReconciler wires the stores. events may be nil to skip deduplication.
func NewReconciler(subs SubscriptionStore, events EventStore, logger zerolog.Logger) *Reconciler {
	return &Reconciler{subs: subs, events: events, logger: logger, now: time.Now}
}

// Handle records the event, skips redeliveries and applies new events.
func (r *Reconciler) Handle(ctx context.Context, provider string, ev *Event) (Outcome, error) {
	if r.events == nil {
		return r.Apply(ctx, ev)
	}

	record := &billingmodel.WebhookEvent{
		Provider:    provider,
		EventID:     ev.ID,
		EventType:   ev.ProviderType,
		PayloadJSON: string(ev.Payload),
	}
	created, err := r.events.Record(ctx, record)
	if err != nil {
		return "", fmt.Errorf("record webhook event: %w", err)
	}
	if !created && record.ProcessedAt != nil && record.ProcessingError == "" {
		r.logger.Info().Str("provider", provider).Str("event_id", ev.ID).Msg("webhook event already processed")
		return OutcomeDuplicate, nil
	}

	outcome, applyErr := r.Apply(ctx, ev)
	procErr := ""
	if applyErr != nil {
		procErr = applyErr.Error()
	}
	if err := r.events.MarkProcessed(ctx, record.ID, procErr); err != nil {
		r.logger.Error().Err(err).Str("event_id", ev.ID).Msg("mark webhook event processed")
	}
	return outcome, applyErr
}

// Apply writes the subscription change an event describes.
func (r *Reconciler) Apply(ctx context.Context, ev *Event) (Outcome, error) {
	log := r.logger.With().
		Str("event_type", ev.ProviderType).
		Str("subscription_id", ev.SubscriptionID).
		Logger()

	switch ev.Type {
	case EventCheckoutCompleted:
		if !hasUser(ev.UserID) {
			log.Info().Msg("checkout completed without user id, ignoring")
			return OutcomeIgnored, nil
		}
		if err := r.subs.Upsert(ctx, r.activeSubscription(ev)); err != nil {
			return "", fmt.Errorf("upsert subscription: %w", err)
		}
		log.Info().Str("user_id", ev.UserID).Msg("subscription activated")
		return OutcomeApplied, nil

	case EventSubscriptionCreated:
		if ev.SubscriptionID != "" {
			n, err := r.subs.UpdateBySubscriptionID(ctx, ev.SubscriptionID, r.statusFields(ev, subscriptions.NormalizeStatus(ev.Status)))
			if err != nil {
				return "", fmt.Errorf("update subscription: %w", err)
			}
			if n > 0 {
				return OutcomeApplied, nil
			}
		}
		if !hasUser(ev.UserID) {
			log.Info().Msg("subscription created for unknown user, ignoring")
			return OutcomeIgnored, nil
		}
		sub := r.activeSubscription(ev)
		sub.Status = subscriptions.NormalizeStatus(ev.Status)
		if err := r.subs.Upsert(ctx, sub); err != nil {
			return "", fmt.Errorf("upsert subscription: %w", err)
		}
		return OutcomeApplied, nil

	case EventSubscriptionUpdated:
		return r.updateStatus(ctx, ev, subscriptions.NormalizeStatus(ev.Status))

	case EventSubscriptionCancelled:
		return r.updateStatus(ctx, ev, subscriptions.StatusCancelled)

	default:
		log.Info().Msg("unhandled webhook event type")
		return OutcomeIgnored, nil
	}
}

func (r *Reconciler) updateStatus(ctx context.Context, ev *Event, status string) (Outcome, error) {
	if ev.SubscriptionID == "" {
		return OutcomeIgnored, nil
	}
	n, err := r.subs.UpdateBySubscriptionID(ctx, ev.SubscriptionID, r.statusFields(ev, status))
	if err != nil {
		return "", fmt.Errorf("update subscription: %w", err)
	}
	if n == 0 {
		r.logger.Warn().Str("subscription_id", ev.SubscriptionID).Msg("no subscription row for event")
		return OutcomeIgnored, nil
	}
	return OutcomeApplied, nil
}

func (r *Reconciler) statusFields(ev *Event, status string) map[string]any {
	fields := map[string]any{"status": status}
	if ev.PeriodStart != nil {
		fields["current_period_start"] = *ev.PeriodStart
	}
	if ev.PeriodEnd != nil {
		fields["current_period_end"] = *ev.PeriodEnd
	}
	return fields
}

func (r *Reconciler) activeSubscription(ev *Event) *subscriptions.Subscription {
	start := r.now().UTC()
	end := start.Add(DefaultPeriod)
	if ev.PeriodEnd != nil {
		end = *ev.PeriodEnd
	}
	plan := ev.Plan
	if plan == "" {
		plan = plans.TierPro
	}
	return &subscriptions.Subscription{
		UserID:             ev.UserID,
		Plan:               plan,
		Status:             subscriptions.StatusActive,
		SubscriptionID:     ev.SubscriptionID,
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
	}
}

func hasUser(id string) bool {
	return id != "" && id != "anonymous"
}
