package subscriptions

import "strings"

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusTrialing  = "trialing"
	StatusPastDue   = "past_due"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
	StatusPaused    = "paused"
)

// NormalizeStatus folds the spellings used by the different billing providers
// into one vocabulary. Unknown values are kept (lower-cased) rather than lost.
func NormalizeStatus(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "":
		return StatusActive
	case "active", "paid":
		return StatusActive
	case "trialing", "trial":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "cancelled", "deleted":
		return StatusCancelled
	case "incomplete_expired", "expired":
		return StatusExpired
	case "paused":
		return StatusPaused
	default:
		return v
	}
}
