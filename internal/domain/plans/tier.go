package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Stored plan names written by checkout metadata.
const (
	PlanProMonthly = "pro_monthly"
	PlanProYearly  = "pro_yearly"
)

// UnlimitedCredits marks a plan without a monthly generation cap.
const UnlimitedCredits = -1

const (
	FreeCredits = 10
	ProCredits  = 500
)

// PlanTier maps a stored plan name ("pro_yearly", "Enterprise", ...) to its tier.
// Anything unrecognised is treated as pro, since a row only exists after a paid checkout.
func PlanTier(plan string) string {
	p := strings.ToLower(strings.TrimSpace(plan))
	switch {
	case p == "" || p == TierFree:
		return TierFree
	case strings.HasPrefix(p, TierEnterprise):
		return TierEnterprise
	default:
		return TierPro
	}
}

// CreditsLimit returns the monthly generation allowance of a plan.
func CreditsLimit(plan string) int {
	switch PlanTier(plan) {
	case TierFree:
		return FreeCredits
	case TierEnterprise:
		return UnlimitedCredits
	default:
		return ProCredits
	}
}

// PlanForCycle is the plan name recorded for a checkout of the given cycle.
func PlanForCycle(cycle string) string {
	if strings.EqualFold(strings.TrimSpace(cycle), CycleYearly) {
		return PlanProYearly
	}
	return PlanProMonthly
}
