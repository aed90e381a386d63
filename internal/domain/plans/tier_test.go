package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: TierFree},
		{in: "free", want: TierFree},
		{in: "pro", want: TierPro},
		{in: "pro_yearly", want: TierPro},
		{in: "PRO_MONTHLY", want: TierPro},
		{in: "enterprise", want: TierEnterprise},
		{in: "Enterprise_Yearly", want: TierEnterprise},
		{in: "legacy_plan", want: TierPro},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlanTier(tt.in), tt.in)
	}
}

func TestCreditsLimit(t *testing.T) {
	assert.Equal(t, 10, CreditsLimit("free"))
	assert.Equal(t, 500, CreditsLimit("pro_monthly"))
	assert.Equal(t, UnlimitedCredits, CreditsLimit("enterprise"))
}

func TestPlanForCycle(t *testing.T) {
	assert.Equal(t, PlanProYearly, PlanForCycle("yearly"))
	assert.Equal(t, PlanProMonthly, PlanForCycle("monthly"))
	assert.Equal(t, PlanProMonthly, PlanForCycle(""))
}

func TestProductFor(t *testing.T) {
	catalog := Catalog("prod_month", "prod_year")
	pro := catalog[1]
	assert.True(t, pro.Popular)
	assert.Equal(t, "prod_year", pro.ProductFor(CycleYearly))
	assert.Equal(t, "prod_month", pro.ProductFor(CycleMonthly))

	noYearly := Catalog("prod_month", "")[1]
	assert.Equal(t, "prod_month", noYearly.ProductFor(CycleYearly))
}
