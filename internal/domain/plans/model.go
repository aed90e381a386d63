package plans

// Plan is a purchasable offer shown on the pricing page. Prices are display
// strings; the billing provider owns the real amounts.
type Plan struct {
	ID              string
	Tier            string
	Popular         bool
	ProductID       string
	YearlyProductID string
}

// Catalog lists the pricing page offers in display order. Product IDs come
// from configuration because they differ per billing account.
func Catalog(monthlyProductID, yearlyProductID string) []Plan {
	return []Plan{
		{ID: TierFree, Tier: TierFree},
		{ID: TierPro, Tier: TierPro, Popular: true, ProductID: monthlyProductID, YearlyProductID: yearlyProductID},
		{ID: TierEnterprise, Tier: TierEnterprise},
	}
}

// ProductFor picks the product for a billing cycle, falling back to the
// monthly product when no yearly product exists.
func (p Plan) ProductFor(cycle string) string {
	if cycle == CycleYearly && p.YearlyProductID != "" {
		return p.YearlyProductID
	}
	return p.ProductID
}
