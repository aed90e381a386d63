package billingapi

import (
	"net/http"

	"github.com/redants-101/nano-banana-ai/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type planResponse struct {
	ID              string `json:"id"`
	Tier            string `json:"tier"`
	Popular         bool   `json:"popular"`
	CreditsLimit    int    `json:"credits_limit"`
	ProductID       string `json:"product_id,omitempty"`
	YearlyProductID string `json:"yearly_product_id,omitempty"`
}

// ListPlans handles GET /api/plans.
func ListPlans(catalog []plans.Plan) gin.HandlerFunc {
	out := make([]planResponse, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, planResponse{
			ID:              p.ID,
			Tier:            p.Tier,
			Popular:         p.Popular,
			CreditsLimit:    plans.CreditsLimit(p.Tier),
			ProductID:       p.ProductID,
			YearlyProductID: p.YearlyProductID,
		})
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"plans": out})
	}
}
