package subscriptions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]string{
		"":                   StatusActive,
		"active":             StatusActive,
		"ACTIVE":             StatusActive,
		"trialing":           StatusTrialing,
		"unpaid":             StatusPastDue,
		"canceled":           StatusCancelled,
		"cancelled":          StatusCancelled,
		"incomplete_expired": StatusExpired,
		"scheduled_cancel":   "scheduled_cancel",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeStatus(in), in)
	}
}
