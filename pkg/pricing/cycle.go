package pricing

import (
	"strings"

	"github.com/jordanlanch/landing/pkg/domain"
)

// BillingCycle is the payment period of a subscription.
type BillingCycle string

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

// BillingCycles lists the supported cycles in display order.
var BillingCycles = []BillingCycle{Monthly, Yearly}

// Valid reports whether c is one of the supported cycles.
func (c BillingCycle) Valid() bool {
	return c == Monthly || c == Yearly
}

// Periods is the number of months billed at once.
func (c BillingCycle) Periods() int {
	if c == Yearly {
		return 12
	}
	return 1
}

// ParseBillingCycle parses a cycle name, case-insensitively.
func ParseBillingCycle(s string) (BillingCycle, error) {
	c := BillingCycle(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", domain.NewValidationError("billing_cycle must be monthly or yearly")
	}
	return c, nil
}
