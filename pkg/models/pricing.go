package models

import "github.com/jordanlanch/landing/pkg/pricing"

// QuoteRequest is the pricing slider input. Team counts above the automatic
// maximum are accepted and answered with contact_sales. The billing cycle is
// matched case-insensitively by pricing.ParseBillingCycle.
type QuoteRequest struct {
	TeamCount    int    `json:"team_count" query:"team_count" validate:"required,min=1,max=10000"`
	BillingCycle string `json:"billing_cycle" query:"billing_cycle" validate:"required"`
}

// PlansResponse lists the plan cards.
type PlansResponse struct {
	Plans                 []pricing.Plan `json:"plans"`
	MaxTeamCount          int            `json:"max_team_count"`
	YearlyDiscountPercent int            `json:"yearly_discount_percent"`
}

// QuoteResponse is a priced query with display strings for the page.
type QuoteResponse struct {
	pricing.Quote
	Display QuoteDisplay `json:"display"`
}

// QuoteDisplay holds preformatted amounts.
type QuoteDisplay struct {
	Total             string `json:"total"`
	PerUser           string `json:"per_user"`
	MonthlyEquivalent string `json:"monthly_equivalent,omitempty"`
	YearlySavings     string `json:"yearly_savings,omitempty"`
}
