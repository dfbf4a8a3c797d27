// Package pricing computes per-seat subscription prices and recommends a plan
// tier for a team size.
package pricing

import (
	"fmt"
)

// Unbounded marks a plan without a seat ceiling.
const Unbounded = -1

// Plan is a static catalog entry. Prices are whole currency units per month.
type Plan struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	BasePrice           int      `json:"base_price"`
	AdditionalUserPrice int      `json:"additional_user_price"`
	MaxTeamMembers      int      `json:"max_team_members"` // -1 = unbounded
	Features            []string `json:"features"`
}

// IsUnbounded reports whether the plan has no seat ceiling.
func (p Plan) IsUnbounded() bool {
	return p.MaxTeamMembers == Unbounded
}

// Fits reports whether a team of teamCount seats is within the plan's ceiling.
func (p Plan) Fits(teamCount int) bool {
	return p.IsUnbounded() || p.MaxTeamMembers >= teamCount
}

// Catalog is an ordered list of plans, ascending by MaxTeamMembers.
type Catalog []Plan

// DefaultCatalog returns the three paid tiers shown on the pricing page.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:                  "base",
			Name:                "Base",
			Description:         "For small teams getting started",
			BasePrice:           29,
			AdditionalUserPrice: 19,
			MaxTeamMembers:      5,
			Features: []string{
				"Up to 5 team members",
				"Workflow automation",
				"Email notifications",
				"Standard support",
			},
		},
		{
			ID:                  "plus",
			Name:                "Plus",
			Description:         "For growing teams that need insights",
			BasePrice:           79,
			AdditionalUserPrice: 29,
			MaxTeamMembers:      20,
			Features: []string{
				"Up to 20 team members",
				"Everything in Base",
				"Insights dashboard",
				"Priority support",
			},
		},
		{
			ID:                  "premium",
			Name:                "Premium",
			Description:         "For organizations at scale",
			BasePrice:           199,
			AdditionalUserPrice: 39,
			MaxTeamMembers:      Unbounded,
			Features: []string{
				"Unlimited team members",
				"Everything in Plus",
				"SSO and audit logs",
				"Dedicated success manager",
			},
		},
	}
}

// FreePlan is the free tier listed in the comparison table. It is never
// recommended and is not part of DefaultCatalog.
func FreePlan() Plan {
	return Plan{
		ID:             "free",
		Name:           "Free",
		Description:    "Try the product on your own",
		MaxTeamMembers: 1,
		Features: []string{
			"1 team member",
			"3 active workflows",
			"Community support",
		},
	}
}

// Validate checks the catalog ordering: ascending MaxTeamMembers with exactly
// one unbounded plan, placed last.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog has no plans")
	}

	unbounded := 0
	for i, p := range c {
		if p.BasePrice < 0 || p.AdditionalUserPrice < 0 {
			return fmt.Errorf("plan %q has a negative price", p.ID)
		}
		if p.IsUnbounded() {
			unbounded++
			if i != len(c)-1 {
				return fmt.Errorf("unbounded plan %q must be last", p.ID)
			}
			continue
		}
		if p.MaxTeamMembers < 1 {
			return fmt.Errorf("plan %q has invalid max team members %d", p.ID, p.MaxTeamMembers)
		}
		if i > 0 && p.MaxTeamMembers <= c[i-1].MaxTeamMembers {
			return fmt.Errorf("plan %q is out of order: %d <= %d", p.ID, p.MaxTeamMembers, c[i-1].MaxTeamMembers)
		}
	}
	if unbounded != 1 {
		return fmt.Errorf("catalog needs exactly one unbounded plan, found %d", unbounded)
	}
	return nil
}

// Find returns the plan with the given ID.
func (c Catalog) Find(id string) (Plan, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
