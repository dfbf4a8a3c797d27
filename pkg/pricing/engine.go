package pricing

import (
	"fmt"
	"math"

	"github.com/jordanlanch/landing/pkg/domain"
)

// DefaultMaxTeamCount is the slider ceiling on the pricing page.
const DefaultMaxTeamCount = 50

// Query is the pricing page input.
type Query struct {
	TeamCount    int          `json:"team_count"`
	BillingCycle BillingCycle `json:"billing_cycle"`
}

// Result is the derived price for the recommended plan.
type Result struct {
	Plan              Plan         `json:"recommended_plan"`
	TeamCount         int          `json:"team_count"`
	BillingCycle      BillingCycle `json:"billing_cycle"`
	TotalPrice        int          `json:"total_price"`
	PricePerUser      int          `json:"price_per_user"`
	MonthlyEquivalent int          `json:"monthly_equivalent"`
	YearlySavings     int          `json:"yearly_savings"`
	ContactSales      bool         `json:"contact_sales"`
}

// PlanQuote is one plan card of the pricing grid.
type PlanQuote struct {
	Plan         Plan `json:"plan"`
	TotalPrice   int  `json:"total_price"`
	PricePerUser int  `json:"price_per_user"`
	Recommended  bool `json:"recommended"`
}

// Engine prices queries against a validated catalog. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	catalog      Catalog
	maxTeamCount int
}

// NewEngine validates the catalog and returns an engine.
func NewEngine(catalog Catalog, maxTeamCount int) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if maxTeamCount < 1 {
		return nil, fmt.Errorf("max team count must be at least 1, got %d", maxTeamCount)
	}
	return &Engine{catalog: catalog, maxTeamCount: maxTeamCount}, nil
}

// NewDefaultEngine returns an engine over DefaultCatalog.
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultCatalog(), DefaultMaxTeamCount)
	if err != nil {
		panic(err)
	}
	return e
}

// Catalog returns a copy of the engine's plans.
func (e *Engine) Catalog() Catalog {
	out := make(Catalog, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// MaxTeamCount is the largest team size quoted automatically.
func (e *Engine) MaxTeamCount() int {
	return e.maxTeamCount
}

// Quote prices the recommended plan for q. Team counts below 1 are clamped to
// 1; counts above MaxTeamCount return ContactSales with the top tier and no
// price.
func (e *Engine) Quote(q Query) (Result, error) {
	if !q.BillingCycle.Valid() {
		return Result{}, domain.NewValidationError("billing_cycle must be monthly or yearly")
	}

	teamCount, contactSales := ClampTeamCount(q.TeamCount, e.maxTeamCount)
	if contactSales {
		return Result{
			Plan:         e.catalog[len(e.catalog)-1],
			TeamCount:    teamCount,
			BillingCycle: q.BillingCycle,
			ContactSales: true,
		}, nil
	}

	plan := RecommendPlan(teamCount, e.catalog)
	return e.price(plan, teamCount, q.BillingCycle), nil
}

// QuoteAll prices every plan for the same query, flagging the recommended one.
func (e *Engine) QuoteAll(q Query) ([]PlanQuote, error) {
	res, err := e.Quote(q)
	if err != nil {
		return nil, err
	}

	quotes := make([]PlanQuote, 0, len(e.catalog))
	for _, p := range e.catalog {
		pq := PlanQuote{Plan: p, Recommended: p.ID == res.Plan.ID}
		if !res.ContactSales {
			total := CalculatePrice(p.BasePrice, p.AdditionalUserPrice, res.TeamCount, res.BillingCycle)
			pq.TotalPrice = total
			pq.PricePerUser = PricePerUser(total, res.TeamCount, res.BillingCycle)
		}
		quotes = append(quotes, pq)
	}
	return quotes, nil
}

func (e *Engine) price(plan Plan, teamCount int, cycle BillingCycle) Result {
	total := CalculatePrice(plan.BasePrice, plan.AdditionalUserPrice, teamCount, cycle)
	monthly := MonthlyPrice(plan.BasePrice, plan.AdditionalUserPrice, teamCount)

	res := Result{
		Plan:              plan,
		TeamCount:         teamCount,
		BillingCycle:      cycle,
		TotalPrice:        total,
		PricePerUser:      PricePerUser(total, teamCount, cycle),
		MonthlyEquivalent: monthly,
	}
	if cycle == Yearly {
		res.MonthlyEquivalent = int(math.Round(float64(total) / 12))
		res.YearlySavings = monthly*12 - total
	}
	return res
}
