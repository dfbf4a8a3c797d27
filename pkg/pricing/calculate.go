package pricing

import "math"

// YearlyDiscountPercent is the flat discount applied to 12x the monthly price.
const YearlyDiscountPercent = 15

// RecommendPlan returns the first plan whose ceiling covers teamCount, falling
// back to the last plan. plans must be sorted ascending by MaxTeamMembers.
func RecommendPlan(teamCount int, plans []Plan) Plan {
	for _, p := range plans {
		if p.Fits(teamCount) {
			return p
		}
	}
	if len(plans) == 0 {
		return Plan{}
	}
	return plans[len(plans)-1]
}

// MonthlyPrice is the first seat at basePrice plus every further seat at
// additionalUserPrice.
func MonthlyPrice(basePrice, additionalUserPrice, teamCount int) int {
	extra := teamCount - 1
	if extra < 0 {
		extra = 0
	}
	return basePrice + extra*additionalUserPrice
}

// CalculatePrice returns the total for one billing period. Yearly totals are
// 12 months less the discount, rounded half away from zero.
func CalculatePrice(basePrice, additionalUserPrice, teamCount int, cycle BillingCycle) int {
	monthly := MonthlyPrice(basePrice, additionalUserPrice, teamCount)
	if cycle != Yearly {
		return monthly
	}
	return discountedYearly(monthly * 12)
}

// discountedYearly computes round(amount * 0.85) in integer arithmetic so the
// result does not depend on float representation.
func discountedYearly(amount int) int {
	scaled := amount * (100 - YearlyDiscountPercent)
	if scaled < 0 {
		return -((-scaled + 50) / 100)
	}
	return (scaled + 50) / 100
}

// PricePerUser is the monthly-equivalent per-seat display price: the period
// total divided by the number of months, then by teamCount, then rounded.
func PricePerUser(total, teamCount int, cycle BillingCycle) int {
	if teamCount < 1 {
		teamCount = 1
	}
	perMonth := float64(total) / float64(cycle.Periods())
	return int(math.Round(perMonth / float64(teamCount)))
}

// ClampTeamCount raises counts below 1 to 1. The second result reports a count
// above maxTeamCount, which the pricing page routes to sales instead of quoting.
func ClampTeamCount(teamCount, maxTeamCount int) (int, bool) {
	if teamCount < 1 {
		return 1, false
	}
	return teamCount, teamCount > maxTeamCount
}
