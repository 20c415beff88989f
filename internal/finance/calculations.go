// Package finance derives profit and return-on-investment figures from
// property cost records. Every function is pure: results depend only on the
// property passed in and are recomputed on each call.
//
// Actual figures are unresolved until a sale price is recorded. A recorded sale
// price of exactly zero is treated the same as no sale, so a property sold for
// nothing cannot be told apart from an unsold one.
package finance

import "auctiontracker/internal/models"

// SumCosts returns the total of the six cost categories of a bucket.
func SumCosts(c models.CostBucket) float64 {
	return c.Reform + c.Legal + c.ITBI + c.Deed + c.Vacating + c.Extra
}

// ProjectedInvestment is the purchase value plus the expected costs.
func ProjectedInvestment(p models.Property) float64 {
	return p.PurchaseValue + SumCosts(p.ExpectedCosts)
}

// ActualInvestment is the purchase value plus the executed costs.
func ActualInvestment(p models.Property) float64 {
	return p.PurchaseValue + SumCosts(p.ExecutedCosts)
}

// IsResolved reports whether a sale price has been recorded for p. A price of
// exactly zero reads as unrecorded, so a property given away for free stays
// unresolved.
func IsResolved(p models.Property) bool {
	return p.ActualSalePrice != nil && *p.ActualSalePrice != 0
}

// ProjectedProfit is the estimated sale price minus the projected investment.
// Negative values are projected losses.
func ProjectedProfit(p models.Property) float64 {
	return p.EstimatedSalePrice - ProjectedInvestment(p)
}

// ActualProfit is the recorded sale price minus the actual investment. ok is
// false while the property is unresolved.
func ActualProfit(p models.Property) (profit float64, ok bool) {
	if !IsResolved(p) {
		return 0, false
	}
	return *p.ActualSalePrice - ActualInvestment(p), true
}

// ProjectedROI is the projected profit as a percentage of the projected
// investment (12.5 means 12.5%). A zero investment yields 0.
func ProjectedROI(p models.Property) float64 {
	investment := ProjectedInvestment(p)
	if investment == 0 {
		return 0
	}
	return ProjectedProfit(p) / investment * 100
}

// ActualROI is the actual profit as a percentage of the actual investment.
// It is unresolved exactly when ActualProfit is. A zero investment yields 0.
func ActualROI(p models.Property) (roi float64, ok bool) {
	profit, ok := ActualProfit(p)
	if !ok {
		return 0, false
	}
	investment := ActualInvestment(p)
	if investment == 0 {
		return 0, true
	}
	return profit / investment * 100, true
}

// Metrics bundles every derived figure of a property. Unresolved actual
// figures are nil and serialize as null.
type Metrics struct {
	ExpectedCostTotal   float64  `json:"expected_cost_total"`
	ExecutedCostTotal   float64  `json:"executed_cost_total"`
	ProjectedInvestment float64  `json:"projected_investment"`
	ActualInvestment    float64  `json:"actual_investment"`
	ProjectedProfit     float64  `json:"projected_profit"`
	ProjectedROI        float64  `json:"projected_roi"`
	ActualProfit        *float64 `json:"actual_profit"`
	ActualROI           *float64 `json:"actual_roi"`
}

// Evaluate computes the metrics of p.
func Evaluate(p models.Property) Metrics {
	m := Metrics{
		ExpectedCostTotal:   SumCosts(p.ExpectedCosts),
		ExecutedCostTotal:   SumCosts(p.ExecutedCosts),
		ProjectedInvestment: ProjectedInvestment(p),
		ActualInvestment:    ActualInvestment(p),
		ProjectedProfit:     ProjectedProfit(p),
		ProjectedROI:        ProjectedROI(p),
	}
	if profit, ok := ActualProfit(p); ok {
		m.ActualProfit = &profit
	}
	if roi, ok := ActualROI(p); ok {
		m.ActualROI = &roi
	}
	return m
}
