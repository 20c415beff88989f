package finance

import "auctiontracker/internal/models"

// PortfolioSummary aggregates the metrics of a set of properties for the
// dashboard. Actual figures only consider properties with status sold.
type PortfolioSummary struct {
	PropertyCount        int                           `json:"property_count"`
	SoldCount            int                           `json:"sold_count"`
	TotalProjectedProfit float64                       `json:"total_projected_profit"`
	TotalActualProfit    float64                       `json:"total_actual_profit"`
	AvgProjectedROI      float64                       `json:"avg_projected_roi"`
	AvgActualROI         float64                       `json:"avg_actual_roi"`
	TotalExpectedCost    float64                       `json:"total_expected_cost"`
	TotalExecutedCost    float64                       `json:"total_executed_cost"`
	StatusCounts         map[models.PropertyStatus]int `json:"status_counts"`
}

// Summarize builds a PortfolioSummary. A sold property whose actual figures are
// unresolved contributes 0 to the actual totals.
func Summarize(properties []models.Property) PortfolioSummary {
	s := PortfolioSummary{
		PropertyCount: len(properties),
		StatusCounts:  make(map[models.PropertyStatus]int),
	}

	var projectedROISum, actualROISum float64
	for _, p := range properties {
		s.TotalProjectedProfit += ProjectedProfit(p)
		projectedROISum += ProjectedROI(p)
		s.TotalExpectedCost += SumCosts(p.ExpectedCosts)
		s.TotalExecutedCost += SumCosts(p.ExecutedCosts)
		s.StatusCounts[p.Status]++

		if p.Status != models.PropertyStatusSold {
			continue
		}
		s.SoldCount++
		if profit, ok := ActualProfit(p); ok {
			s.TotalActualProfit += profit
		}
		if roi, ok := ActualROI(p); ok {
			actualROISum += roi
		}
	}

	if s.PropertyCount > 0 {
		s.AvgProjectedROI = projectedROISum / float64(s.PropertyCount)
	}
	if s.SoldCount > 0 {
		s.AvgActualROI = actualROISum / float64(s.SoldCount)
	}
	return s
}
