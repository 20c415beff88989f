package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"auctiontracker/internal/models"
)

func TestSummarize(t *testing.T) {
	sold := copacabana()
	renovating := models.Property{
		PurchaseValue:      600000,
		ExpectedCosts:      models.CostBucket{Reform: 80000, Legal: 25000, ITBI: 18000, Deed: 4000, Extra: 10000},
		EstimatedSalePrice: 1100000,
		Status:             models.PropertyStatusRenovation,
	}

	s := Summarize([]models.Property{sold, renovating})

	assert.Equal(t, 2, s.PropertyCount)
	assert.Equal(t, 1, s.SoldCount)
	assert.Equal(t, 130000.0+363000.0, s.TotalProjectedProfit)
	assert.Equal(t, 154900.0, s.TotalActualProfit)
	assert.InDelta(t, (40.625+363000.0/737000.0*100)/2, s.AvgProjectedROI, 1e-9)
	assert.InDelta(t, 154900.0/325100.0*100, s.AvgActualROI, 1e-9)
	assert.Equal(t, 70000.0+137000.0, s.TotalExpectedCost)
	assert.Equal(t, 75100.0, s.TotalExecutedCost)
	assert.Equal(t, 1, s.StatusCounts[models.PropertyStatusSold])
	assert.Equal(t, 1, s.StatusCounts[models.PropertyStatusRenovation])
}

func TestSummarize_SoldWithoutSalePrice(t *testing.T) {
	p := copacabana()
	p.ActualSalePrice = nil

	s := Summarize([]models.Property{p})

	assert.Equal(t, 1, s.SoldCount)
	assert.Equal(t, 0.0, s.TotalActualProfit)
	assert.Equal(t, 0.0, s.AvgActualROI)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.PropertyCount)
	assert.Equal(t, 0.0, s.AvgProjectedROI)
	assert.Empty(t, s.StatusCounts)
}
