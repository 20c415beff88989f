package finance

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"auctiontracker/internal/models"
)

// NotApplicable is displayed in place of unresolved figures.
const NotApplicable = "N/A"

// currencyPrefix is the BRL symbol followed by a no-break space, as the
// pt-BR locale writes it.
const currencyPrefix = "R$\u00a0"

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders v as Brazilian reais, e.g. "R$ 1.234,56" or
// "-R$ 10,00", with a no-break space after the symbol. A nil value renders
// as zero.
func FormatCurrency(v *float64) string {
	if v == nil {
		return currencyPrefix + "0,00"
	}
	cents := math.Round(*v * 100)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + currencyPrefix + brl.Sprintf("%.2f", cents/100)
}

// FormatPercentage renders v with two decimals and a trailing percent sign.
// A nil value renders as "0.00%".
func FormatPercentage(v *float64) string {
	if v == nil {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// MetricsDisplay holds the presentation strings for a property's metrics.
type MetricsDisplay struct {
	ExpectedCostTotal string `json:"expected_cost_total"`
	ExecutedCostTotal string `json:"executed_cost_total"`
	ProjectedProfit   string `json:"projected_profit"`
	ProjectedROI      string `json:"projected_roi"`
	ActualProfit      string `json:"actual_profit"`
	ActualROI         string `json:"actual_roi"`
}

// Display formats m for presentation. Actual figures are shown only for sold
// properties; anything else reads "N/A".
func (m Metrics) Display(status models.PropertyStatus) MetricsDisplay {
	d := MetricsDisplay{
		ExpectedCostTotal: FormatCurrency(&m.ExpectedCostTotal),
		ExecutedCostTotal: FormatCurrency(&m.ExecutedCostTotal),
		ProjectedProfit:   FormatCurrency(&m.ProjectedProfit),
		ProjectedROI:      FormatPercentage(&m.ProjectedROI),
		ActualProfit:      NotApplicable,
		ActualROI:         NotApplicable,
	}
	if status == models.PropertyStatusSold && m.ActualProfit != nil {
		d.ActualProfit = FormatCurrency(m.ActualProfit)
		d.ActualROI = FormatPercentage(m.ActualROI)
	}
	return d
}
