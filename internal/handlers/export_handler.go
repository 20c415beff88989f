package handlers

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"auctiontracker/internal/finance"
	"auctiontracker/internal/logger"
	"auctiontracker/internal/models"
	"auctiontracker/internal/services"
)

// ExportHandler serves report downloads.
type ExportHandler struct {
	propertyService services.PropertyServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(propertyService services.PropertyServicer) *ExportHandler {
	return &ExportHandler{propertyService: propertyService}
}

var exportHeader = []string{
	"id", "title", "type", "status", "address", "auction_date",
	"purchase_value", "evaluation_value", "expected_costs", "executed_costs",
	"estimated_sale_price", "actual_sale_price",
	"projected_profit", "projected_roi", "actual_profit", "actual_roi",
}

// ExportProperties streams the user's properties as CSV
// @Summary     Export properties
// @Description Download the authenticated user's properties and their figures as CSV. Unresolved actual figures are left empty.
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       status       query string false "Filter by status"
// @Param       auction_from query string false "Earliest auction date (YYYY-MM-DD)"
// @Param       auction_to   query string false "Latest auction date (YYYY-MM-DD)"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /export/properties [get]
func (h *ExportHandler) ExportProperties(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parsePropertyFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	props, err := h.propertyService.ListProperties(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("imoveis-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	rows := make([][]string, 0, len(props)+1)
	rows = append(rows, exportHeader)
	for _, p := range props {
		rows = append(rows, exportRow(p))
	}
	if err := w.WriteAll(rows); err != nil {
		logger.Get().Errorw("csv export failed", "user_id", userID, "error", err)
	}
}

func exportRow(p models.Property) []string {
	m := finance.Evaluate(p)
	return []string{
		p.ID,
		csvText(p.Title),
		string(p.Type),
		string(p.Status),
		csvText(p.Address),
		p.AuctionDate,
		formatNumber(&p.PurchaseValue),
		formatNumber(&p.EvaluationValue),
		formatNumber(&m.ExpectedCostTotal),
		formatNumber(&m.ExecutedCostTotal),
		formatNumber(&p.EstimatedSalePrice),
		formatNumber(p.ActualSalePrice),
		formatNumber(&m.ProjectedProfit),
		formatNumber(&m.ProjectedROI),
		formatNumber(m.ActualProfit),
		formatNumber(m.ActualROI),
	}
}

// csvText neutralizes free text that a spreadsheet would evaluate as a
// formula by prefixing it with a single quote.
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
