package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/finance"
	"auctiontracker/internal/models"
	"auctiontracker/internal/pagination"
	"auctiontracker/internal/services"
)

// PropertyHandler handles property-related requests.
type PropertyHandler struct {
	propertyService services.PropertyServicer
	analysisService services.AnalysisServicer
	auditService    services.AuditServicer
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService services.PropertyServicer, analysisService services.AnalysisServicer, auditService services.AuditServicer) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		analysisService: analysisService,
		auditService:    auditService,
	}
}

// PropertyResponse is a property together with its computed figures.
type PropertyResponse struct {
	models.Property
	Metrics finance.Metrics        `json:"metrics"`
	Display finance.MetricsDisplay `json:"display"`
}

func newPropertyResponse(p models.Property) PropertyResponse {
	m := finance.Evaluate(p)
	return PropertyResponse{Property: p, Metrics: m, Display: m.Display(p.Status)}
}

// AnalysisResponse carries the AI-written analysis of a property.
type AnalysisResponse struct {
	PropertyID string `json:"property_id"`
	Enabled    bool   `json:"enabled"`
	Analysis   string `json:"analysis"`
}

// CreateProperty handles the creation of a new property
// @Summary     Create a property
// @Description Register an auctioned property for the authenticated user
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.PropertyInput true "Property details"
// @Success     201 {object} PropertyResponse "Property created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan limit reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req models.PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateProperty, "property", property.ID, c.ClientIP(),
		map[string]interface{}{"title": property.Title, "status": property.Status})

	c.JSON(http.StatusCreated, gin.H{"property": newPropertyResponse(*property)})
}

// ListProperties lists the user's properties
// @Summary     List properties
// @Description List the authenticated user's properties in the order they were registered
// @Tags        properties
// @Produce     json
// @Security    BearerAuth
// @Param       page         query int    false "Page number"
// @Param       page_size    query int    false "Items per page (max 100)"
// @Param       status       query string false "Filter by status"
// @Param       auction_from query string false "Earliest auction date (YYYY-MM-DD)"
// @Param       auction_to   query string false "Latest auction date (YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[PropertyResponse]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /properties [get]
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parsePropertyFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.propertyService.GetUserProperties(c.Request.Context(), userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, newPropertyResponse))
}

// GetProperty returns a single property
// @Summary     Get a property
// @Description Get a property owned by the authenticated user
// @Tags        properties
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     200 {object} PropertyResponse
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Router      /properties/{id} [get]
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, ok := h.loadProperty(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": newPropertyResponse(*property)})
}

// UpdateProperty applies a partial update
// @Summary     Update a property
// @Description Partially update a property. A supplied cost bucket replaces the stored one; actual_sale_price accepts null to clear it.
// @Tags        properties
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Property ID"
// @Param       request body models.PropertyPatch true "Fields to change"
// @Success     200 {object} PropertyResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Router      /properties/{id} [patch]
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	propertyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var patch models.PropertyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), userID, propertyID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateProperty, "property", property.ID, c.ClientIP(), patchChanges(patch))

	c.JSON(http.StatusOK, gin.H{"property": newPropertyResponse(*property)})
}

// GetPropertyMetrics returns the computed figures of a property
// @Summary     Property metrics
// @Description Projected and actual profit and ROI. Actual figures are null until the sale is recorded.
// @Tags        properties
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     200 {object} finance.Metrics
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Router      /properties/{id}/metrics [get]
func (h *PropertyHandler) GetPropertyMetrics(c *gin.Context) {
	property, ok := h.loadProperty(c)
	if !ok {
		return
	}
	m := finance.Evaluate(*property)
	c.JSON(http.StatusOK, gin.H{"metrics": m, "display": m.Display(property.Status)})
}

// AnalyzeProperty asks the AI analyst for an opinion on a property
// @Summary     AI analysis
// @Description Generate an investment analysis of the property. Returns a fixed message when the analysis is disabled or fails.
// @Tags        properties
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Property ID"
// @Success     200 {object} AnalysisResponse
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Property not found"
// @Router      /properties/{id}/analysis [post]
func (h *PropertyHandler) AnalyzeProperty(c *gin.Context) {
	property, ok := h.loadProperty(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{
		PropertyID: property.ID,
		Enabled:    h.analysisService.Enabled(),
		Analysis:   h.analysisService.AnalyzeProperty(c.Request.Context(), property),
	})
}

// GetDashboard returns the portfolio summary
// @Summary     Dashboard
// @Description Aggregated profit, ROI and cost figures over the user's portfolio
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} finance.PortfolioSummary
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *PropertyHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.propertyService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"display": gin.H{
			"total_projected_profit": finance.FormatCurrency(&summary.TotalProjectedProfit),
			"total_actual_profit":    finance.FormatCurrency(&summary.TotalActualProfit),
			"avg_projected_roi":      finance.FormatPercentage(&summary.AvgProjectedROI),
			"avg_actual_roi":         finance.FormatPercentage(&summary.AvgActualROI),
		},
	})
}

// loadProperty resolves the :id path parameter to a property owned by the
// caller, writing the error response itself when it cannot.
func (h *PropertyHandler) loadProperty(c *gin.Context) (*models.Property, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return nil, false
	}

	propertyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return nil, false
	}

	property, err := h.propertyService.GetPropertyByID(c.Request.Context(), userID, propertyID)
	if err != nil {
		respondWithError(c, err)
		return nil, false
	}
	return property, true
}

func parsePropertyFilter(c *gin.Context) (services.PropertyFilter, error) {
	var filter services.PropertyFilter

	if v := c.Query("status"); v != "" {
		status := models.PropertyStatus(v)
		valid := false
		for _, s := range models.PropertyStatuses {
			if s == status {
				valid = true
				break
			}
		}
		if !valid {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status")
		}
		filter.Status = &status
	}

	for param, dst := range map[string]**string{"auction_from": &filter.AuctionFrom, "auction_to": &filter.AuctionTo} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+param+" format, use YYYY-MM-DD")
		}
		*dst = &v
	}

	return filter, nil
}

// patchChanges lists the fields a patch touched for the audit log.
func patchChanges(patch models.PropertyPatch) map[string]interface{} {
	changes := map[string]interface{}{}
	if patch.Status != nil {
		changes["status"] = *patch.Status
	}
	if patch.ActualSalePrice.Set {
		changes["actual_sale_price"] = patch.ActualSalePrice.Value
	}
	if patch.ExpectedCosts != nil {
		changes["expected_costs"] = finance.SumCosts(*patch.ExpectedCosts)
	}
	if patch.ExecutedCosts != nil {
		changes["executed_costs"] = finance.SumCosts(*patch.ExecutedCosts)
	}
	if patch.PurchaseValue != nil {
		changes["purchase_value"] = *patch.PurchaseValue
	}
	if patch.EstimatedSalePrice != nil {
		changes["estimated_sale_price"] = *patch.EstimatedSalePrice
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}
