package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/pagination"
	"auctiontracker/internal/services"
)

// AdminHandler serves the administrator panel.
type AdminHandler struct {
	adminService services.AdminServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers lists every user with their property count
// @Summary     List users (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page (max 100)"
// @Success     200 {object} pagination.PageResponse[services.UserWithPropertyCount]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an administrator"
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.adminService.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListProperties lists every property in the system
// @Summary     List all properties (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page (max 100)"
// @Success     200 {object} pagination.PageResponse[PropertyResponse]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an administrator"
// @Router      /admin/properties [get]
func (h *AdminHandler) ListProperties(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.adminService.ListAllProperties(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Map(*result, newPropertyResponse))
}
