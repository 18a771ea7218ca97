package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlim89/countrycat/internal/services"
	"github.com/nlim89/countrycat/pkg/response"
)

// CountryHandler maps the HTTP surface onto the country service.
type CountryHandler struct {
	svc *services.CountryService
}

// NewCountryHandler constructs the handler.
func NewCountryHandler(svc *services.CountryService) *CountryHandler {
	return &CountryHandler{svc: svc}
}

// createCountryRequest is the write payload. Upper-case keys mirror the
// legacy column names of the countries table and are kept for compatibility.
type createCountryRequest struct {
	Name        string `json:"NAME" validate:"required"`
	Description string `json:"DESCR" validate:"required"`
	Code        string `json:"CODE" validate:"required"`
}

// updateCountryRequest carries the partial update; absent keys mean no change.
type updateCountryRequest struct {
	Name        *string `json:"NAME"`
	Description *string `json:"DESCR"`
}

// List handles GET /countries?page&per_page.
func (h *CountryHandler) List(c *gin.Context) {
	page, err := parseIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	perPage, err := parseIntQuery(c, "per_page", 100)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.svc.List(requestContext(c), page, perPage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, result.Data, &response.Pagination{
		Page:       result.Pagination.Page,
		PerPage:    result.Pagination.PerPage,
		TotalCount: result.Pagination.TotalCount,
		TotalPages: result.Pagination.TotalPages,
	})
}

// Create handles POST /add/country.
func (h *CountryHandler) Create(c *gin.Context) {
	var req createCountryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.svc.Create(requestContext(c), services.CreateCountryInput{
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "Country created successfully")
}

// Update handles PUT /update/country/:code.
func (h *CountryHandler) Update(c *gin.Context) {
	var req updateCountryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.svc.Update(requestContext(c), c.Param("code"), services.UpdateCountryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Country updated successfully")
}

// Delete handles DELETE /delete/country/:code.
func (h *CountryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Country deleted successfully")
}
