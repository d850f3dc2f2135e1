package api

import (
	"net/http"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/gin-gonic/gin"
)

// CreateCustomer registra un nuevo cliente
func (api *API) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	customer, err := api.customerService.Create(&req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// ListCustomers lista clientes con búsqueda y paginación
func (api *API) ListCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	customers, total, err := api.customerService.List(search, page, pageSize)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     customers,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// GetCustomer obtiene un cliente por ID
func (api *API) GetCustomer(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	customer, err := api.customerService.GetByID(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer actualiza un cliente
func (api *API) UpdateCustomer(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	customer, err := api.customerService.Update(id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// VerifyCustomer marca un cliente como verificado
func (api *API) VerifyCustomer(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := api.customerService.Verify(id); err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_verified": true})
}

// DeleteCustomer elimina un cliente
func (api *API) DeleteCustomer(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := api.customerService.Delete(id); err != nil {
		api.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
