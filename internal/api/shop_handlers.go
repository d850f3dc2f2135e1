package api

import (
	"net/http"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/gin-gonic/gin"
)

// CreateShop registra una nueva tienda
func (api *API) CreateShop(c *gin.Context) {
	var req models.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	shop, err := api.shopService.Create(&req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shop)
}

// GetShop obtiene una tienda por ID
func (api *API) GetShop(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	shop, err := api.shopService.GetByID(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

// GetCustomerShops obtiene las tiendas de un cliente
func (api *API) GetCustomerShops(c *gin.Context) {
	customerID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	shops, err := api.shopService.GetByCustomerID(customerID)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": shops})
}

// UpdateShop actualiza una tienda
func (api *API) UpdateShop(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	shop, err := api.shopService.Update(id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

// DeleteShop elimina una tienda
func (api *API) DeleteShop(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := api.shopService.Delete(id); err != nil {
		api.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
