package api

import (
	"net/http"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/gin-gonic/gin"
)

// CreateLocation registra una ubicación de tienda
func (api *API) CreateLocation(c *gin.Context) {
	var req models.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	location, err := api.locationService.Create(&req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         location.ID,
		"shop":       location.ShopID,
		"latitude":   location.Latitude,
		"longitude":  location.Longitude,
		"is_primary": location.IsPrimary,
		"maps_url":   location.MapsURL(),
	})
}

// GetLocation obtiene una ubicación por ID
func (api *API) GetLocation(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	location, err := api.locationService.GetByID(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// GetShopLocations obtiene las ubicaciones de una tienda
func (api *API) GetShopLocations(c *gin.Context) {
	shopID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	locations, err := api.locationService.GetByShopID(shopID)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": locations})
}

// UpdateLocation actualiza una ubicación
func (api *API) UpdateLocation(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	location, err := api.locationService.Update(id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// DeleteLocation elimina una ubicación
func (api *API) DeleteLocation(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := api.locationService.Delete(id); err != nil {
		api.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
