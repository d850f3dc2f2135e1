package api

import (
	"net/http"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/gin-gonic/gin"
)

// CreateContact registra un contacto de cliente
func (api *API) CreateContact(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	contact, err := api.contactService.Create(&req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContact obtiene un contacto por ID
func (api *API) GetContact(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	contact, err := api.contactService.GetByID(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// GetCustomerContacts obtiene los contactos de un cliente
func (api *API) GetCustomerContacts(c *gin.Context) {
	customerID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	contacts, err := api.contactService.GetByCustomerID(customerID)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": contacts})
}

// UpdateContact actualiza un contacto
func (api *API) UpdateContact(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	contact, err := api.contactService.Update(id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact elimina un contacto
func (api *API) DeleteContact(c *gin.Context) {
	id, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	if err := api.contactService.Delete(id); err != nil {
		api.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
