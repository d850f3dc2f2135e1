package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parsePurchaseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid purchase ID", []models.ErrorDetail{
			{Field: "id", Issue: "Must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// CreatePurchase registra una compra consumiendo stock del producto
func (api *API) CreatePurchase(c *gin.Context) {
	var req models.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	purchase, err := api.purchaseService.Create(c.Request.Context(), &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// ListPurchases lista compras con filtros y paginación
func (api *API) ListPurchases(c *gin.Context) {
	filter := &models.PurchaseFilter{
		Search: c.Query("search"),
	}
	filter.Page, filter.PageSize = parsePagination(c)

	if v := c.Query("customer_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CustomerID = &id
		}
	}
	if v := c.Query("product_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.ProductID = &id
		}
	}
	if v := c.Query("shop_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.ShopID = &id
		}
	}
	if v := c.Query("payment_status"); v != "" {
		status := models.PaymentStatus(v)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid filter", []models.ErrorDetail{
				{Field: "payment_status", Issue: "Unknown payment status"},
			}))
			return
		}
		filter.PaymentStatus = &status
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &active
		}
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndDate = &t
		}
	}

	response, err := api.purchaseService.List(filter)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetPurchase obtiene una compra por ID
func (api *API) GetPurchase(c *gin.Context) {
	id, ok := parsePurchaseID(c)
	if !ok {
		return
	}

	purchase, err := api.purchaseService.GetByID(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// UpdatePurchase actualiza una compra ajustando stock según el cambio de cantidad
func (api *API) UpdatePurchase(c *gin.Context) {
	id, ok := parsePurchaseID(c)
	if !ok {
		return
	}

	var req models.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	purchase, err := api.purchaseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// UpdatePaymentStatus cambia el estado de pago de una compra
func (api *API) UpdatePaymentStatus(c *gin.Context) {
	id, ok := parsePurchaseID(c)
	if !ok {
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	purchase, err := api.purchaseService.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// TogglePurchaseStatus invierte el flag is_active de una compra
func (api *API) TogglePurchaseStatus(c *gin.Context) {
	id, ok := parsePurchaseID(c)
	if !ok {
		return
	}

	isActive, err := api.purchaseService.ToggleActive(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        id,
		"is_active": isActive,
	})
}

// DeletePurchase elimina una compra restaurando el stock consumido
func (api *API) DeletePurchase(c *gin.Context) {
	id, ok := parsePurchaseID(c)
	if !ok {
		return
	}

	if err := api.purchaseService.Delete(id); err != nil {
		api.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPurchaseStats obtiene las estadísticas agregadas de compras
func (api *API) GetPurchaseStats(c *gin.Context) {
	stats, err := api.purchaseService.Stats()
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
