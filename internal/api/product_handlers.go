package api

import (
	"net/http"
	"strconv"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseProductID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid product ID", []models.ErrorDetail{
			{Field: "id", Issue: "Must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// CreateProduct registra un nuevo producto y genera su código QR
func (api *API) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	product, err := api.productService.Create(c.Request.Context(), &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct obtiene un producto por ID
func (api *API) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := api.productService.GetByID(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetShopProducts obtiene los productos de una tienda
func (api *API) GetShopProducts(c *gin.Context) {
	shopID, ok := parseIntParam(c, "id")
	if !ok {
		return
	}

	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))

	products, err := api.productService.GetByShopID(shopID, activeOnly)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": products})
}

// SearchProducts busca productos por nombre o SKU
func (api *API) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Missing search term", []models.ErrorDetail{
			{Field: "q", Issue: "Search term is required"},
		}))
		return
	}

	products, err := api.productService.Search(term)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": products})
}

// UpdateProduct actualiza un producto
func (api *API) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	product, err := api.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// AdjustProductStock aplica una corrección manual de stock como delta firmado
func (api *API) AdjustProductStock(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req models.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	newStock, err := api.productService.AdjustStock(id, &req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             id,
		"stock_quantity": newStock,
	})
}

// RegenerateProductQR fuerza la regeneración del código QR de un producto
func (api *API) RegenerateProductQR(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	url, err := api.productService.RegenerateQR(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"qr_code": url,
	})
}

// ScanProduct resuelve un producto a partir del payload de un QR escaneado
func (api *API) ScanProduct(c *gin.Context) {
	payload := c.Query("payload")
	if payload == "" {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Missing QR payload", []models.ErrorDetail{
			{Field: "payload", Issue: "QR payload is required"},
		}))
		return
	}

	product, err := api.productService.LookupByQRPayload(payload)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductStats obtiene los agregados de ventas de un producto
func (api *API) GetProductStats(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	stats, err := api.productService.Stats(id)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteProduct elimina un producto y su artefacto QR
func (api *API) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := api.productService.Delete(c.Request.Context(), id); err != nil {
		api.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
