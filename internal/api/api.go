package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/bluekite-labs/shopdesk-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// API maneja todos los endpoints de la API
type API struct {
	customerService *services.CustomerService
	shopService     *services.ShopService
	productService  *services.ProductService
	purchaseService *services.PurchaseService
	contactService  *services.ContactService
	locationService *services.LocationService
	apiKeyRepo      *database.APIKeyRepository
	logger          *logrus.Logger
}

// NewAPI crea una nueva instancia de la API
func NewAPI(
	customerService *services.CustomerService,
	shopService *services.ShopService,
	productService *services.ProductService,
	purchaseService *services.PurchaseService,
	contactService *services.ContactService,
	locationService *services.LocationService,
	apiKeyRepo *database.APIKeyRepository,
	logger *logrus.Logger,
) *API {
	return &API{
		customerService: customerService,
		shopService:     shopService,
		productService:  productService,
		purchaseService: purchaseService,
		contactService:  contactService,
		locationService: locationService,
		apiKeyRepo:      apiKeyRepo,
		logger:          logger,
	}
}

// AuthMiddleware valida la API key del header X-API-Key
func (api *API) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader("X-API-Key")
		if rawKey == "" {
			c.JSON(http.StatusUnauthorized, models.NewUnauthorizedError("Missing API key"))
			c.Abort()
			return
		}

		apiKey, err := api.apiKeyRepo.GetByHash(database.HashAPIKey(rawKey))
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.NewUnauthorizedError("Invalid API key"))
			c.Abort()
			return
		}

		if err := api.apiKeyRepo.UpdateLastUsed(apiKey.ID); err != nil {
			api.logger.WithError(err).Warn("Could not update API key last used")
		}

		c.Set("api_key_id", apiKey.ID)
		c.Next()
	}
}

// CreateAPIKey crea una nueva API key
func (api *API) CreateAPIKey(c *gin.Context) {
	var req models.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	apiKey, rawKey, err := api.apiKeyRepo.Create(req.Name)
	if err != nil {
		api.logger.WithError(err).Error("Error creating API key")
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Error creating API key"))
		return
	}

	c.JSON(http.StatusCreated, models.CreateAPIKeyResponse{
		ID:     apiKey.ID.String(),
		Name:   apiKey.Name,
		APIKey: rawKey,
	})
}

// respondError traduce los errores de negocio a respuestas HTTP
func (api *API) respondError(c *gin.Context, err error) {
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, stockErr.Response())
		return
	}

	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		c.JSON(statusForCode(apiErr.ErrorResponse.Error.Code), apiErr.ErrorResponse)
		return
	}

	if strings.Contains(err.Error(), "not found") {
		c.JSON(http.StatusNotFound, models.NewNotFoundError(err.Error()))
		return
	}

	api.logger.WithError(err).Error("Unhandled error in request")
	c.JSON(http.StatusInternalServerError, models.NewInternalError("Internal server error"))
}

func statusForCode(code string) int {
	switch models.ErrorCode(code) {
	case models.ErrorCodeInvalidRequest:
		return http.StatusBadRequest
	case models.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case models.ErrorCodeForbidden:
		return http.StatusForbidden
	case models.ErrorCodeNotFound:
		return http.StatusNotFound
	case models.ErrorCodeConflict, models.ErrorCodeInsufficientStock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func parseIntParam(c *gin.Context, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid path parameter", []models.ErrorDetail{
			{Field: name, Issue: "Must be a valid integer"},
		}))
		return 0, false
	}
	return value, true
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
