package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var productNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.()&]+$`)

// QRRegenerationQueue encola la regeneración diferida de un código QR.
// Cuando no hay cola configurada la regeneración se hace en línea.
type QRRegenerationQueue interface {
	EnqueueQRRegeneration(ctx context.Context, productID uuid.UUID) error
}

// ProductService maneja la lógica de negocio para Product
type ProductService struct {
	productRepo  *database.ProductRepository
	shopRepo     *database.ShopRepository
	purchaseRepo *database.PurchaseRepository
	cache        *database.Redis
	cacheTTL     time.Duration
	qr           *QRService
	queue        QRRegenerationQueue
	logger       *logrus.Logger
}

// NewProductService crea una nueva instancia del servicio. cache y queue
// pueden ser nil: el servicio degrada a lecturas directas y regeneración
// síncrona de QR.
func NewProductService(db *database.DB, cache *database.Redis, cacheTTL time.Duration, qr *QRService, queue QRRegenerationQueue, logger *logrus.Logger) *ProductService {
	return &ProductService{
		productRepo:  database.NewProductRepository(db, logger),
		shopRepo:     database.NewShopRepository(db, logger),
		purchaseRepo: database.NewPurchaseRepository(db, logger),
		cache:        cache,
		cacheTTL:     cacheTTL,
		qr:           qr,
		queue:        queue,
		logger:       logger,
	}
}

// Create valida y registra un producto, generando su código QR inicial.
// Un fallo del almacenamiento de QR no aborta la creación: el producto
// queda sin artefacto y puede regenerarse después.
func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if details := validateProductFields(req.Name, req.Price, req.StockQuantity); len(details) > 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid product data", details))
	}

	shop, err := s.shopRepo.GetByID(req.ShopID)
	if err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Shop %d not found", req.ShopID)))
	}
	if !shop.IsActive {
		return nil, models.NewAPIError(models.NewConflictError(
			fmt.Sprintf("Shop %d is inactive", req.ShopID)))
	}

	product, err := s.productRepo.Create(req)
	if err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	if url, err := s.qr.Generate(ctx, product, shop); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": product.ID,
			"error":      err.Error(),
		}).Warn("QR generation failed, product created without QR artifact")
	} else {
		product.QRCodePath = &url
	}

	s.logger.WithFields(logrus.Fields{
		"product_id":   product.ID,
		"product_code": product.Code(),
		"shop_id":      product.ShopID,
	}).Info("Product created successfully")

	return product, nil
}

// GetByID obtiene un producto por ID, sirviéndolo desde cache si existe
func (s *ProductService) GetByID(id uuid.UUID) (*models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(productCacheKey(id)); err == nil && cached != "" {
			var product models.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.cacheProduct(product)
	return product, nil
}

// GetByShopID obtiene los productos de una tienda
func (s *ProductService) GetByShopID(shopID int64, activeOnly bool) ([]models.Product, error) {
	return s.productRepo.GetByShopID(shopID, activeOnly)
}

// Search busca productos por nombre o SKU
func (s *ProductService) Search(term string) ([]models.Product, error) {
	return s.productRepo.Search(term)
}

// Update actualiza un producto. Un cambio de nombre o de tienda altera la
// identidad codificada en el QR y dispara su regeneración; cambios de
// precio, SKU o descripción no la disparan.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	if req.Name != nil && !productNamePattern.MatchString(*req.Name) {
		return nil, models.NewAPIError(models.NewValidationError("Invalid product data", []models.ErrorDetail{
			{Field: "name", Issue: "Product name contains invalid characters"},
		}))
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, models.NewAPIError(models.NewValidationError("Invalid product data", []models.ErrorDetail{
			{Field: "price", Issue: "Price cannot be negative"},
		}))
	}

	current, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.ShopID != nil && *req.ShopID != current.ShopID {
		shop, err := s.shopRepo.GetByID(*req.ShopID)
		if err != nil {
			return nil, models.NewAPIError(models.NewNotFoundError(
				fmt.Sprintf("Shop %d not found", *req.ShopID)))
		}
		if !shop.IsActive {
			return nil, models.NewAPIError(models.NewConflictError(
				fmt.Sprintf("Shop %d is inactive", *req.ShopID)))
		}
	}

	identityChanged := (req.Name != nil && *req.Name != current.Name) ||
		(req.ShopID != nil && *req.ShopID != current.ShopID)

	product, err := s.productRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	s.invalidateProduct(id)

	if identityChanged {
		s.requestQRRegeneration(ctx, id)
	}

	return product, nil
}

// AdjustStock aplica una corrección manual de stock como delta firmado.
// Pasa por el mismo camino atómico que las compras: el stock nunca puede
// quedar negativo.
func (s *ProductService) AdjustStock(id uuid.UUID, req *models.AdjustStockRequest) (int, error) {
	if req.Delta == nil || *req.Delta == 0 {
		return 0, models.NewAPIError(models.NewValidationError("Invalid stock adjustment", []models.ErrorDetail{
			{Field: "delta", Issue: "Delta must be a non-zero signed quantity"},
		}))
	}

	newStock, err := s.productRepo.AdjustStock(id, *req.Delta)
	if err != nil {
		return 0, err
	}

	s.invalidateProduct(id)

	fields := logrus.Fields{
		"product_id": id,
		"delta":      *req.Delta,
		"new_stock":  newStock,
	}
	if req.Reason != nil {
		fields["reason"] = *req.Reason
	}
	s.logger.WithFields(fields).Info("Stock adjusted")

	return newStock, nil
}

// RegenerateQR fuerza la regeneración inmediata del QR de un producto
func (s *ProductService) RegenerateQR(ctx context.Context, id uuid.UUID) (string, error) {
	url, err := s.qr.Regenerate(ctx, id)
	if err != nil {
		return "", err
	}

	s.invalidateProduct(id)
	return url, nil
}

// LookupByQRPayload resuelve un producto a partir del texto escaneado de
// un QR. Si el producto del payload ya no existe, intenta por nombre
// dentro de la misma tienda como último recurso.
func (s *ProductService) LookupByQRPayload(payload string) (*models.Product, error) {
	parsed, err := ParseQRPayload(payload)
	if err != nil {
		return nil, models.NewAPIError(models.NewValidationError("Invalid QR payload", []models.ErrorDetail{
			{Field: "payload", Issue: err.Error()},
		}))
	}

	product, err := s.GetByID(parsed.ProductID)
	if err == nil {
		return product, nil
	}

	if parsed.Name != "" && parsed.ShopID != 0 {
		products, err := s.productRepo.GetByShopID(parsed.ShopID, true)
		if err == nil {
			for i := range products {
				if products[i].Name == parsed.Name {
					return &products[i], nil
				}
			}
		}
	}

	return nil, models.NewAPIError(models.NewNotFoundError(
		fmt.Sprintf("Product %s not found", parsed.ProductID)))
}

// Stats obtiene los agregados de ventas de un producto
func (s *ProductService) Stats(id uuid.UUID) (*models.ProductStats, error) {
	if _, err := s.productRepo.GetByID(id); err != nil {
		return nil, err
	}
	return s.purchaseRepo.ProductStats(id)
}

// Delete elimina un producto y su artefacto QR. El fallo al borrar el
// artefacto no revierte la eliminación.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	qrPath, err := s.productRepo.Delete(id)
	if err != nil {
		return err
	}

	s.invalidateProduct(id)

	if qrPath != nil {
		if err := s.qr.storage.Delete(ctx, QRStorageKey(id)); err != nil {
			s.logger.WithFields(logrus.Fields{
				"product_id": id,
				"error":      err.Error(),
			}).Warn("Could not delete QR artifact for removed product")
		}
	}

	s.logger.WithFields(logrus.Fields{"product_id": id}).Info("Product deleted")
	return nil
}

func (s *ProductService) requestQRRegeneration(ctx context.Context, id uuid.UUID) {
	if s.queue != nil {
		if err := s.queue.EnqueueQRRegeneration(ctx, id); err == nil {
			return
		} else {
			s.logger.WithFields(logrus.Fields{
				"product_id": id,
				"error":      err.Error(),
			}).Warn("Could not enqueue QR regeneration, falling back to inline")
		}
	}

	if _, err := s.qr.Regenerate(ctx, id); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": id,
			"error":      err.Error(),
		}).Warn("QR regeneration failed")
	}
}

func (s *ProductService) cacheProduct(product *models.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.SetWithTTL(productCacheKey(product.ID), string(data), s.cacheTTL); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": product.ID,
			"error":      err.Error(),
		}).Debug("Could not cache product")
	}
}

func (s *ProductService) invalidateProduct(id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(productCacheKey(id)); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": id,
			"error":      err.Error(),
		}).Debug("Could not invalidate product cache")
	}
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func validateProductFields(name string, price *decimal.Decimal, stock *int) []models.ErrorDetail {
	var details []models.ErrorDetail

	if !productNamePattern.MatchString(name) {
		details = append(details, models.ErrorDetail{
			Field: "name",
			Issue: "Product name contains invalid characters",
		})
	}
	if price != nil && price.IsNegative() {
		details = append(details, models.ErrorDetail{
			Field: "price",
			Issue: "Price cannot be negative",
		})
	}
	if stock != nil && *stock < 0 {
		details = append(details, models.ErrorDetail{
			Field: "stock_quantity",
			Issue: "Stock quantity cannot be negative",
		})
	}

	return details
}
