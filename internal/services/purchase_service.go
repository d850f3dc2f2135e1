package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReceiptSender envía el recibo de una compra completada. Puede ser nil
// cuando el servicio de email no está configurado.
type ReceiptSender interface {
	SendPurchaseReceipt(ctx context.Context, purchase *models.Purchase, customer *models.Customer, receiptPDF []byte) error
}

// PurchaseService maneja la lógica de negocio para Purchase. Cada compra
// mueve stock: crear consume, reducir cantidad devuelve, borrar restaura.
// El estado de pago nunca mueve stock.
type PurchaseService struct {
	purchaseRepo *database.PurchaseRepository
	productRepo  *database.ProductRepository
	customerRepo *database.CustomerRepository
	cache        *database.Redis
	receipts     *ReceiptGenerator
	sender       ReceiptSender
	logger       *logrus.Logger
}

// NewPurchaseService crea una nueva instancia del servicio. cache y sender
// pueden ser nil.
func NewPurchaseService(db *database.DB, cache *database.Redis, sender ReceiptSender, logger *logrus.Logger) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: database.NewPurchaseRepository(db, logger),
		productRepo:  database.NewProductRepository(db, logger),
		customerRepo: database.NewCustomerRepository(db, logger),
		cache:        cache,
		receipts:     NewReceiptGenerator(logger),
		sender:       sender,
		logger:       logger,
	}
}

// Create valida y registra una compra, consumiendo stock de forma atómica.
// El precio unitario por defecto es el precio actual del producto; si
// ninguno de los dos existe la compra se rechaza.
func (s *PurchaseService) Create(ctx context.Context, req *models.CreatePurchaseRequest) (*models.Purchase, error) {
	if req.Quantity <= 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
			{Field: "quantity", Issue: "Quantity must be greater than zero"},
		}))
	}

	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Product %s not found", req.ProductID)))
	}
	if !product.IsActive {
		return nil, models.NewAPIError(models.NewConflictError(
			fmt.Sprintf("Product %s is inactive", req.ProductID)))
	}

	customer, err := s.customerRepo.GetByID(req.CustomerID)
	if err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Customer %d not found", req.CustomerID)))
	}
	if !customer.IsActive {
		return nil, models.NewAPIError(models.NewConflictError(
			fmt.Sprintf("Customer %d is inactive", req.CustomerID)))
	}

	unitPrice := req.UnitPrice
	if unitPrice == nil {
		unitPrice = product.Price
	}
	if unitPrice == nil {
		return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
			{Field: "unit_price", Issue: "Unit price is required when the product has no price"},
		}))
	}
	if !unitPrice.IsPositive() {
		return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
			{Field: "unit_price", Issue: "Unit price must be greater than zero"},
		}))
	}

	paymentStatus := models.PaymentStatusPending
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.IsValid() {
			return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
				{Field: "payment_status", Issue: fmt.Sprintf("Unknown payment status %q", *req.PaymentStatus)},
			}))
		}
		paymentStatus = *req.PaymentStatus
	}

	purchaseMethod := models.PurchaseMethodCash
	if req.PurchaseMethod != nil {
		if !req.PurchaseMethod.IsValid() {
			return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
				{Field: "purchase_method", Issue: fmt.Sprintf("Unknown purchase method %q", *req.PurchaseMethod)},
			}))
		}
		purchaseMethod = *req.PurchaseMethod
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	now := time.Now()
	purchase := &models.Purchase{
		ID:             uuid.New(),
		ProductID:      req.ProductID,
		CustomerID:     req.CustomerID,
		Quantity:       req.Quantity,
		UnitPrice:      *unitPrice,
		TotalAmount:    models.ComputeTotal(req.Quantity, *unitPrice),
		PaymentStatus:  paymentStatus,
		PurchaseMethod: purchaseMethod,
		Notes:          req.Notes,
		IsActive:       true,
		Date:           date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	s.invalidateProductCache(purchase.ProductID)

	s.logger.WithFields(logrus.Fields{
		"purchase_id":   purchase.ID,
		"purchase_code": purchase.Code(),
		"product_id":    purchase.ProductID,
		"customer_id":   purchase.CustomerID,
		"quantity":      purchase.Quantity,
		"total":         purchase.TotalAmount.String(),
	}).Info("Purchase created successfully")

	if purchase.PaymentStatus == models.PaymentStatusCompleted {
		s.sendReceipt(ctx, purchase.ID, customer)
	}

	return purchase, nil
}

// GetByID obtiene una compra por ID
func (s *PurchaseService) GetByID(id uuid.UUID) (*models.Purchase, error) {
	return s.purchaseRepo.GetByID(id)
}

// List obtiene compras con filtros y paginación
func (s *PurchaseService) List(filter *models.PurchaseFilter) (*models.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	purchases, total, err := s.purchaseRepo.List(filter)
	if err != nil {
		return nil, err
	}

	return &models.PurchaseListResponse{
		Items:    purchases,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	}, nil
}

// Update actualiza una compra. Producto y cliente son inmutables; un
// cambio de cantidad ajusta el stock con delta = anterior − nueva dentro
// de la misma transacción que la escritura.
func (s *PurchaseService) Update(ctx context.Context, id uuid.UUID, req *models.UpdatePurchaseRequest) (*models.Purchase, error) {
	existing, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Purchase %s not found", id)))
	}

	if req.ProductID != nil && *req.ProductID != existing.ProductID {
		return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
			{Field: "product", Issue: "Product reference cannot be changed after creation"},
		}))
	}
	if req.CustomerID != nil && *req.CustomerID != existing.CustomerID {
		return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
			{Field: "customer", Issue: "Customer reference cannot be changed after creation"},
		}))
	}

	updated := *existing
	wasCompleted := existing.PaymentStatus == models.PaymentStatusCompleted

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
				{Field: "quantity", Issue: "Quantity must be greater than zero"},
			}))
		}
		updated.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if !req.UnitPrice.IsPositive() {
			return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
				{Field: "unit_price", Issue: "Unit price must be greater than zero"},
			}))
		}
		updated.UnitPrice = *req.UnitPrice
	}
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.IsValid() {
			return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
				{Field: "payment_status", Issue: fmt.Sprintf("Unknown payment status %q", *req.PaymentStatus)},
			}))
		}
		updated.PaymentStatus = *req.PaymentStatus
	}
	if req.PurchaseMethod != nil {
		if !req.PurchaseMethod.IsValid() {
			return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
				{Field: "purchase_method", Issue: fmt.Sprintf("Unknown purchase method %q", *req.PurchaseMethod)},
			}))
		}
		updated.PurchaseMethod = *req.PurchaseMethod
	}
	if req.Notes != nil {
		updated.Notes = req.Notes
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	updated.TotalAmount = models.ComputeTotal(updated.Quantity, updated.UnitPrice)

	stockDelta := existing.Quantity - updated.Quantity
	if err := s.purchaseRepo.Update(&updated, stockDelta); err != nil {
		return nil, err
	}

	if stockDelta != 0 {
		s.invalidateProductCache(updated.ProductID)
	}

	s.logger.WithFields(logrus.Fields{
		"purchase_id": updated.ID,
		"stock_delta": stockDelta,
	}).Info("Purchase updated")

	if !wasCompleted && updated.PaymentStatus == models.PaymentStatusCompleted {
		s.sendReceipt(ctx, updated.ID, nil)
	}

	return &updated, nil
}

// UpdatePaymentStatus cambia el estado de pago sin tocar stock
func (s *PurchaseService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus) (*models.Purchase, error) {
	if !status.IsValid() {
		return nil, models.NewAPIError(models.NewValidationError("Invalid purchase data", []models.ErrorDetail{
			{Field: "payment_status", Issue: fmt.Sprintf("Unknown payment status %q", status)},
		}))
	}

	existing, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Purchase %s not found", id)))
	}

	if err := s.purchaseRepo.UpdatePaymentStatus(id, status); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"purchase_id": id,
		"from":        existing.PaymentStatus,
		"to":          status,
	}).Info("Payment status updated")

	if existing.PaymentStatus != models.PaymentStatusCompleted && status == models.PaymentStatusCompleted {
		s.sendReceipt(ctx, id, nil)
	}

	existing.PaymentStatus = status
	return existing, nil
}

// ToggleActive invierte el flag is_active de la compra
func (s *PurchaseService) ToggleActive(id uuid.UUID) (bool, error) {
	return s.purchaseRepo.ToggleActive(id)
}

// Delete elimina una compra restaurando el stock consumido
func (s *PurchaseService) Delete(id uuid.UUID) error {
	existing, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.purchaseRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateProductCache(existing.ProductID)

	s.logger.WithFields(logrus.Fields{
		"purchase_id":    id,
		"restored_stock": existing.Quantity,
	}).Info("Purchase deleted, stock restored")

	return nil
}

// Stats calcula las estadísticas agregadas de compras
func (s *PurchaseService) Stats() (*models.PurchaseStats, error) {
	return s.purchaseRepo.Stats()
}

// sendReceipt genera y envía el recibo de la compra. El fallo del envío
// nunca afecta la operación que lo disparó.
func (s *PurchaseService) sendReceipt(ctx context.Context, purchaseID uuid.UUID, customer *models.Customer) {
	if s.sender == nil {
		return
	}

	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"purchase_id": purchaseID,
			"error":       err.Error(),
		}).Warn("Could not load purchase for receipt")
		return
	}

	if customer == nil {
		customer, err = s.customerRepo.GetByID(purchase.CustomerID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"purchase_id": purchaseID,
				"error":       err.Error(),
			}).Warn("Could not load customer for receipt")
			return
		}
	}

	pdf, err := s.receipts.GeneratePurchaseReceipt(purchase, customer)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"purchase_id": purchaseID,
			"error":       err.Error(),
		}).Warn("Could not generate receipt PDF")
		return
	}

	if err := s.sender.SendPurchaseReceipt(ctx, purchase, customer, pdf); err != nil {
		s.logger.WithFields(logrus.Fields{
			"purchase_id": purchaseID,
			"error":       err.Error(),
		}).Warn("Could not send receipt email")
	}
}

func (s *PurchaseService) invalidateProductCache(id uuid.UUID) {
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
