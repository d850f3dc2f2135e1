package services

import (
	"fmt"
	"regexp"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// ShopService maneja la lógica de negocio para Shop
type ShopService struct {
	shopRepo     *database.ShopRepository
	customerRepo *database.CustomerRepository
	logger       *logrus.Logger
}

// NewShopService crea una nueva instancia del servicio
func NewShopService(db *database.DB, logger *logrus.Logger) *ShopService {
	return &ShopService{
		shopRepo:     database.NewShopRepository(db, logger),
		customerRepo: database.NewCustomerRepository(db, logger),
		logger:       logger,
	}
}

// Create valida y registra una nueva tienda. El nombre debe ser único
// dentro de las tiendas del mismo cliente.
func (s *ShopService) Create(req *models.CreateShopRequest) (*models.Shop, error) {
	if !postalCodePattern.MatchString(req.PostalCode) {
		return nil, models.NewAPIError(models.NewValidationError("Invalid shop data", []models.ErrorDetail{
			{Field: "postal_code", Issue: "Postal code must be exactly 5 digits"},
		}))
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

	if existing, err := s.shopRepo.GetByCustomerAndName(req.CustomerID, req.Name); err == nil && existing != nil {
		return nil, models.NewAPIError(models.NewConflictError(
			fmt.Sprintf("Customer already has a shop named %q", req.Name)))
	}

	shop, err := s.shopRepo.Create(req)
	if err != nil {
		return nil, fmt.Errorf("error creating shop: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"shop_id":     shop.ID,
		"customer_id": shop.CustomerID,
		"name":        shop.Name,
	}).Info("Shop created successfully")

	return shop, nil
}

// GetByID obtiene una tienda por ID
func (s *ShopService) GetByID(id int64) (*models.Shop, error) {
	return s.shopRepo.GetByID(id)
}

// GetByCustomerID obtiene las tiendas de un cliente
func (s *ShopService) GetByCustomerID(customerID int64) ([]models.Shop, error) {
	return s.shopRepo.GetByCustomerID(customerID)
}

// Update actualiza una tienda preservando la unicidad de nombre por cliente
func (s *ShopService) Update(id int64, req *models.UpdateShopRequest) (*models.Shop, error) {
	if req.PostalCode != nil && !postalCodePattern.MatchString(*req.PostalCode) {
		return nil, models.NewAPIError(models.NewValidationError("Invalid shop data", []models.ErrorDetail{
			{Field: "postal_code", Issue: "Postal code must be exactly 5 digits"},
		}))
	}

	if req.Name != nil {
		current, err := s.shopRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if existing, err := s.shopRepo.GetByCustomerAndName(current.CustomerID, *req.Name); err == nil &&
			existing != nil && existing.ID != id {
			return nil, models.NewAPIError(models.NewConflictError(
				fmt.Sprintf("Customer already has a shop named %q", *req.Name)))
		}
	}

	shop, err := s.shopRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"shop_id": shop.ID}).Info("Shop updated")
	return shop, nil
}

// Delete elimina una tienda
func (s *ShopService) Delete(id int64) error {
	if err := s.shopRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"shop_id": id}).Info("Shop deleted")
	return nil
}
