package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	// NIC de Sri Lanka: formato viejo de 9 dígitos más letra V/X, o el
	// formato nuevo de 12 dígitos.
	nicPattern = regexp.MustCompile(`^(?:\d{9}[vVxX]|\d{12})$`)

	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// CustomerService maneja la lógica de negocio para Customer
type CustomerService struct {
	customerRepo *database.CustomerRepository
	logger       *logrus.Logger
}

// NewCustomerService crea una nueva instancia del servicio
func NewCustomerService(db *database.DB, logger *logrus.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: database.NewCustomerRepository(db, logger),
		logger:       logger,
	}
}

// Create valida y registra un nuevo cliente, asignando su código secuencial
func (s *CustomerService) Create(req *models.CreateCustomerRequest) (*models.Customer, error) {
	req.NIC = strings.TrimSpace(req.NIC)
	if details := validateCustomerFields(req.NIC, req.PhoneNumber); len(details) > 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid customer data", details))
	}

	existing, err := s.customerRepo.GetByNIC(req.NIC)
	if err == nil && existing != nil {
		return nil, models.NewAPIError(models.NewConflictError(
			fmt.Sprintf("A customer with NIC %s already exists", req.NIC)))
	}

	customer, err := s.customerRepo.Create(req)
	if err != nil {
		return nil, fmt.Errorf("error creating customer: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id":   customer.ID,
		"customer_code": customer.CustomerCode,
	}).Info("Customer created successfully")

	return customer, nil
}

// GetByID obtiene un cliente por ID
func (s *CustomerService) GetByID(id int64) (*models.Customer, error) {
	return s.customerRepo.GetByID(id)
}

// List obtiene clientes con búsqueda y paginación
func (s *CustomerService) List(search string, page, pageSize int) ([]models.Customer, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.customerRepo.List(search, page, pageSize)
}

// Update actualiza un cliente. El NIC y el código de cliente no cambian
// nunca: identifican al cliente ante el resto del sistema.
func (s *CustomerService) Update(id int64, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if req.PhoneNumber != nil && *req.PhoneNumber != "" && !phonePattern.MatchString(*req.PhoneNumber) {
		return nil, models.NewAPIError(models.NewValidationError("Invalid customer data", []models.ErrorDetail{
			{Field: "phone_number", Issue: "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."},
		}))
	}

	customer, err := s.customerRepo.Update(id, req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
	}).Info("Customer updated")

	return customer, nil
}

// Verify marca un cliente como verificado
func (s *CustomerService) Verify(id int64) error {
	if err := s.customerRepo.SetVerified(id, true); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"customer_id": id}).Info("Customer verified")
	return nil
}

// Delete elimina un cliente y sus datos asociados
func (s *CustomerService) Delete(id int64) error {
	if err := s.customerRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"customer_id": id}).Info("Customer deleted")
	return nil
}

func validateCustomerFields(nic string, phone *string) []models.ErrorDetail {
	var details []models.ErrorDetail

	if !nicPattern.MatchString(nic) {
		details = append(details, models.ErrorDetail{
			Field: "nic",
			Issue: "NIC must be 9 digits followed by V/X (old format) or 12 digits (new format)",
		})
	}

	if phone != nil && *phone != "" && !phonePattern.MatchString(*phone) {
		details = append(details, models.ErrorDetail{
			Field: "phone_number",
			Issue: "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed.",
		})
	}

	return details
}
