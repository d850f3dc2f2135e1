package services

import (
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ContactService maneja la lógica de negocio para CustomerContact
type ContactService struct {
	contactRepo  *database.ContactRepository
	customerRepo *database.CustomerRepository
	logger       *logrus.Logger
}

// NewContactService crea una nueva instancia del servicio
func NewContactService(db *database.DB, logger *logrus.Logger) *ContactService {
	return &ContactService{
		contactRepo:  database.NewContactRepository(db, logger),
		customerRepo: database.NewCustomerRepository(db, logger),
		logger:       logger,
	}
}

// Create registra un contacto para un cliente existente
func (s *ContactService) Create(req *models.CreateContactRequest) (*models.CustomerContact, error) {
	if details := validateContactNumbers(&req.WANumber, &req.TPNumber); len(details) > 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid contact data", details))
	}

	if _, err := s.customerRepo.GetByID(req.CustomerID); err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Customer %d not found", req.CustomerID)))
	}

	now := time.Now()
	contact := &models.CustomerContact{
		CustomerID: req.CustomerID,
		Email:      req.Email,
		WANumber:   req.WANumber,
		TPNumber:   req.TPNumber,
		IsPrimary:  req.IsPrimary,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.contactRepo.Create(contact); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"contact_id":  contact.ID,
		"customer_id": contact.CustomerID,
		"is_primary":  contact.IsPrimary,
	}).Info("Contact created successfully")

	return contact, nil
}

// GetByID obtiene un contacto por ID
func (s *ContactService) GetByID(id int64) (*models.CustomerContact, error) {
	return s.contactRepo.GetByID(id)
}

// GetByCustomerID obtiene los contactos de un cliente
func (s *ContactService) GetByCustomerID(customerID int64) ([]models.CustomerContact, error) {
	return s.contactRepo.GetByCustomerID(customerID)
}

// Update actualiza un contacto existente
func (s *ContactService) Update(id int64, req *models.UpdateContactRequest) (*models.CustomerContact, error) {
	if details := validateContactNumbers(req.WANumber, req.TPNumber); len(details) > 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid contact data", details))
	}

	contact, err := s.contactRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.WANumber != nil {
		contact.WANumber = *req.WANumber
	}
	if req.TPNumber != nil {
		contact.TPNumber = *req.TPNumber
	}
	if req.IsPrimary != nil {
		contact.IsPrimary = *req.IsPrimary
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := s.contactRepo.Update(contact); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"contact_id": contact.ID}).Info("Contact updated")
	return contact, nil
}

// Delete elimina un contacto
func (s *ContactService) Delete(id int64) error {
	if err := s.contactRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"contact_id": id}).Info("Contact deleted")
	return nil
}

func validateContactNumbers(waNumber, tpNumber *string) []models.ErrorDetail {
	var details []models.ErrorDetail

	if waNumber != nil && *waNumber != "" && !phonePattern.MatchString(*waNumber) {
		details = append(details, models.ErrorDetail{
			Field: "wa_number",
			Issue: "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed.",
		})
	}
	if tpNumber != nil && *tpNumber != "" && !phonePattern.MatchString(*tpNumber) {
		details = append(details, models.ErrorDetail{
			Field: "tp_number",
			Issue: "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed.",
		})
	}

	return details
}
