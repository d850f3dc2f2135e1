package services

import (
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	minLatitude  = decimal.NewFromInt(-90)
	maxLatitude  = decimal.NewFromInt(90)
	minLongitude = decimal.NewFromInt(-180)
	maxLongitude = decimal.NewFromInt(180)
)

// LocationService maneja la lógica de negocio para CustomerLocation
type LocationService struct {
	locationRepo *database.LocationRepository
	shopRepo     *database.ShopRepository
	logger       *logrus.Logger
}

// NewLocationService crea una nueva instancia del servicio
func NewLocationService(db *database.DB, logger *logrus.Logger) *LocationService {
	return &LocationService{
		locationRepo: database.NewLocationRepository(db, logger),
		shopRepo:     database.NewShopRepository(db, logger),
		logger:       logger,
	}
}

// Create registra una ubicación para una tienda existente
func (s *LocationService) Create(req *models.CreateLocationRequest) (*models.CustomerLocation, error) {
	if details := validateCoordinates(&req.Latitude, &req.Longitude); len(details) > 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid location data", details))
	}

	if _, err := s.shopRepo.GetByID(req.ShopID); err != nil {
		return nil, models.NewAPIError(models.NewNotFoundError(
			fmt.Sprintf("Shop %d not found", req.ShopID)))
	}

	now := time.Now()
	location := &models.CustomerLocation{
		ShopID:             req.ShopID,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		LocationName:       req.LocationName,
		AddressDescription: req.AddressDescription,
		AccuracyRadius:     req.AccuracyRadius,
		IsPrimary:          req.IsPrimary,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.locationRepo.Create(location); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"location_id": location.ID,
		"shop_id":     location.ShopID,
		"is_primary":  location.IsPrimary,
	}).Info("Location created successfully")

	return location, nil
}

// GetByID obtiene una ubicación por ID
func (s *LocationService) GetByID(id int64) (*models.CustomerLocation, error) {
	return s.locationRepo.GetByID(id)
}

// GetByShopID obtiene las ubicaciones de una tienda
func (s *LocationService) GetByShopID(shopID int64) ([]models.CustomerLocation, error) {
	return s.locationRepo.GetByShopID(shopID)
}

// Update actualiza una ubicación existente
func (s *LocationService) Update(id int64, req *models.UpdateLocationRequest) (*models.CustomerLocation, error) {
	if details := validateCoordinates(req.Latitude, req.Longitude); len(details) > 0 {
		return nil, models.NewAPIError(models.NewValidationError("Invalid location data", details))
	}

	location, err := s.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Latitude != nil {
		location.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		location.Longitude = *req.Longitude
	}
	if req.LocationName != nil {
		location.LocationName = req.LocationName
	}
	if req.AddressDescription != nil {
		location.AddressDescription = req.AddressDescription
	}
	if req.AccuracyRadius != nil {
		location.AccuracyRadius = req.AccuracyRadius
	}
	if req.IsPrimary != nil {
		location.IsPrimary = *req.IsPrimary
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := s.locationRepo.Update(location); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"location_id": location.ID}).Info("Location updated")
	return location, nil
}

// Delete elimina una ubicación
func (s *LocationService) Delete(id int64) error {
	if err := s.locationRepo.Delete(id); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"location_id": id}).Info("Location deleted")
	return nil
}

func validateCoordinates(lat, lon *decimal.Decimal) []models.ErrorDetail {
	var details []models.ErrorDetail

	if lat != nil && (lat.LessThan(minLatitude) || lat.GreaterThan(maxLatitude)) {
		details = append(details, models.ErrorDetail{
			Field: "latitude",
			Issue: "Latitude must be between -90 and 90",
		})
	}
	if lon != nil && (lon.LessThan(minLongitude) || lon.GreaterThan(maxLongitude)) {
		details = append(details, models.ErrorDetail{
			Field: "longitude",
			Issue: "Longitude must be between -180 and 180",
		})
	}

	return details
}
