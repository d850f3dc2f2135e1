package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

// LocationRepository maneja las operaciones de base de datos para CustomerLocation
type LocationRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewLocationRepository crea una nueva instancia del repositorio
func NewLocationRepository(db *DB, logger *logrus.Logger) *LocationRepository {
	return &LocationRepository{db: db, logger: logger}
}

const locationColumns = `id, shop_id, latitude, longitude, location_name,
		   address_description, accuracy_radius, is_primary, is_active,
		   created_at, updated_at`

func scanLocation(row interface{ Scan(...interface{}) error }) (*models.CustomerLocation, error) {
	var location models.CustomerLocation
	err := row.Scan(
		&location.ID, &location.ShopID, &location.Latitude, &location.Longitude,
		&location.LocationName, &location.AddressDescription, &location.AccuracyRadius,
		&location.IsPrimary, &location.IsActive, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// Create inserta una ubicación. Si llega marcada como primaria, desmarca a
// sus hermanas en la misma transacción para sostener la unicidad.
func (r *LocationRepository) Create(location *models.CustomerLocation) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if location.IsPrimary {
			if err := unsetPrimaryLocations(tx, location.ShopID, 0); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO customer_locations (
				shop_id, latitude, longitude, location_name, address_description,
				accuracy_radius, is_primary, is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`

		err := tx.QueryRow(query,
			location.ShopID, location.Latitude, location.Longitude,
			location.LocationName, location.AddressDescription, location.AccuracyRadius,
			location.IsPrimary, location.IsActive, location.CreatedAt, location.UpdatedAt,
		).Scan(&location.ID)
		if err != nil {
			return fmt.Errorf("error inserting location: %w", err)
		}

		return nil
	})
}

// GetByID obtiene una ubicación por ID
func (r *LocationRepository) GetByID(id int64) (*models.CustomerLocation, error) {
	query := `SELECT ` + locationColumns + ` FROM customer_locations WHERE id = $1`

	location, err := scanLocation(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("location not found: %d", id)
		}
		return nil, fmt.Errorf("error querying location: %w", err)
	}

	return location, nil
}

// GetByShopID obtiene las ubicaciones de una tienda, primaria primero
func (r *LocationRepository) GetByShopID(shopID int64) ([]models.CustomerLocation, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM customer_locations
		WHERE shop_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`

	rows, err := r.db.QueryWithTimeout(query, shopID)
	if err != nil {
		return nil, fmt.Errorf("error querying locations: %w", err)
	}
	defer rows.Close()

	var locations []models.CustomerLocation
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning location: %w", err)
		}
		locations = append(locations, *location)
	}

	return locations, rows.Err()
}

// Update actualiza una ubicación existente, preservando la unicidad de la
// primaria cuando la actualización la promueve.
func (r *LocationRepository) Update(location *models.CustomerLocation) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if location.IsPrimary {
			if err := unsetPrimaryLocations(tx, location.ShopID, location.ID); err != nil {
				return err
			}
		}

		query := `
			UPDATE customer_locations
			SET latitude = $1, longitude = $2, location_name = $3,
			    address_description = $4, accuracy_radius = $5, is_primary = $6,
			    is_active = $7, updated_at = $8
			WHERE id = $9
		`

		result, err := tx.Exec(query,
			location.Latitude, location.Longitude, location.LocationName,
			location.AddressDescription, location.AccuracyRadius, location.IsPrimary,
			location.IsActive, time.Now(), location.ID,
		)
		if err != nil {
			return fmt.Errorf("error updating location: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("location not found: %d", location.ID)
		}

		return nil
	})
}

// Delete elimina una ubicación
func (r *LocationRepository) Delete(id int64) error {
	result, err := r.db.ExecWithTimeout(`DELETE FROM customer_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location not found: %d", id)
	}

	return nil
}

func unsetPrimaryLocations(tx *sql.Tx, shopID, exceptID int64) error {
	_, err := tx.Exec(
		`UPDATE customer_locations SET is_primary = FALSE, updated_at = $1
		 WHERE shop_id = $2 AND is_primary = TRUE AND id <> $3`,
		time.Now(), shopID, exceptID,
	)
	if err != nil {
		return fmt.Errorf("error unsetting primary locations: %w", err)
	}
	return nil
}
