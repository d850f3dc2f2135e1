package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ShopRepository maneja las operaciones de base de datos para Shop
type ShopRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewShopRepository crea una nueva instancia del repositorio
func NewShopRepository(db *DB, logger *logrus.Logger) *ShopRepository {
	return &ShopRepository{
		db:     db,
		logger: logger,
	}
}

const shopColumns = `id, customer_id, name, postal_code, address_line_1, address_line_2,
		   address_line_3, city, phone_number, email, description, is_active,
		   created_at, updated_at`

func scanShop(row interface{ Scan(...interface{}) error }) (*models.Shop, error) {
	var shop models.Shop
	err := row.Scan(
		&shop.ID, &shop.CustomerID, &shop.Name, &shop.PostalCode,
		&shop.AddressLine1, &shop.AddressLine2, &shop.AddressLine3, &shop.City,
		&shop.PhoneNumber, &shop.Email, &shop.Description, &shop.IsActive,
		&shop.CreatedAt, &shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// Create crea una nueva tienda
func (r *ShopRepository) Create(req *models.CreateShopRequest) (*models.Shop, error) {
	shop := &models.Shop{
		CustomerID:   req.CustomerID,
		Name:         req.Name,
		PostalCode:   req.PostalCode,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		AddressLine3: req.AddressLine3,
		City:         req.City,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		Description:  req.Description,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	query := `
		INSERT INTO shops (
			customer_id, name, postal_code, address_line_1, address_line_2,
			address_line_3, city, phone_number, email, description, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING id
	`

	err := r.db.QueryRowWithTimeout(query,
		shop.CustomerID, shop.Name, shop.PostalCode, shop.AddressLine1,
		shop.AddressLine2, shop.AddressLine3, shop.City, shop.PhoneNumber,
		shop.Email, shop.Description, shop.IsActive, shop.CreatedAt, shop.UpdatedAt,
	).Scan(&shop.ID)

	if err != nil {
		return nil, fmt.Errorf("error creating shop: %w", err)
	}

	return shop, nil
}

// GetByID obtiene una tienda por ID
func (r *ShopRepository) GetByID(id int64) (*models.Shop, error) {
	query := `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE id = $1
	`

	shop, err := scanShop(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("shop not found: %d", id)
		}
		return nil, fmt.Errorf("error querying shop: %w", err)
	}

	return shop, nil
}

// GetByCustomerAndName obtiene una tienda por cliente y nombre
func (r *ShopRepository) GetByCustomerAndName(customerID int64, name string) (*models.Shop, error) {
	query := `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE customer_id = $1 AND name = $2
	`

	shop, err := scanShop(r.db.QueryRowWithTimeout(query, customerID, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("shop not found with name %s for customer %d", name, customerID)
		}
		return nil, fmt.Errorf("error querying shop: %w", err)
	}

	return shop, nil
}

// GetByCustomerID obtiene todas las tiendas de un cliente
func (r *ShopRepository) GetByCustomerID(customerID int64) ([]models.Shop, error) {
	query := `
		SELECT ` + shopColumns + `
		FROM shops
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryWithTimeout(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("error querying shops: %w", err)
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning shop: %w", err)
		}
		shops = append(shops, *shop)
	}

	return shops, rows.Err()
}

// Update actualiza una tienda existente
func (r *ShopRepository) Update(id int64, req *models.UpdateShopRequest) (*models.Shop, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.PostalCode != nil {
		existing.PostalCode = *req.PostalCode
	}
	if req.AddressLine1 != nil {
		existing.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		existing.AddressLine2 = req.AddressLine2
	}
	if req.AddressLine3 != nil {
		existing.AddressLine3 = req.AddressLine3
	}
	if req.City != nil {
		existing.City = *req.City
	}
	if req.PhoneNumber != nil {
		existing.PhoneNumber = req.PhoneNumber
	}
	if req.Email != nil {
		existing.Email = req.Email
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now()

	query := `
		UPDATE shops
		SET name = $1, postal_code = $2, address_line_1 = $3, address_line_2 = $4,
		    address_line_3 = $5, city = $6, phone_number = $7, email = $8,
		    description = $9, is_active = $10, updated_at = $11
		WHERE id = $12
	`

	result, err := r.db.ExecWithTimeout(query,
		existing.Name, existing.PostalCode, existing.AddressLine1, existing.AddressLine2,
		existing.AddressLine3, existing.City, existing.PhoneNumber, existing.Email,
		existing.Description, existing.IsActive, existing.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating shop: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("shop not found: %d", id)
	}

	return existing, nil
}

// Delete elimina una tienda
func (r *ShopRepository) Delete(id int64) error {
	result, err := r.db.ExecWithTimeout(`DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting shop: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("shop not found: %d", id)
	}

	return nil
}
