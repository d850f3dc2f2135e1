package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProductRepository maneja las operaciones de base de datos para Product
type ProductRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewProductRepository crea una nueva instancia del repositorio
func NewProductRepository(db *DB, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, shop_id, name, description, price, sku, stock_quantity,
		   qr_code_path, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var product models.Product
	err := row.Scan(
		&product.ID, &product.ShopID, &product.Name, &product.Description,
		&product.Price, &product.SKU, &product.StockQuantity,
		&product.QRCodePath, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create crea un nuevo producto
func (r *ProductRepository) Create(req *models.CreateProductRequest) (*models.Product, error) {
	stock := 0
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}

	product := &models.Product{
		ID:            uuid.New(),
		ShopID:        req.ShopID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		SKU:           req.SKU,
		StockQuantity: stock,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	query := `
		INSERT INTO products (
			id, shop_id, name, description, price, sku, stock_quantity,
			is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.ExecWithTimeout(query,
		product.ID, product.ShopID, product.Name, product.Description,
		product.Price, product.SKU, product.StockQuantity,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	return product, nil
}

// GetByID obtiene un producto por ID
func (r *ProductRepository) GetByID(id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found: %s", id)
		}
		return nil, fmt.Errorf("error querying product: %w", err)
	}

	return product, nil
}

// GetByShopID obtiene todos los productos de una tienda
func (r *ProductRepository) GetByShopID(shopID int64, activeOnly bool) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE shop_id = $1
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY created_at DESC, name"

	rows, err := r.db.QueryWithTimeout(query, shopID)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search busca productos por nombre o SKU
func (r *ProductRepository) Search(term string) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR sku ILIKE $1
		ORDER BY name
	`

	rows, err := r.db.QueryWithTimeout(query, "%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("error searching products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// Update actualiza los campos de identidad y presentación de un producto.
// El stock nunca se toca por esta vía, sólo a través de AdjustStock.
func (r *ProductRepository) Update(id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.ShopID != nil {
		existing.ShopID = *req.ShopID
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Price != nil {
		existing.Price = req.Price
	}
	if req.SKU != nil {
		existing.SKU = req.SKU
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET shop_id = $1, name = $2, description = $3, price = $4, sku = $5,
		    is_active = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecWithTimeout(query,
		existing.ShopID, existing.Name, existing.Description, existing.Price,
		existing.SKU, existing.IsActive, existing.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("product not found: %s", id)
	}

	return existing, nil
}

// UpdateQRPath actualiza la ruta del artefacto QR del producto
func (r *ProductRepository) UpdateQRPath(id uuid.UUID, path *string) error {
	query := `
		UPDATE products
		SET qr_code_path = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.ExecWithTimeout(query, path, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating product QR path: %w", err)
	}

	return nil
}

// Delete elimina un producto. Las compras dependientes caen en cascada a
// nivel de esquema. Retorna la ruta del QR para que el caller borre el
// artefacto del storage.
func (r *ProductRepository) Delete(id uuid.UUID) (*string, error) {
	product, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecWithTimeout(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("error deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("product not found: %s", id)
	}

	return product.QRCodePath, nil
}

// AdjustStockTx aplica un delta firmado al stock dentro de una transacción.
// El UPDATE condicional hace la secuencia check-then-write en una sola
// operación atómica: dos compras concurrentes no pueden pasar ambas el
// chequeo contra un stock obsoleto.
func (r *ProductRepository) AdjustStockTx(tx *sql.Tx, id uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = $2
		WHERE id = $3 AND stock_quantity + $1 >= 0
		RETURNING stock_quantity
	`

	var newStock int
	err := tx.QueryRow(query, delta, time.Now(), id).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("error adjusting stock: %w", err)
	}

	// Cero filas: o el producto no existe, o el delta dejaría el stock
	// negativo. Releer una vez para distinguir.
	var available int
	err = tx.QueryRow(`SELECT stock_quantity FROM products WHERE id = $1`, id).Scan(&available)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("product not found: %s", id)
	}
	if err != nil {
		return 0, fmt.Errorf("error querying stock: %w", err)
	}

	return 0, &models.InsufficientStockError{
		ProductID: id.String(),
		Requested: -delta,
		Available: available,
	}
}

// AdjustStock aplica un delta firmado al stock en su propia transacción.
// Es el único punto de entrada para mutaciones de stock fuera del ciclo de
// vida de las compras (correcciones manuales).
func (r *ProductRepository) AdjustStock(id uuid.UUID, delta int) (int, error) {
	var newStock int
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		var txErr error
		newStock, txErr = r.AdjustStockTx(tx, id, delta)
		return txErr
	})
	if err != nil {
		return 0, err
	}

	return newStock, nil
}
