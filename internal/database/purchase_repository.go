package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PurchaseRepository maneja las operaciones de base de datos para Purchase.
// Cada escritura de compra y su ajuste de stock se confirman como una sola
// unidad atómica: si el commit falla, ambos se revierten juntos.
type PurchaseRepository struct {
	db       *DB
	products *ProductRepository
	logger   *logrus.Logger
}

// NewPurchaseRepository crea una nueva instancia del repositorio
func NewPurchaseRepository(db *DB, logger *logrus.Logger) *PurchaseRepository {
	return &PurchaseRepository{
		db:       db,
		products: NewProductRepository(db, logger),
		logger:   logger,
	}
}

const purchaseColumns = `p.id, p.product_id, p.customer_id, p.quantity, p.unit_price,
		   p.total_amount, p.payment_status, p.purchase_method, p.notes,
		   p.is_active, p.date, p.created_at, p.updated_at`

const purchaseJoins = `
	FROM purchases p
	JOIN products pr ON p.product_id = pr.id
	JOIN customers c ON p.customer_id = c.id
	JOIN shops s ON pr.shop_id = s.id
`

func scanPurchase(row interface{ Scan(...interface{}) error }) (*models.Purchase, error) {
	var purchase models.Purchase
	err := row.Scan(
		&purchase.ID, &purchase.ProductID, &purchase.CustomerID, &purchase.Quantity,
		&purchase.UnitPrice, &purchase.TotalAmount, &purchase.PaymentStatus,
		&purchase.PurchaseMethod, &purchase.Notes, &purchase.IsActive,
		&purchase.Date, &purchase.CreatedAt, &purchase.UpdatedAt,
		&purchase.ProductName, &purchase.CustomerName, &purchase.ShopName,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// Create inserta la compra y consume el stock en la misma transacción.
// Si el stock no alcanza, nada se persiste.
func (r *PurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := r.products.AdjustStockTx(tx, purchase.ProductID, -purchase.Quantity); err != nil {
			return err
		}

		query := `
			INSERT INTO purchases (
				id, product_id, customer_id, quantity, unit_price, total_amount,
				payment_status, purchase_method, notes, is_active, date,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
			)
		`

		_, err := tx.Exec(query,
			purchase.ID, purchase.ProductID, purchase.CustomerID, purchase.Quantity,
			purchase.UnitPrice, purchase.TotalAmount, purchase.PaymentStatus,
			purchase.PurchaseMethod, purchase.Notes, purchase.IsActive, purchase.Date,
			purchase.CreatedAt, purchase.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error inserting purchase: %w", err)
		}

		return nil
	})
}

// GetByID obtiene una compra por ID con los nombres relacionados
func (r *PurchaseRepository) GetByID(id uuid.UUID) (*models.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `,
			   pr.name, c.first_name || ' ' || c.last_name, s.name
		` + purchaseJoins + `
		WHERE p.id = $1
	`

	purchase, err := scanPurchase(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("purchase not found: %s", id)
		}
		return nil, fmt.Errorf("error querying purchase: %w", err)
	}

	return purchase, nil
}

// List obtiene compras con filtros y paginación
func (r *PurchaseRepository) List(filter *models.PurchaseFilter) ([]models.Purchase, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	addArg := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.CustomerID != nil {
		addArg("p.customer_id = $%d", *filter.CustomerID)
	}
	if filter.ProductID != nil {
		addArg("p.product_id = $%d", *filter.ProductID)
	}
	if filter.ShopID != nil {
		addArg("pr.shop_id = $%d", *filter.ShopID)
	}
	if filter.PaymentStatus != nil {
		addArg("p.payment_status = $%d", string(*filter.PaymentStatus))
	}
	if filter.IsActive != nil {
		addArg("p.is_active = $%d", *filter.IsActive)
	}
	if filter.StartDate != nil {
		addArg("p.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addArg("p.date <= $%d", *filter.EndDate)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(pr.name ILIKE $%d OR s.name ILIKE $%d OR c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR p.notes ILIKE $%d)",
			n, n, n, n, n))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) " + purchaseJoins + " WHERE " + where
	var total int
	if err := r.db.QueryRowWithTimeout(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting purchases: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := `
		SELECT ` + purchaseColumns + `,
			   pr.name, c.first_name || ' ' || c.last_name, s.name
		` + purchaseJoins + `
		WHERE ` + where + `
		ORDER BY p.date DESC, p.created_at DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := r.db.QueryWithTimeout(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning purchase: %w", err)
		}
		purchases = append(purchases, *purchase)
	}

	return purchases, total, rows.Err()
}

// Update persiste los campos mutables de la compra y aplica el delta de
// stock correspondiente al cambio de cantidad en la misma transacción.
// delta = cantidad_anterior − cantidad_nueva: comprar más consume stock,
// comprar menos lo devuelve.
func (r *PurchaseRepository) Update(purchase *models.Purchase, stockDelta int) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if stockDelta != 0 {
			if _, err := r.products.AdjustStockTx(tx, purchase.ProductID, stockDelta); err != nil {
				return err
			}
		}

		query := `
			UPDATE purchases
			SET quantity = $1, unit_price = $2, total_amount = $3,
			    payment_status = $4, purchase_method = $5, notes = $6,
			    is_active = $7, date = $8, updated_at = $9
			WHERE id = $10
		`

		result, err := tx.Exec(query,
			purchase.Quantity, purchase.UnitPrice, purchase.TotalAmount,
			purchase.PaymentStatus, purchase.PurchaseMethod, purchase.Notes,
			purchase.IsActive, purchase.Date, time.Now(), purchase.ID,
		)
		if err != nil {
			return fmt.Errorf("error updating purchase: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("purchase not found: %s", purchase.ID)
		}

		return nil
	})
}

// UpdatePaymentStatus actualiza únicamente el estado de pago. El stock no
// se toca: lo gobierna la cantidad y la existencia de la fila, no el pago.
func (r *PurchaseRepository) UpdatePaymentStatus(id uuid.UUID, status models.PaymentStatus) error {
	result, err := r.db.ExecWithTimeout(
		`UPDATE purchases SET payment_status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("error updating payment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("purchase not found: %s", id)
	}

	return nil
}

// ToggleActive invierte el flag is_active de la compra
func (r *PurchaseRepository) ToggleActive(id uuid.UUID) (bool, error) {
	var isActive bool
	err := r.db.QueryRowWithTimeout(
		`UPDATE purchases SET is_active = NOT is_active, updated_at = $1 WHERE id = $2 RETURNING is_active`,
		time.Now(), id,
	).Scan(&isActive)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("purchase not found: %s", id)
	}
	if err != nil {
		return false, fmt.Errorf("error toggling purchase status: %w", err)
	}

	return isActive, nil
}

// Delete elimina la compra y restaura el stock consumido en la misma
// transacción. Si el producto ya no existe, la restauración se omite.
func (r *PurchaseRepository) Delete(id uuid.UUID) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		var productID uuid.UUID
		var quantity int
		err := tx.QueryRow(
			`SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE`,
			id,
		).Scan(&productID, &quantity)
		if err == sql.ErrNoRows {
			return fmt.Errorf("purchase not found: %s", id)
		}
		if err != nil {
			return fmt.Errorf("error querying purchase: %w", err)
		}

		// Restauración: un delta positivo nunca puede fallar por stock, y
		// cero filas significa que el producto fue borrado.
		_, err = tx.Exec(
			`UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = $2 WHERE id = $3`,
			quantity, time.Now(), productID,
		)
		if err != nil {
			return fmt.Errorf("error restoring stock: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM purchases WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error deleting purchase: %w", err)
		}

		return nil
	})
}

// Stats calcula las estadísticas agregadas de compras
func (r *PurchaseRepository) Stats() (*models.PurchaseStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE payment_status = 'completed'),
			COUNT(*) FILTER (WHERE payment_status = 'pending'),
			COUNT(*) FILTER (WHERE payment_status = 'failed'),
			COUNT(*) FILTER (WHERE payment_status = 'refunded'),
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed'), 0),
			AVG(total_amount) FILTER (WHERE payment_status = 'completed'),
			COUNT(DISTINCT customer_id),
			COUNT(DISTINCT product_id)
		FROM purchases
	`

	var stats models.PurchaseStats
	var avg *decimal.Decimal
	err := r.db.QueryRowWithTimeout(query).Scan(
		&stats.TotalPurchases, &stats.CompletedPurchases, &stats.PendingPurchases,
		&stats.FailedPurchases, &stats.RefundedPurchases, &stats.TotalRevenue,
		&avg, &stats.UniqueCustomers, &stats.UniqueProducts,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying purchase stats: %w", err)
	}
	stats.AveragePurchaseAmount = avg

	return &stats, nil
}

// ProductStats calcula los agregados de ventas de un producto
func (r *PurchaseRepository) ProductStats(productID uuid.UUID) (*models.ProductStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'completed'), 0)
		FROM purchases
		WHERE product_id = $1
	`

	var stats models.ProductStats
	err := r.db.QueryRowWithTimeout(query, productID).Scan(
		&stats.PurchaseCount, &stats.TotalSoldQuantity, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying product stats: %w", err)
	}

	return &stats, nil
}
