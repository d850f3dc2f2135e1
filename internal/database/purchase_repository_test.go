package database

import (
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stockAdjustSQL = regexp.QuoteMeta(
		`UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = $2 ` +
			`WHERE id = $3 AND stock_quantity + $1 >= 0 RETURNING stock_quantity`)
	stockReadSQL    = regexp.QuoteMeta(`SELECT stock_quantity FROM products WHERE id = $1`)
	stockRestoreSQL = regexp.QuoteMeta(
		`UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = $2 WHERE id = $3`)
	purchaseUpdateSQL = regexp.QuoteMeta(
		`UPDATE purchases SET quantity = $1, unit_price = $2, total_amount = $3, ` +
			`payment_status = $4, purchase_method = $5, notes = $6, is_active = $7, ` +
			`date = $8, updated_at = $9 WHERE id = $10`)
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return &DB{raw}, mock
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func purchaseFixture() *models.Purchase {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	unitPrice := decimal.RequireFromString("299.99")

	return &models.Purchase{
		ID:             uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
		ProductID:      uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		CustomerID:     7,
		Quantity:       2,
		UnitPrice:      unitPrice,
		TotalAmount:    models.ComputeTotal(2, unitPrice),
		PaymentStatus:  models.PaymentStatusPending,
		PurchaseMethod: models.PurchaseMethodCash,
		IsActive:       true,
		Date:           now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestPurchaseRepositoryCreateConsumesStock(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(stockAdjustSQL).
		WithArgs(-purchase.Quantity, sqlmock.AnyArg(), purchase.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchases")).
		WithArgs(purchase.ID, purchase.ProductID, purchase.CustomerID, purchase.Quantity,
			purchase.UnitPrice, purchase.TotalAmount, purchase.PaymentStatus,
			purchase.PurchaseMethod, nil, purchase.IsActive, purchase.Date,
			purchase.CreatedAt, purchase.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(purchase))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryCreateInsufficientStock(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()
	purchase.Quantity = 6

	// El UPDATE condicional no toca filas y la relectura revela el stock
	// disponible. El INSERT nunca llega a ejecutarse.
	mock.ExpectBegin()
	mock.ExpectQuery(stockAdjustSQL).
		WithArgs(-6, sqlmock.AnyArg(), purchase.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	mock.ExpectQuery(stockReadSQL).
		WithArgs(purchase.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(5))
	mock.ExpectRollback()

	err := repo.Create(purchase)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryAdjustStockBoundary(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewProductRepository(db, discardLogger())
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	// Consumir exactamente el stock disponible deja cero y pasa el chequeo
	mock.ExpectBegin()
	mock.ExpectQuery(stockAdjustSQL).
		WithArgs(-5, sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(0))
	mock.ExpectCommit()

	newStock, err := repo.AdjustStock(id, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, newStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryAdjustStockProductNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewProductRepository(db, discardLogger())
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	mock.ExpectBegin()
	mock.ExpectQuery(stockAdjustSQL).
		WithArgs(-1, sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	mock.ExpectQuery(stockReadSQL).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	mock.ExpectRollback()

	_, err := repo.AdjustStock(id, -1)
	require.ErrorContains(t, err, "product not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryUpdateRestoresStockOnSmallerQuantity(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()
	purchase.Quantity = 3
	purchase.TotalAmount = models.ComputeTotal(3, purchase.UnitPrice)

	// Cantidad 5 → 3: delta = anterior − nueva = +2 devuelve stock
	mock.ExpectBegin()
	mock.ExpectQuery(stockAdjustSQL).
		WithArgs(2, sqlmock.AnyArg(), purchase.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(7))
	mock.ExpectExec(purchaseUpdateSQL).
		WithArgs(purchase.Quantity, purchase.UnitPrice, purchase.TotalAmount,
			purchase.PaymentStatus, purchase.PurchaseMethod, nil, purchase.IsActive,
			purchase.Date, sqlmock.AnyArg(), purchase.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(purchase, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryUpdateZeroDeltaSkipsStock(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()
	purchase.PaymentStatus = models.PaymentStatusCompleted

	// Sin cambio de cantidad no se emite ninguna sentencia sobre products
	mock.ExpectBegin()
	mock.ExpectExec(purchaseUpdateSQL).
		WithArgs(purchase.Quantity, purchase.UnitPrice, purchase.TotalAmount,
			purchase.PaymentStatus, purchase.PurchaseMethod, nil, purchase.IsActive,
			purchase.Date, sqlmock.AnyArg(), purchase.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(purchase, 0))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryUpdateAbortsOnInsufficientStock(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()
	purchase.Quantity = 6

	// Cantidad 2 → 6: delta −4 no alcanza; la fila de compra queda intacta
	mock.ExpectBegin()
	mock.ExpectQuery(stockAdjustSQL).
		WithArgs(-4, sqlmock.AnyArg(), purchase.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	mock.ExpectQuery(stockReadSQL).
		WithArgs(purchase.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Update(purchase, -4)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryDeleteRestoresStock(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()
	purchase.Quantity = 3

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE`)).
		WithArgs(purchase.ID).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(purchase.ProductID.String(), purchase.Quantity))
	mock.ExpectExec(stockRestoreSQL).
		WithArgs(purchase.Quantity, sqlmock.AnyArg(), purchase.ProductID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM purchases WHERE id = $1`)).
		WithArgs(purchase.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(purchase.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryDeleteToleratesMissingProduct(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	purchase := purchaseFixture()

	// El producto fue borrado: la restauración no toca filas pero la compra
	// se elimina igual
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE`)).
		WithArgs(purchase.ID).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(purchase.ProductID.String(), purchase.Quantity))
	mock.ExpectExec(stockRestoreSQL).
		WithArgs(purchase.Quantity, sqlmock.AnyArg(), purchase.ProductID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM purchases WHERE id = $1`)).
		WithArgs(purchase.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(purchase.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryDeleteNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT product_id, quantity FROM purchases WHERE id = $1 FOR UPDATE`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}))
	mock.ExpectRollback()

	require.ErrorContains(t, repo.Delete(id), "purchase not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryUpdatePaymentStatusNeverTouchesStock(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewPurchaseRepository(db, discardLogger())
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE purchases SET payment_status = $1, updated_at = $2 WHERE id = $3`)).
		WithArgs(models.PaymentStatusCompleted, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePaymentStatus(id, models.PaymentStatusCompleted))
	require.NoError(t, mock.ExpectationsWereMet())
}
