package services

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bluekite-labs/shopdesk-service/internal/database"
	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPurchaseServiceMock(t *testing.T) (*PurchaseService, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewPurchaseService(&database.DB{DB: raw}, nil, nil, logger), mock
}

func expectActiveProductAndCustomer(mock sqlmock.Sqlmock, productID uuid.UUID, customerID int64) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, shop_id, name, description, price, sku, stock_quantity, ` +
			`qr_code_path, is_active, created_at, updated_at FROM products WHERE id = $1`)).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "shop_id", "name", "description", "price", "sku", "stock_quantity",
			"qr_code_path", "is_active", "created_at", "updated_at"}).
			AddRow(productID.String(), 3, "Ceylon Tea 500g", nil, "150.00", nil, 10,
				nil, true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, customer_code, nic, first_name, last_name, email, phone_number, ` +
			`address, is_verified, is_active, created_at, updated_at FROM customers WHERE id = $1`)).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_code", "nic", "first_name", "last_name", "email", "phone_number",
			"address", "is_verified", "is_active", "created_at", "updated_at"}).
			AddRow(customerID, "CUST000007", "123456789V", "Nimal", "Perera",
				"nimal@example.com", nil, nil, true, true, now, now))
}

func TestPurchaseServiceCreateRejectsNonPositiveUnitPrice(t *testing.T) {
	t.Parallel()

	productID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	cases := []struct {
		name  string
		price string
	}{
		{"zero", "0"},
		{"zero with scale", "0.00"},
		{"negative", "-10.50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, mock := newPurchaseServiceMock(t)
			expectActiveProductAndCustomer(mock, productID, 7)

			price := decimal.RequireFromString(tc.price)
			_, err := service.Create(context.Background(), &models.CreatePurchaseRequest{
				ProductID:  productID,
				CustomerID: 7,
				Quantity:   2,
				UnitPrice:  &price,
			})

			var apiErr *models.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Len(t, apiErr.ErrorResponse.Error.Details, 1)
			assert.Equal(t, "unit_price", apiErr.ErrorResponse.Error.Details[0].Field)
			assert.Contains(t, apiErr.ErrorResponse.Error.Details[0].Issue, "greater than zero")

			// Ninguna transacción comenzó: el stock queda intacto
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPurchaseServiceUpdateRejectsNonPositiveUnitPrice(t *testing.T) {
	t.Parallel()

	purchaseID := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	productID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, price := range []string{"0", "-1"} {
		t.Run(price, func(t *testing.T) {
			t.Parallel()

			service, mock := newPurchaseServiceMock(t)

			mock.ExpectQuery("SELECT p.id, p.product_id, p.customer_id").
				WithArgs(purchaseID).
				WillReturnRows(sqlmock.NewRows([]string{
					"id", "product_id", "customer_id", "quantity", "unit_price",
					"total_amount", "payment_status", "purchase_method", "notes",
					"is_active", "date", "created_at", "updated_at",
					"product_name", "customer_name", "shop_name"}).
					AddRow(purchaseID.String(), productID.String(), 7, 2, "299.99",
						"599.98", "pending", "cash", nil, true, now, now, now,
						"Ceylon Tea 500g", "Nimal Perera", "Main Street Store"))

			newPrice := decimal.RequireFromString(price)
			_, err := service.Update(context.Background(), purchaseID, &models.UpdatePurchaseRequest{
				UnitPrice: &newPrice,
			})

			var apiErr *models.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Len(t, apiErr.ErrorResponse.Error.Details, 1)
			assert.Equal(t, "unit_price", apiErr.ErrorResponse.Error.Details[0].Field)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPurchaseServiceCreateDefaultsToProductPrice(t *testing.T) {
	t.Parallel()

	productID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	service, mock := newPurchaseServiceMock(t)
	expectActiveProductAndCustomer(mock, productID, 7)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = $2 ` +
			`WHERE id = $3 AND stock_quantity + $1 >= 0 RETURNING stock_quantity`)).
		WithArgs(-2, sqlmock.AnyArg(), productID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(8))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO purchases")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	purchase, err := service.Create(context.Background(), &models.CreatePurchaseRequest{
		ProductID:  productID,
		CustomerID: 7,
		Quantity:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, "150", purchase.UnitPrice.String())
	assert.Equal(t, "300", purchase.TotalAmount.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
