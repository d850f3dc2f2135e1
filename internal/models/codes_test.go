package models_test

import (
	"testing"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCode(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t, "PRD-550E8400", models.ProductCode(id))

	// El código es una función pura del ID: siempre el mismo resultado
	assert.Equal(t, models.ProductCode(id), models.ProductCode(id))

	product := &models.Product{ID: id}
	assert.Equal(t, "PRD-550E8400", product.Code())
}

func TestPurchaseCode(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")
	assert.Equal(t, "PUR-A1B2C3D4", models.PurchaseCode(id))

	purchase := &models.Purchase{ID: id}
	assert.Equal(t, "PUR-A1B2C3D4", purchase.Code())
}

func TestFormatCustomerCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n        int64
		expected string
	}{
		{1, "CUST000001"},
		{42, "CUST000042"},
		{999999, "CUST999999"},
		{1000000, "CUST1000000"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, models.FormatCustomerCode(tc.n))
	}
}

func TestComputeTotal(t *testing.T) {
	t.Parallel()

	price := decimal.RequireFromString("299.99")
	total := models.ComputeTotal(2, price)
	assert.Equal(t, "599.98", total.StringFixed(2))

	// La aritmética decimal no pierde precisión
	third := decimal.RequireFromString("33.335")
	assert.Equal(t, "100.005", models.ComputeTotal(3, third).String())

	zero := models.ComputeTotal(0, price)
	assert.True(t, zero.IsZero())
}

func TestCustomerFullName(t *testing.T) {
	t.Parallel()

	customer := &models.Customer{FirstName: "Nimal", LastName: "Perera"}
	assert.Equal(t, "Nimal Perera", customer.FullName())
}

func TestShopFullAddress(t *testing.T) {
	t.Parallel()

	line2 := "2nd Floor"
	shop := &models.Shop{
		AddressLine1: "12 Main St",
		AddressLine2: &line2,
		City:         "Colombo",
		PostalCode:   "00100",
	}
	assert.Equal(t, "12 Main St, 2nd Floor, Colombo, 00100", shop.FullAddress())

	bare := &models.Shop{AddressLine1: "12 Main St", City: "Colombo", PostalCode: "00100"}
	assert.Equal(t, "12 Main St, Colombo, 00100", bare.FullAddress())
}

func TestPaymentStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range []models.PaymentStatus{
		models.PaymentStatusPending,
		models.PaymentStatusCompleted,
		models.PaymentStatusFailed,
		models.PaymentStatusRefunded,
	} {
		assert.True(t, status.IsValid(), string(status))
	}

	assert.False(t, models.PaymentStatus("paid").IsValid())
	assert.False(t, models.PaymentStatus("").IsValid())
}

func TestPurchaseMethodIsValid(t *testing.T) {
	t.Parallel()

	for _, method := range []models.PurchaseMethod{
		models.PurchaseMethodCash,
		models.PurchaseMethodCard,
		models.PurchaseMethodBankTransfer,
		models.PurchaseMethodMobilePayment,
		models.PurchaseMethodCredit,
	} {
		assert.True(t, method.IsValid(), string(method))
	}

	assert.False(t, models.PurchaseMethod("bitcoin").IsValid())
}

func TestInsufficientStockError(t *testing.T) {
	t.Parallel()

	err := &models.InsufficientStockError{
		ProductID: "550e8400-e29b-41d4-a716-446655440000",
		Requested: 5,
		Available: 3,
	}

	assert.Contains(t, err.Error(), "requested 5")
	assert.Contains(t, err.Error(), "available 3")

	resp := err.Response()
	assert.Equal(t, string(models.ErrorCodeInsufficientStock), resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)
	assert.Contains(t, resp.Error.Details[0].Issue, "Available: 3")
}

func TestLocationMapsURL(t *testing.T) {
	t.Parallel()

	location := &models.CustomerLocation{
		Latitude:  decimal.RequireFromString("6.9271"),
		Longitude: decimal.RequireFromString("79.8612"),
	}
	assert.Equal(t, "https://www.google.com/maps?q=6.9271,79.8612", location.MapsURL())
}
