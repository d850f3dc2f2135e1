package services

import (
	"testing"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePurchaseReceipt(t *testing.T) {
	t.Parallel()

	notes := "Deliver before noon"
	purchase := &models.Purchase{
		ID:             uuid.New(),
		Quantity:       2,
		UnitPrice:      decimal.RequireFromString("299.99"),
		TotalAmount:    decimal.RequireFromString("599.98"),
		PaymentStatus:  models.PaymentStatusCompleted,
		PurchaseMethod: models.PurchaseMethodCard,
		Notes:          &notes,
		Date:           time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
		ProductName:    "Ceylon Tea 500g",
		ShopName:       "Main Street Store",
	}
	customer := &models.Customer{
		CustomerCode: "CUST000042",
		FirstName:    "Nimal",
		LastName:     "Perera",
		Email:        "nimal@example.com",
	}

	generator := NewReceiptGenerator(logrus.New())
	pdf, err := generator.GeneratePurchaseReceipt(purchase, customer)
	require.NoError(t, err)

	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
