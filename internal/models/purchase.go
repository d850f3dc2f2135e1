package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus representa el estado de pago de una compra
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid verifica que el estado de pago sea uno de los conocidos
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// PurchaseMethod representa el método de pago
type PurchaseMethod string

const (
	PurchaseMethodCash          PurchaseMethod = "cash"
	PurchaseMethodCard          PurchaseMethod = "card"
	PurchaseMethodBankTransfer  PurchaseMethod = "bank_transfer"
	PurchaseMethodMobilePayment PurchaseMethod = "mobile_payment"
	PurchaseMethodCredit        PurchaseMethod = "credit"
)

// IsValid verifica que el método de pago sea uno de los conocidos
func (m PurchaseMethod) IsValid() bool {
	switch m {
	case PurchaseMethodCash, PurchaseMethodCard, PurchaseMethodBankTransfer,
		PurchaseMethodMobilePayment, PurchaseMethodCredit:
		return true
	}
	return false
}

// Purchase representa una compra de un producto por un cliente.
// Las referencias a producto y cliente son inmutables después de la creación.
type Purchase struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ProductID      uuid.UUID       `json:"product" db:"product_id"`
	CustomerID     int64           `json:"customer" db:"customer_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentStatus  PaymentStatus   `json:"payment_status" db:"payment_status"`
	PurchaseMethod PurchaseMethod  `json:"purchase_method" db:"purchase_method"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	Date           time.Time       `json:"date" db:"date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	// Campos denormalizados para respuestas de lectura
	ProductName  string `json:"product_name,omitempty" db:"-"`
	CustomerName string `json:"customer_name,omitempty" db:"-"`
	ShopName     string `json:"shop_name,omitempty" db:"-"`
}

// Code retorna el código de compra legible (PUR-xxxxxxxx)
func (p *Purchase) Code() string {
	return PurchaseCode(p.ID)
}

// PurchaseCode deriva el código de negocio a partir del identificador
func PurchaseCode(id uuid.UUID) string {
	return "PUR-" + strings.ToUpper(id.String()[:8])
}

// ComputeTotal calcula el importe total de una compra (quantity × unit_price)
func ComputeTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// CreatePurchaseRequest representa el request para crear una compra
type CreatePurchaseRequest struct {
	ProductID      uuid.UUID        `json:"product" binding:"required"`
	CustomerID     int64            `json:"customer" binding:"required"`
	Quantity       int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	PaymentStatus  *PaymentStatus   `json:"payment_status,omitempty"`
	PurchaseMethod *PurchaseMethod  `json:"purchase_method,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Date           *time.Time       `json:"date,omitempty"`
}

// UpdatePurchaseRequest representa el request para actualizar una compra.
// Producto y cliente no aparecen: son inmutables.
type UpdatePurchaseRequest struct {
	Quantity       *int             `json:"quantity,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	PaymentStatus  *PaymentStatus   `json:"payment_status,omitempty"`
	PurchaseMethod *PurchaseMethod  `json:"purchase_method,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Date           *time.Time       `json:"date,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`

	// Referencias inmutables: si llegan en el payload se rechazan
	ProductID  *uuid.UUID `json:"product,omitempty"`
	CustomerID *int64     `json:"customer,omitempty"`
}

// UpdatePaymentStatusRequest representa el cambio explícito de estado de pago.
// No toca stock: el stock se gobierna por la cantidad y la existencia de la
// fila de compra, no por el estado de pago.
type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" binding:"required"`
}

// PurchaseFilter representa los filtros de listado de compras
type PurchaseFilter struct {
	CustomerID    *int64
	ProductID     *uuid.UUID
	ShopID        *int64
	PaymentStatus *PaymentStatus
	IsActive      *bool
	StartDate     *time.Time
	EndDate       *time.Time
	Search        string
	Page          int
	PageSize      int
}

// PurchaseStats representa las estadísticas agregadas de compras
type PurchaseStats struct {
	TotalPurchases        int              `json:"total_purchases"`
	CompletedPurchases    int              `json:"completed_purchases"`
	PendingPurchases      int              `json:"pending_purchases"`
	FailedPurchases       int              `json:"failed_purchases"`
	RefundedPurchases     int              `json:"refunded_purchases"`
	TotalRevenue          decimal.Decimal  `json:"total_revenue"`
	AveragePurchaseAmount *decimal.Decimal `json:"average_purchase_amount"`
	UniqueCustomers       int              `json:"unique_customers"`
	UniqueProducts        int              `json:"unique_products"`
}

// PurchaseListResponse representa una página de compras
type PurchaseListResponse struct {
	Items    []Purchase `json:"items"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Total    int        `json:"total"`
}
