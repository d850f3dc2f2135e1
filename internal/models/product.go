package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product representa un producto de una tienda
type Product struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	ShopID        int64            `json:"shop_id" db:"shop_id"`
	Name          string           `json:"name" db:"name"`
	Description   *string          `json:"description,omitempty" db:"description"`
	Price         *decimal.Decimal `json:"price,omitempty" db:"price"`
	SKU           *string          `json:"sku,omitempty" db:"sku"`
	StockQuantity int              `json:"stock_quantity" db:"stock_quantity"`
	QRCodePath    *string          `json:"qr_code,omitempty" db:"qr_code_path"`
	IsActive      bool             `json:"is_active" db:"is_active"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// Code retorna el código de producto legible (PRD-550E8400)
func (p *Product) Code() string {
	return ProductCode(p.ID)
}

// ProductCode deriva el código de negocio a partir del identificador:
// prefijo PRD más los primeros 8 caracteres hex en mayúsculas.
func ProductCode(id uuid.UUID) string {
	return "PRD-" + strings.ToUpper(id.String()[:8])
}

// CreateProductRequest representa el request para crear un producto
type CreateProductRequest struct {
	ShopID        int64            `json:"shop_id" binding:"required"`
	Name          string           `json:"name" binding:"required,max=255"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
}

// UpdateProductRequest representa el request para actualizar un producto.
// ShopID permite mover el producto a otra tienda; name o shop nuevos
// disparan la regeneración del código QR.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	ShopID      *int64           `json:"shop_id,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// AdjustStockRequest representa una corrección manual de stock.
// Se modela como delta firmado para que pase por el mismo libro de stock
// que las compras, nunca como sobrescritura directa del campo.
// Delta es puntero para distinguir un cero explícito de un campo ausente.
type AdjustStockRequest struct {
	Delta  *int    `json:"delta" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}

// ProductResponse representa la respuesta al crear un producto
type ProductResponse struct {
	ID   string `json:"id"`
	Code string `json:"product_code"`
}

// ProductStats representa las estadísticas de ventas de un producto
type ProductStats struct {
	PurchaseCount     int             `json:"purchase_count"`
	TotalSoldQuantity int             `json:"total_sold_quantity"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}
