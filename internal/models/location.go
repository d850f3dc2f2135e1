package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerLocation representa una ubicación geográfica asociada a una tienda.
// Una tienda puede tener varias ubicaciones pero a lo sumo una primaria.
type CustomerLocation struct {
	ID                 int64           `json:"id" db:"id"`
	ShopID             int64           `json:"shop" db:"shop_id"`
	Latitude           decimal.Decimal `json:"latitude" db:"latitude"`
	Longitude          decimal.Decimal `json:"longitude" db:"longitude"`
	LocationName       *string         `json:"location_name,omitempty" db:"location_name"`
	AddressDescription *string         `json:"address_description,omitempty" db:"address_description"`
	AccuracyRadius     *int            `json:"accuracy_radius,omitempty" db:"accuracy_radius"`
	IsPrimary          bool            `json:"is_primary" db:"is_primary"`
	IsActive           bool            `json:"is_active" db:"is_active"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// MapsURL retorna la URL de Google Maps para esta ubicación
func (l *CustomerLocation) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", l.Latitude.String(), l.Longitude.String())
}

// CreateLocationRequest representa el request para crear una ubicación
type CreateLocationRequest struct {
	ShopID             int64           `json:"shop" binding:"required"`
	Latitude           decimal.Decimal `json:"latitude" binding:"required"`
	Longitude          decimal.Decimal `json:"longitude" binding:"required"`
	LocationName       *string         `json:"location_name,omitempty"`
	AddressDescription *string         `json:"address_description,omitempty"`
	AccuracyRadius     *int            `json:"accuracy_radius,omitempty"`
	IsPrimary          bool            `json:"is_primary"`
}

// UpdateLocationRequest representa el request para actualizar una ubicación
type UpdateLocationRequest struct {
	Latitude           *decimal.Decimal `json:"latitude,omitempty"`
	Longitude          *decimal.Decimal `json:"longitude,omitempty"`
	LocationName       *string          `json:"location_name,omitempty"`
	AddressDescription *string          `json:"address_description,omitempty"`
	AccuracyRadius     *int             `json:"accuracy_radius,omitempty"`
	IsPrimary          *bool            `json:"is_primary,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}
