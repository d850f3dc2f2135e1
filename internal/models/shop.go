package models

import (
	"strings"
	"time"
)

// Shop representa una tienda perteneciente a un cliente
type Shop struct {
	ID           int64     `json:"id" db:"id"`
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	Name         string    `json:"name" db:"name"`
	PostalCode   string    `json:"postal_code" db:"postal_code"`
	AddressLine1 string    `json:"address_line_1" db:"address_line_1"`
	AddressLine2 *string   `json:"address_line_2,omitempty" db:"address_line_2"`
	AddressLine3 *string   `json:"address_line_3,omitempty" db:"address_line_3"`
	City         string    `json:"city" db:"city"`
	PhoneNumber  *string   `json:"phone_number,omitempty" db:"phone_number"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Description  *string   `json:"description,omitempty" db:"description"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FullAddress retorna la dirección completa formateada
func (s *Shop) FullAddress() string {
	parts := []string{s.AddressLine1}
	if s.AddressLine2 != nil && *s.AddressLine2 != "" {
		parts = append(parts, *s.AddressLine2)
	}
	if s.AddressLine3 != nil && *s.AddressLine3 != "" {
		parts = append(parts, *s.AddressLine3)
	}
	parts = append(parts, s.City, s.PostalCode)
	return strings.Join(parts, ", ")
}

// CreateShopRequest representa el request para crear una tienda
type CreateShopRequest struct {
	CustomerID   int64   `json:"customer_id" binding:"required"`
	Name         string  `json:"name" binding:"required,max=255"`
	PostalCode   string  `json:"postal_code" binding:"required"`
	AddressLine1 string  `json:"address_line_1" binding:"required,max=255"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	AddressLine3 *string `json:"address_line_3,omitempty"`
	City         string  `json:"city" binding:"required,max=100"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Description  *string `json:"description,omitempty"`
}

// UpdateShopRequest representa el request para actualizar una tienda
type UpdateShopRequest struct {
	Name         *string `json:"name,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	AddressLine1 *string `json:"address_line_1,omitempty"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	AddressLine3 *string `json:"address_line_3,omitempty"`
	City         *string `json:"city,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	Email        *string `json:"email,omitempty" binding:"omitempty,email"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// ShopResponse representa la respuesta al crear una tienda
type ShopResponse struct {
	ID int64 `json:"id"`
}
