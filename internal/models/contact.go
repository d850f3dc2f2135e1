package models

import "time"

// CustomerContact representa la información de contacto de un cliente.
// Un cliente puede tener varios contactos pero a lo sumo uno primario.
type CustomerContact struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer" db:"customer_id"`
	Email      string    `json:"email" db:"email"`
	WANumber   string    `json:"wa_number" db:"wa_number"`
	TPNumber   string    `json:"tp_number" db:"tp_number"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// CreateContactRequest representa el request para crear un contacto
type CreateContactRequest struct {
	CustomerID int64  `json:"customer" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	WANumber   string `json:"wa_number" binding:"required"`
	TPNumber   string `json:"tp_number" binding:"required"`
	IsPrimary  bool   `json:"is_primary"`
}

// UpdateContactRequest representa el request para actualizar un contacto
type UpdateContactRequest struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	WANumber  *string `json:"wa_number,omitempty"`
	TPNumber  *string `json:"tp_number,omitempty"`
	IsPrimary *bool   `json:"is_primary,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
