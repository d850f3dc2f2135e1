package models

import (
	"fmt"
	"time"
)

// Customer representa un cliente del negocio
type Customer struct {
	ID           int64     `json:"id" db:"id"`
	CustomerCode string    `json:"customer_id" db:"customer_code"`
	NIC          string    `json:"nic" db:"nic"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PhoneNumber  *string   `json:"phone_number,omitempty" db:"phone_number"`
	Address      *string   `json:"address,omitempty" db:"address"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FullName retorna el nombre completo del cliente
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// FormatCustomerCode construye el código secuencial de cliente (CUST000001)
func FormatCustomerCode(n int64) string {
	return fmt.Sprintf("CUST%06d", n)
}

// CreateCustomerRequest representa el request para crear un cliente
type CreateCustomerRequest struct {
	NIC         string  `json:"nic" binding:"required"`
	FirstName   string  `json:"first_name" binding:"required,max=30"`
	LastName    string  `json:"last_name" binding:"required,max=30"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// UpdateCustomerRequest representa el request para actualizar un cliente
type UpdateCustomerRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CustomerResponse representa la respuesta al crear un cliente
type CustomerResponse struct {
	ID           int64  `json:"id"`
	CustomerCode string `json:"customer_id"`
}
