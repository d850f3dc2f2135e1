package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

// CustomerRepository maneja las operaciones de base de datos para Customer
type CustomerRepository struct {
	db        *DB
	sequences *SequenceRepository
	logger    *logrus.Logger
}

// NewCustomerRepository crea una nueva instancia del repositorio
func NewCustomerRepository(db *DB, logger *logrus.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:        db,
		sequences: NewSequenceRepository(db, logger),
		logger:    logger,
	}
}

const customerColumns = `id, customer_code, nic, first_name, last_name, email,
		   phone_number, address, is_verified, is_active, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*models.Customer, error) {
	var customer models.Customer
	err := row.Scan(
		&customer.ID, &customer.CustomerCode, &customer.NIC, &customer.FirstName,
		&customer.LastName, &customer.Email, &customer.PhoneNumber, &customer.Address,
		&customer.IsVerified, &customer.IsActive, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create crea un nuevo cliente. El código CUST se asigna desde el contador
// en la misma transacción que el INSERT.
func (r *CustomerRepository) Create(req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		NIC:         req.NIC,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		IsVerified:  false,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		seq, err := r.sequences.NextTx(tx, "customer")
		if err != nil {
			return err
		}
		customer.CustomerCode = models.FormatCustomerCode(seq)

		query := `
			INSERT INTO customers (
				customer_code, nic, first_name, last_name, email,
				phone_number, address, is_verified, is_active, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
			)
			RETURNING id
		`

		return tx.QueryRow(query,
			customer.CustomerCode, customer.NIC, customer.FirstName, customer.LastName,
			customer.Email, customer.PhoneNumber, customer.Address,
			customer.IsVerified, customer.IsActive, customer.CreatedAt, customer.UpdatedAt,
		).Scan(&customer.ID)
	})

	if err != nil {
		return nil, fmt.Errorf("error creating customer: %w", err)
	}

	return customer, nil
}

// GetByID obtiene un cliente por ID
func (r *CustomerRepository) GetByID(id int64) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1
	`

	customer, err := scanCustomer(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("customer not found: %d", id)
		}
		return nil, fmt.Errorf("error querying customer: %w", err)
	}

	return customer, nil
}

// GetByNIC obtiene un cliente por NIC
func (r *CustomerRepository) GetByNIC(nic string) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE nic = $1
	`

	customer, err := scanCustomer(r.db.QueryRowWithTimeout(query, nic))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("customer not found with NIC %s", nic)
		}
		return nil, fmt.Errorf("error querying customer: %w", err)
	}

	return customer, nil
}

// List obtiene clientes con búsqueda y paginación
func (r *CustomerRepository) List(search string, page, pageSize int) ([]models.Customer, int, error) {
	countQuery := `SELECT COUNT(*) FROM customers WHERE ($1 = '' OR
		first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR
		email ILIKE '%' || $1 || '%' OR nic ILIKE '%' || $1 || '%' OR
		customer_code ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.QueryRowWithTimeout(countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting customers: %w", err)
	}

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE ($1 = '' OR
			first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR
			email ILIKE '%' || $1 || '%' OR nic ILIKE '%' || $1 || '%' OR
			customer_code ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryWithTimeout(query, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning customer: %w", err)
		}
		customers = append(customers, *customer)
	}

	return customers, total, rows.Err()
}

// Update actualiza un cliente existente
func (r *CustomerRepository) Update(id int64, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		existing.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		existing.LastName = *req.LastName
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		existing.PhoneNumber = req.PhoneNumber
	}
	if req.Address != nil {
		existing.Address = req.Address
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now()

	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
		    address = $5, is_active = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecWithTimeout(query,
		existing.FirstName, existing.LastName, existing.Email, existing.PhoneNumber,
		existing.Address, existing.IsActive, existing.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("customer not found: %d", id)
	}

	return existing, nil
}

// SetVerified marca un cliente como verificado
func (r *CustomerRepository) SetVerified(id int64, verified bool) error {
	result, err := r.db.ExecWithTimeout(
		`UPDATE customers SET is_verified = $1, updated_at = $2 WHERE id = $3`,
		verified, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("error updating customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("customer not found: %d", id)
	}

	return nil
}

// Delete elimina un cliente. Contactos y ubicaciones dependientes caen en
// cascada a nivel de esquema.
func (r *CustomerRepository) Delete(id int64) error {
	result, err := r.db.ExecWithTimeout(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("customer not found: %d", id)
	}

	return nil
}
