package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ContactRepository maneja las operaciones de base de datos para CustomerContact
type ContactRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewContactRepository crea una nueva instancia del repositorio
func NewContactRepository(db *DB, logger *logrus.Logger) *ContactRepository {
	return &ContactRepository{db: db, logger: logger}
}

const contactColumns = `id, customer_id, email, wa_number, tp_number, is_primary,
		   is_active, created_at, updated_at`

func scanContact(row interface{ Scan(...interface{}) error }) (*models.CustomerContact, error) {
	var contact models.CustomerContact
	err := row.Scan(
		&contact.ID, &contact.CustomerID, &contact.Email, &contact.WANumber,
		&contact.TPNumber, &contact.IsPrimary, &contact.IsActive,
		&contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create inserta un contacto. Si llega marcado como primario, desmarca a
// sus hermanos en la misma transacción para sostener la unicidad.
func (r *ContactRepository) Create(contact *models.CustomerContact) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if contact.IsPrimary {
			if err := unsetPrimaryContacts(tx, contact.CustomerID, 0); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO customer_contacts (
				customer_id, email, wa_number, tp_number, is_primary,
				is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`

		err := tx.QueryRow(query,
			contact.CustomerID, contact.Email, contact.WANumber, contact.TPNumber,
			contact.IsPrimary, contact.IsActive, contact.CreatedAt, contact.UpdatedAt,
		).Scan(&contact.ID)
		if err != nil {
			return fmt.Errorf("error inserting contact: %w", err)
		}

		return nil
	})
}

// GetByID obtiene un contacto por ID
func (r *ContactRepository) GetByID(id int64) (*models.CustomerContact, error) {
	query := `SELECT ` + contactColumns + ` FROM customer_contacts WHERE id = $1`

	contact, err := scanContact(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("contact not found: %d", id)
		}
		return nil, fmt.Errorf("error querying contact: %w", err)
	}

	return contact, nil
}

// GetByCustomerID obtiene los contactos de un cliente, primario primero
func (r *ContactRepository) GetByCustomerID(customerID int64) ([]models.CustomerContact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM customer_contacts
		WHERE customer_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`

	rows, err := r.db.QueryWithTimeout(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("error querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.CustomerContact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}

	return contacts, rows.Err()
}

// Update actualiza un contacto existente, preservando la unicidad del
// primario cuando la actualización lo promueve.
func (r *ContactRepository) Update(contact *models.CustomerContact) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		if contact.IsPrimary {
			if err := unsetPrimaryContacts(tx, contact.CustomerID, contact.ID); err != nil {
				return err
			}
		}

		query := `
			UPDATE customer_contacts
			SET email = $1, wa_number = $2, tp_number = $3, is_primary = $4,
			    is_active = $5, updated_at = $6
			WHERE id = $7
		`

		result, err := tx.Exec(query,
			contact.Email, contact.WANumber, contact.TPNumber, contact.IsPrimary,
			contact.IsActive, time.Now(), contact.ID,
		)
		if err != nil {
			return fmt.Errorf("error updating contact: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("contact not found: %d", contact.ID)
		}

		return nil
	})
}

// Delete elimina un contacto
func (r *ContactRepository) Delete(id int64) error {
	result, err := r.db.ExecWithTimeout(`DELETE FROM customer_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("contact not found: %d", id)
	}

	return nil
}

func unsetPrimaryContacts(tx *sql.Tx, customerID, exceptID int64) error {
	_, err := tx.Exec(
		`UPDATE customer_contacts SET is_primary = FALSE, updated_at = $1
		 WHERE customer_id = $2 AND is_primary = TRUE AND id <> $3`,
		time.Now(), customerID, exceptID,
	)
	if err != nil {
		return fmt.Errorf("error unsetting primary contacts: %w", err)
	}
	return nil
}
