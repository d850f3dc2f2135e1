package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SequenceRepository maneja los contadores de códigos de negocio secuenciales.
// El contador vive en una fila dedicada y se incrementa con un UPDATE atómico,
// así sigue siendo correcto con varias instancias del servidor.
type SequenceRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewSequenceRepository crea una nueva instancia del repositorio
func NewSequenceRepository(db *DB, logger *logrus.Logger) *SequenceRepository {
	return &SequenceRepository{
		db:     db,
		logger: logger,
	}
}

// SeedCustomerSequence siembra el contador de clientes desde el máximo código
// existente. Sólo inserta si la fila no existe todavía.
func (r *SequenceRepository) SeedCustomerSequence() error {
	query := `
		INSERT INTO code_sequences (entity_type, next_value)
		SELECT 'customer', COALESCE(MAX(CAST(SUBSTRING(customer_code FROM 5) AS BIGINT)), 0) + 1
		FROM customers
		WHERE customer_code LIKE 'CUST%'
		ON CONFLICT (entity_type) DO NOTHING
	`

	if _, err := r.db.ExecWithTimeout(query); err != nil {
		return fmt.Errorf("error seeding customer sequence: %w", err)
	}

	return nil
}

// NextTx reserva y retorna el siguiente valor del contador dentro de una
// transacción. El UPDATE toma el lock de fila, por lo que asignaciones
// concurrentes se serializan.
func (r *SequenceRepository) NextTx(tx *sql.Tx, entityType string) (int64, error) {
	query := `
		UPDATE code_sequences
		SET next_value = next_value + 1
		WHERE entity_type = $1
		RETURNING next_value - 1
	`

	var value int64
	err := tx.QueryRow(query, entityType).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("sequence not seeded for entity type: %s", entityType)
	}
	if err != nil {
		return 0, fmt.Errorf("error allocating sequence value: %w", err)
	}

	return value, nil
}
