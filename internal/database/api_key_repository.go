package database

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bluekite-labs/shopdesk-service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// APIKeyRepository maneja las operaciones de base de datos para API Keys
type APIKeyRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewAPIKeyRepository crea una nueva instancia del repositorio
func NewAPIKeyRepository(db *DB, logger *logrus.Logger) *APIKeyRepository {
	return &APIKeyRepository{
		db:     db,
		logger: logger,
	}
}

// Create crea una nueva API key y retorna la clave en claro una única vez
func (r *APIKeyRepository) Create(name string) (*models.APIKey, string, error) {
	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, "", fmt.Errorf("error generating API key: %w", err)
	}
	keyHash := HashAPIKey(apiKey)

	apiKeyModel := &models.APIKey{
		ID:        uuid.New(),
		Name:      name,
		KeyHash:   keyHash,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO api_keys (
			id, name, key_hash, is_active, created_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err = r.db.ExecWithTimeout(query,
		apiKeyModel.ID, apiKeyModel.Name, apiKeyModel.KeyHash,
		apiKeyModel.IsActive, apiKeyModel.CreatedAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("error creating API key: %w", err)
	}

	return apiKeyModel, apiKey, nil
}

// GetByHash obtiene una API key activa por su hash
func (r *APIKeyRepository) GetByHash(hash string) (*models.APIKey, error) {
	query := `
		SELECT id, name, key_hash, is_active, created_at, last_used_at
		FROM api_keys
		WHERE key_hash = $1 AND is_active = true
	`

	var apiKey models.APIKey
	err := r.db.QueryRowWithTimeout(query, hash).Scan(
		&apiKey.ID, &apiKey.Name, &apiKey.KeyHash,
		&apiKey.IsActive, &apiKey.CreatedAt, &apiKey.LastUsedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("API key not found or inactive")
		}
		return nil, fmt.Errorf("error querying API key: %w", err)
	}

	return &apiKey, nil
}

// UpdateLastUsed actualiza la última vez que se usó la API key
func (r *APIKeyRepository) UpdateLastUsed(id uuid.UUID) error {
	query := `
		UPDATE api_keys
		SET last_used_at = $1
		WHERE id = $2
	`

	_, err := r.db.ExecWithTimeout(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating API key last used: %w", err)
	}

	return nil
}

// Deactivate desactiva una API key
func (r *APIKeyRepository) Deactivate(id uuid.UUID) error {
	query := `
		UPDATE api_keys
		SET is_active = false
		WHERE id = $1
	`

	result, err := r.db.ExecWithTimeout(query, id)
	if err != nil {
		return fmt.Errorf("error deactivating API key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("API key not found: %s", id)
	}

	return nil
}

// generateAPIKey genera una API key aleatoria de 64 caracteres hex
func generateAPIKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// HashAPIKey genera el hash SHA-256 de la API key
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return fmt.Sprintf("%x", hash)
}
