package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"podstore/internal/core/crypto"
	"podstore/internal/core/database"
	"podstore/internal/features/admin/ports"
)

// redacted replaces encrypted values in listings.
const redacted = "********"

// PostgresSettingsRepository stores settings in Postgres, sealing marked
// values with the configured encryption key.
type PostgresSettingsRepository struct {
	db  *database.DB
	box *crypto.Box
}

// NewPostgresSettingsRepository creates a PostgresSettingsRepository.
func NewPostgresSettingsRepository(db *database.DB, box *crypto.Box) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db, box: box}
}

// Get returns one setting with an encrypted value already opened.
func (r *PostgresSettingsRepository) Get(ctx context.Context, key string) (*ports.Setting, error) {
	var setting ports.Setting
	err := r.db.SQL.GetContext(ctx, &setting,
		"SELECT key, value, encrypted FROM settings WHERE key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	if setting.Encrypted {
		plain, err := r.box.Decrypt(setting.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to open setting %s: %w", key, err)
		}
		setting.Value = plain
	}
	return &setting, nil
}

// Set stores a setting, sealing the value when encrypted is true.
func (r *PostgresSettingsRepository) Set(ctx context.Context, key, value string, encrypted bool) error {
	stored := value
	if encrypted {
		sealed, err := r.box.Encrypt(value)
		if err != nil {
			return fmt.Errorf("failed to seal setting %s: %w", key, err)
		}
		stored = sealed
	}

	_, err := r.db.SQL.ExecContext(ctx, `INSERT INTO settings (key, value, encrypted)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			encrypted = EXCLUDED.encrypted,
			updated_at = now()`,
		key, stored, encrypted)
	if err != nil {
		return fmt.Errorf("failed to store setting: %w", err)
	}
	return nil
}

// List returns all settings. Encrypted values are redacted.
func (r *PostgresSettingsRepository) List(ctx context.Context) ([]ports.Setting, error) {
	var settings []ports.Setting
	err := r.db.SQL.SelectContext(ctx, &settings,
		"SELECT key, value, encrypted FROM settings ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	for i := range settings {
		if settings[i].Encrypted {
			settings[i].Value = redacted
		}
	}
	return settings, nil
}
