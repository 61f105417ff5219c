package ports

import (
	"context"
	"errors"
)

// ErrSettingNotFound is returned when a settings key does not exist.
var ErrSettingNotFound = errors.New("setting not found")

// Setting is one stored configuration value. Encrypted values are sealed
// before storage and opened on read.
type Setting struct {
	Key       string `json:"key" db:"key"`
	Value     string `json:"value" db:"value"`
	Encrypted bool   `json:"encrypted" db:"encrypted"`
}

// SettingsRepository persists admin-editable settings such as provider
// credentials.
type SettingsRepository interface {
	// Get returns one setting with an encrypted value already opened.
	Get(ctx context.Context, key string) (*Setting, error)

	// Set stores a setting, sealing the value when encrypted is true.
	Set(ctx context.Context, key, value string, encrypted bool) error

	// List returns all settings. Encrypted values are redacted.
	List(ctx context.Context) ([]Setting, error)
}
