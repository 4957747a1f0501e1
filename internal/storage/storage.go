// Package storage defines the persistence contract and picks a backend from the --config value.
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// Migrator is implemented by providers that can report their schema state
type Migrator interface {
	MigrationStatus() (migration.Status, error)
}

// ResolveConnString picks the PostgreSQL connection string to use for config.
// The environment wins over the keyring, which wins over the password-less
// config value (credentials then come from .pgpass).
func ResolveConnString(config string) (string, error) {
	if err := postgres.ValidateConnString(config); err != nil {
		return "", err
	}

	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		logger.Debug("using connection string from environment", "var", constants.EnvDBConnection)
		return env, nil
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		logger.Debug("using connection string from keyring")
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound), errors.Is(err, keyring.ErrKeyringUnavailable):
		logger.Debug("no keyring credentials, relying on .pgpass", "reason", err)
		return config, nil
	default:
		return "", err
	}
}

// Open builds the provider for a config value without connecting to it.
// PostgreSQL URLs select the postgres backend and anything else is treated as a SQLite file path.
func Open(config string) (Provider, error) {
	if postgres.IsConnString(config) {
		connStr, err := ResolveConnString(config)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	path, err := utils.ExpandPath(config)
	if err != nil {
		return nil, fmt.Errorf("invalid config path %q: %w", config, err)
	}
	return sqlite.NewStore(path), nil
}

// IsSQLite reports whether the provider stores data in a local file that can be backed up.
func IsSQLite(p Provider) bool {
	_, ok := p.(*sqlite.Store)
	return ok
}
