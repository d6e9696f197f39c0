package backend

import (
	"errors"
	"fmt"
	"strings"

	"cofrinho/internal/config"
)

type Config struct {
	Type         Type
	SQLiteDBPath string
	PostgresURL  string
}

// FromAppConfig picks the backend fields out of the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	c := Config{
		Type:         Type(appConfig.DataBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresURL:  appConfig.PostgresURL,
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		if strings.TrimSpace(c.SQLiteDBPath) == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if strings.TrimSpace(c.PostgresURL) == "" {
			return errors.New("database URL is required for postgres backend")
		}
	case MemoryBackend:
	default:
		return fmt.Errorf("invalid backend type %q (valid: %v)", c.Type, Types())
	}
	return nil
}
