// Package factory constructs service dependencies from configuration.
package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/podgenius/podgenius-server/internal/config"
	"github.com/podgenius/podgenius-server/internal/store"
	filestore "github.com/podgenius/podgenius-server/internal/store/file"
	"github.com/podgenius/podgenius-server/internal/store/postgres"
	"github.com/podgenius/podgenius-server/internal/store/sqlite"
)

// NewStore opens the credential store named by cfg.StoreDriver.
func NewStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "file":
		log.Info().Str("data_dir", cfg.DataDir).Msg("opening file-backed user store")
		return filestore.New(cfg.DataDir)
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("opening sqlite user store")
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		log.Info().Msg("opening postgres user store")
		return postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
