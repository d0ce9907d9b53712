package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/database"
)

// InitializeDatabases opens the market data cache when CACHE_DB_PATH is set
// and applies its schema. Without a path the container has no database and
// every market data call goes to the provider.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	if cfg.CacheDBPath == "" {
		log.Info().Msg("Cache database disabled")
		return container, nil
	}

	cacheDB, err := database.New(database.Config{
		Path:    cfg.CacheDBPath,
		Profile: database.ProfileCache, // Ephemeral, can be rebuilt from the API
		Name:    "cache",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	if err := cacheDB.Migrate(); err != nil {
		cacheDB.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	container.CacheDB = cacheDB
	container.ClientDataRepo = clientdata.NewRepository(cacheDB.Conn())

	log.Info().Str("path", cacheDB.Path()).Msg("Cache database initialized")
	return container, nil
}
