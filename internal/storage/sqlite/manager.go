package sqlite

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/common"
	"github.com/ternarybob/docsearch/internal/interfaces"
)

// Open opens the catalog SQLite database and returns a ready CatalogStorage.
func Open(logger arbor.ILogger, config *common.SQLiteConfig) (interfaces.CatalogStorage, error) {
	db, err := NewSQLiteDB(logger, config)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("path", config.Path).Msg("Catalog store initialized")

	return NewCatalogStore(db, logger), nil
}
