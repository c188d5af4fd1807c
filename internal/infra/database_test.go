package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holou/internal/config"
	"holou/internal/models/db_models"
	"holou/pkg/logger"
)

func TestOpenMemoryDatabaseMigrates(t *testing.T) {
	db, err := OpenMemoryDatabase()
	require.NoError(t, err)

	for _, model := range db_models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestInitDatabaseSQLiteFile(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: t.TempDir() + "/holou.db"}

	db, err := InitDatabase(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	CloseDatabase(db, logger.NewNop())
}

func TestInitDatabaseRejectsBadConfig(t *testing.T) {
	_, err := InitDatabase(&config.Config{DBDriver: "postgres"}, logger.NewNop())
	assert.Error(t, err)

	_, err = InitDatabase(&config.Config{DBDriver: "mongo"}, logger.NewNop())
	assert.Error(t, err)
}
