package database

import (
	"path/filepath"
	"testing"

	"github.com/sangkips/outlet-pos/internal/config"
	"github.com/sangkips/outlet-pos/internal/domain/entity"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBSQLiteAndSeed(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "data", "pos.db"),
	}
	db, err := NewDB(cfg, "error")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SeedDemoData(db))
	// a second run leaves populated catalogs alone
	require.NoError(t, SeedDemoData(db))

	for _, outlet := range enum.Outlets {
		var count int64
		require.NoError(t, db.Model(&entity.Product{}).Where("outlet = ?", outlet).Count(&count).Error)
		assert.Equal(t, int64(len(demoCatalog)), count, outlet)
	}
}

func TestNewDBRejectsUnknownDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"}, "info")
	assert.ErrorContains(t, err, "unsupported database driver")
}
