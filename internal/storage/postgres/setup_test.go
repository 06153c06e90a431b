package postgres

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated, seeded sqlite database in a temp dir.
// A file is used instead of :memory: so that every pooled connection sees
// the same data.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "recolour.db")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent), // Disable logs during tests
		NowFunc: Now,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	require.NoError(t, NewPartnerRepository(db).SeedDefaults(context.Background()))

	return db
}
