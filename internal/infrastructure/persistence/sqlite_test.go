package persistence

import (
	"testing"

	"github.com/crewpay/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with all models migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.LedgerEventModel{},
		&models.AccountModel{},
		&models.UserModel{},
		&models.CrewEventModel{},
		&models.CrewAssignmentModel{},
	)
	require.NoError(t, err)

	return db
}
