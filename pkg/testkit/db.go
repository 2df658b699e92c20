// Package testkit holds helpers shared by package tests: an isolated,
// fully migrated SQLite database per test and JSON request helpers.
package testkit

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/pkg/database"
	"github.com/chiquebutik/butik/pkg/migration"

	_ "github.com/chiquebutik/butik/database/migrations"
)

// DB returns a private in-memory SQLite database with every registered
// migration applied. It is closed when the test ends.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")

	require.NoError(t, migration.New(db).Run(), "testkit: migrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
