package migration

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func isolate(t *testing.T) *gorm.DB {
	t.Helper()
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRunAppliesInNameOrder(t *testing.T) {
	db := isolate(t)

	var order []string
	Register("0002_second", Func{
		UpFn:   func(*gorm.DB) error { order = append(order, "second"); return nil },
		DownFn: func(*gorm.DB) error { return nil },
	})
	Register("0001_widgets", Func{
		UpFn:   func(db *gorm.DB) error { order = append(order, "widgets"); return db.AutoMigrate(&widget{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) },
	})

	r := New(db)
	require.NoError(t, r.Run())
	assert.Equal(t, []string{"widgets", "second"}, order)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// second run is a no-op
	require.NoError(t, r.Run())
	assert.Len(t, order, 2)
}

func TestRollbackRevertsLastBatch(t *testing.T) {
	db := isolate(t)

	Register("0001_widgets", Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&widget{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) },
	})

	r := New(db)
	require.NoError(t, r.Run())
	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&widget{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets"}, pending)
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db := isolate(t)

	Register("0001_broken", Func{
		UpFn:   func(*gorm.DB) error { return errors.New("boom") },
		DownFn: func(*gorm.DB) error { return nil },
	})

	r := New(db)
	err := r.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_broken")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_broken"}, pending)
}

func TestStatusAndDuplicateRegistration(t *testing.T) {
	db := isolate(t)

	noop := Func{UpFn: func(*gorm.DB) error { return nil }, DownFn: func(*gorm.DB) error { return nil }}
	Register("0001_noop", noop)
	assert.Panics(t, func() { Register("0001_noop", noop) })

	var out bytes.Buffer
	r := New(db).WithOutput(&out)
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Pending")

	out.Reset()
	require.NoError(t, r.Run())
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Ran")
}
