// Package migration runs ordered, reversible schema migrations and records
// which ones have been applied in the schema_migrations table.
//
//	func init() {
//	    migration.Register("20250101000000_create_products", createProducts{})
//	}
package migration

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/chiquebutik/butik/pkg/logger"
)

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Func adapts a pair of functions to Migration.
type Func struct {
	UpFn   func(db *gorm.DB) error
	DownFn func(db *gorm.DB) error
}

func (f Func) Up(db *gorm.DB) error   { return f.UpFn(db) }
func (f Func) Down(db *gorm.DB) error { return f.DownFn(db) }

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds a migration. Names are timestamp prefixed and applied in
// lexical order regardless of registration order.
func Register(name string, m Migration) {
	for _, e := range registry {
		if e.name == name {
			panic(fmt.Sprintf("migration: %s registered twice", name))
		}
	}
	registry = append(registry, entry{name: name, m: m})
}

func sorted() []entry {
	out := append([]entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

type Runner struct {
	db  *gorm.DB
	out io.Writer
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: io.Discard}
}

// WithOutput makes the runner print progress to w.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

// Pending returns the names of migrations not yet applied.
func (r *Runner) Pending() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}
	todo, err := r.pending()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(todo))
	for i, e := range todo {
		names[i] = e.name
	}
	return names, nil
}

func (r *Runner) pending() ([]entry, error) {
	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, fmt.Errorf("migration: list applied: %w", err)
	}
	done := make(map[string]bool, len(ran))
	for _, rec := range ran {
		done[rec.Name] = true
	}

	var todo []entry
	for _, e := range sorted() {
		if !done[e.name] {
			todo = append(todo, e)
		}
	}
	return todo, nil
}

// Run applies every pending migration as one batch. Each migration and its
// bookkeeping row commit together.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	todo, err := r.pending()
	if err != nil {
		return err
	}
	if len(todo) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1
	for _, e := range todo {
		fmt.Fprintf(r.out, "  migrating  %s\n", e.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s up: %w", e.name, err)
		}
	}

	logger.Info("migration: done", "ran", len(todo), "batch", batch)
	return nil
}

// Rollback reverts the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch := r.lastBatch()
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []record
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&records).Error; err != nil {
		return fmt.Errorf("migration: list batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(registry))
	for _, e := range registry {
		byName[e.name] = e.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  rolling back  %s\n", rec.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
	}
	return nil
}

// Status prints each migration with its batch, or "Pending".
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}

	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return err
	}
	applied := make(map[string]record, len(ran))
	for _, rec := range ran {
		applied[rec.Name] = rec
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATUS\tBATCH")
	for _, e := range sorted() {
		if rec, ok := applied[e.name]; ok {
			fmt.Fprintf(tw, "%s\tRan\t%d\n", e.name, rec.Batch)
		} else {
			fmt.Fprintf(tw, "%s\tPending\t-\n", e.name)
		}
	}
	return tw.Flush()
}

func (r *Runner) lastBatch() int {
	var max struct{ Max int }
	r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max)
	return max.Max
}
