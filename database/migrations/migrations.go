// Package migrations registers the storefront schema. Import it for side
// effects wherever migration.New(db).Run() is called.
package migrations
