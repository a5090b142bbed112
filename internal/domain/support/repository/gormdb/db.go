// Package gormdb implements the support repositories over GORM.
//
// Each repository performs a lazy one-time schema ensure on first use.
// The ensure step itself is idempotent (create/alter-if-missing), so two
// racing first accesses are safe; only success is cached.
package gormdb

import (
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/Conte777/SupportFlow/pkg/errors"
)

// schemaGuard caches a successful schema check for the process lifetime
type schemaGuard struct {
	checked atomic.Bool
}

func (g *schemaGuard) ensure(db *gorm.DB, model any) error {
	if g.checked.Load() {
		return nil
	}
	if err := db.AutoMigrate(model); err != nil {
		return pkgerrors.NewStorageError("ensure schema", err)
	}
	g.checked.Store(true)
	return nil
}

// dayUTC truncates a timestamp to its UTC calendar day
func dayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func storage(op string, err error) error {
	return pkgerrors.NewStorageError(op, err)
}
