package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row lock on dialects that support it. SQLite has
// no SELECT ... FOR UPDATE; its single-writer transactions already
// serialize the writes these locks protect.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
