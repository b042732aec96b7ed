// Package repository holds helpers shared by the gorm repositories.
package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice.GO/core/apperr"
)

// ForUpdate adds a row lock to the query. SQLite serialises writers and has
// no SELECT ... FOR UPDATE, so the clause is only added on other dialects.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Translate maps gorm.ErrRecordNotFound to a typed not-found error.
func Translate(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// Page clamps paging input. Page is 1-based.
func Page(page, size int) (offset, limit int) {
	if size <= 0 {
		size = 20
	}
	if size > 500 {
		size = 500
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}
