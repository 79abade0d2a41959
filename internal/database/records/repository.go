// Package records provides generic storage for synced remote entities.
//
// Each entity set (shops, products, shopping-list items, addresses) lives in
// its own table, so the table itself is the sync scope: a refresh deletes the
// whole table before inserting the new first page.
package records

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Model is a gorm model with an explicit table name.
type Model interface {
	TableName() string
}

// Repository handles database operations of one entity table.
type Repository[T Model] struct {
	db *gorm.DB
}

// NewRepository creates a repository for the table of T.
func NewRepository[T Model](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx}
}

// Table returns the table name of T.
func (r *Repository[T]) Table() string {
	var zero T
	return zero.TableName()
}

// DeleteAll removes every row of the table.
func (r *Repository[T]) DeleteAll() error {
	var zero T
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error
}

// InsertOrReplace upserts rows by primary key.
func (r *Repository[T]) InsertOrReplace(rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// Delete removes the row with the given primary key.
func (r *Repository[T]) Delete(id any) error {
	var zero T
	return r.db.Delete(&zero, id).Error
}

// List returns up to limit rows starting at offset, newest first. A
// non-positive limit returns all rows.
func (r *Repository[T]) List(limit, offset int) ([]T, error) {
	var rows []T
	query := r.db.Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&rows).Error
	return rows, err
}

// Count returns the number of rows in the table.
func (r *Repository[T]) Count() (int64, error) {
	var zero T
	var count int64
	err := r.db.Model(&zero).Count(&count).Error
	return count, err
}
