// Package repository provides the generic record accessor shared by every
// domain entity. A Repository is bound at construction to a gorm connection
// and a table name; all reads exclude soft-deleted rows.
package repository

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordHasher is implemented by credentialed models. Create invokes it
// before insert so plaintext passwords never reach the database.
type PasswordHasher interface {
	HashPassword() error
}

// Repository is a typed generic accessor for one table.
type Repository[T any] struct {
	db    *gorm.DB
	table string
}

// New binds a repository to a database handle and table name.
func New[T any](db *gorm.DB, table string) *Repository[T] {
	return &Repository[T]{db: db, table: table}
}

// Table returns the bound table name.
func (r *Repository[T]) Table() string {
	return r.table
}

// DB returns the underlying connection, for callers composing custom queries.
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, table: r.table}
}

// Create inserts the entity. Credentialed models are hashed first.
func (r *Repository[T]) Create(entity *T) error {
	if h, ok := any(entity).(PasswordHasher); ok {
		if err := h.HashPassword(); err != nil {
			return err
		}
	}
	return r.db.Table(r.table).Create(entity).Error
}

// Update applies a partial field map to the row matching id among non-deleted
// rows. A "password" key is replaced by its bcrypt digest. Updating an
// already soft-deleted id is a silent no-op returning (nil, nil).
func (r *Repository[T]) Update(id string, fields map[string]interface{}) (*T, error) {
	if plain, ok := fields["password"].(string); ok && plain != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password"] = string(hashed)
	}

	result := r.db.Table(r.table).Model(new(T)).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindID(id)
}

// First returns the first non-deleted row matching the equality predicate
// map, or nil when none matches.
func (r *Repository[T]) First(where map[string]interface{}) (*T, error) {
	var entity T
	err := r.db.Table(r.table).Where(where).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Exists reports whether a non-deleted row matches the predicate map. Any
// whereNot maps exclude rows by equality, used for unique-except-self checks.
func (r *Repository[T]) Exists(where map[string]interface{}, whereNot ...map[string]interface{}) (bool, error) {
	query := r.db.Table(r.table).Model(new(T)).Where(where)
	for _, not := range whereNot {
		query = query.Not(not)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindID looks up a row by primary key among non-deleted rows.
func (r *Repository[T]) FindID(id string) (*T, error) {
	return r.First(map[string]interface{}{"id": id})
}

// GetAll lists non-deleted rows with optional column projection, predicate
// map and ordering.
func (r *Repository[T]) GetAll(selectCols []string, where map[string]interface{}, orderBy string) ([]T, error) {
	query := r.db.Table(r.table).Model(new(T))
	if len(selectCols) > 0 {
		query = query.Select(selectCols)
	}
	if len(where) > 0 {
		query = query.Where(where)
	}
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	var entities []T
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Where lists non-deleted rows matching a single column equality.
func (r *Repository[T]) Where(column string, value interface{}) ([]T, error) {
	return r.GetAll(nil, map[string]interface{}{column: value}, "")
}

// Pluck returns one column of every non-deleted row.
func (r *Repository[T]) Pluck(column string) ([]string, error) {
	var values []string
	err := r.db.Table(r.table).Model(new(T)).Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// FindByIDs returns the non-deleted rows whose ids are in the given set.
func (r *Repository[T]) FindByIDs(ids []string) ([]T, error) {
	var entities []T
	if err := r.db.Table(r.table).Model(new(T)).Where("id IN ?", ids).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Limit lists at most n non-deleted rows matching the predicate map.
func (r *Repository[T]) Limit(n int, where map[string]interface{}, orderBy string) ([]T, error) {
	query := r.db.Table(r.table).Model(new(T))
	if len(where) > 0 {
		query = query.Where(where)
	}
	if orderBy != "" {
		query = query.Order(orderBy)
	}

	var entities []T
	if err := query.Limit(n).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Count returns the number of non-deleted rows, optionally filtered.
func (r *Repository[T]) Count(where ...map[string]interface{}) (int64, error) {
	query := r.db.Table(r.table).Model(new(T))
	for _, w := range where {
		query = query.Where(w)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete soft-deletes the row matching id by stamping deleted_at.
func (r *Repository[T]) Delete(id string) error {
	return r.db.Table(r.table).Where("id = ?", id).Delete(new(T)).Error
}

// Increment atomically adds amount to a numeric column of a non-deleted row.
func (r *Repository[T]) Increment(id, column string, amount int) error {
	return r.db.Table(r.table).Model(new(T)).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", amount)).Error
}

// Decrement atomically subtracts amount from a numeric column.
func (r *Repository[T]) Decrement(id, column string, amount int) error {
	return r.db.Table(r.table).Model(new(T)).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" - ?", amount)).Error
}
