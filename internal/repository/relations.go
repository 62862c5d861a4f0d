package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Relation joins run through Table() without a model, so gorm's soft-delete
// scope does not apply; deleted_at conditions are spelled out on every table.

// OneToOne inner-joins the owning row to exactly one related row by
// this.relatedColumn = related.id. Returns nil when the owning row is absent.
// The projection is base.*, related.*: columns both tables share (id,
// created_at, status, ...) scan into one map key and the related table's
// value wins. Callers that need both sides of a shared column must read the
// owning row separately.
func (r *Repository[T]) OneToOne(id, relatedTable, relatedColumn string) (map[string]interface{}, error) {
	row := map[string]interface{}{}
	err := r.db.Table(r.table).
		Select(fmt.Sprintf("%s.*, %s.*", r.table, relatedTable)).
		Joins(fmt.Sprintf("INNER JOIN %s ON %s.%s = %s.id AND %s.deleted_at IS NULL",
			relatedTable, r.table, relatedColumn, relatedTable, relatedTable)).
		Where(fmt.Sprintf("%s.id = ?", r.table), id).
		Where(fmt.Sprintf("%s.deleted_at IS NULL", r.table)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// OneToMany left-joins the owning row to all related rows where
// related.relatedColumn = this.id. The result is flat: one row per related
// match, never grouped into collections; callers that need grouping do it
// themselves. selectCols must alias columns the two tables share
// ("cities.id AS city_id"); the default base.*, related.* projection lets
// the related table overwrite shared column names in the scanned map.
func (r *Repository[T]) OneToMany(id, relatedTable, relatedColumn string, selectCols []string, where map[string]interface{}) ([]map[string]interface{}, error) {
	sel := fmt.Sprintf("%s.*, %s.*", r.table, relatedTable)
	if len(selectCols) > 0 {
		sel = ""
		for i, col := range selectCols {
			if i > 0 {
				sel += ", "
			}
			sel += col
		}
	}

	query := r.db.Table(r.table).
		Select(sel).
		Joins(fmt.Sprintf("LEFT JOIN %s ON %s.%s = %s.id AND %s.deleted_at IS NULL",
			relatedTable, relatedTable, relatedColumn, r.table, relatedTable)).
		Where(fmt.Sprintf("%s.id = ?", r.table), id).
		Where(fmt.Sprintf("%s.deleted_at IS NULL", r.table))
	if len(where) > 0 {
		query = query.Where(where)
	}

	var rows []map[string]interface{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ManyToMany double-joins through a link table. No filtering by owning id is
// applied; callers filter the returned set further. Shared column names
// collide the same way as in OneToOne: the far table's value wins.
func (r *Repository[T]) ManyToMany(relatedTable, relatedThisColumn, relatedOtherTable, relatedOtherColumn string) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := r.db.Table(r.table).
		Select(fmt.Sprintf("%s.*, %s.*", r.table, relatedOtherTable)).
		Joins(fmt.Sprintf("INNER JOIN %s ON %s.%s = %s.id AND %s.deleted_at IS NULL",
			relatedTable, relatedTable, relatedThisColumn, r.table, relatedTable)).
		Joins(fmt.Sprintf("INNER JOIN %s ON %s.%s = %s.id AND %s.deleted_at IS NULL",
			relatedOtherTable, relatedTable, relatedOtherColumn, relatedOtherTable, relatedOtherTable)).
		Where(fmt.Sprintf("%s.deleted_at IS NULL", r.table)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
