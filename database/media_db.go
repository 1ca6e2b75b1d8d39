package database

import (
	"database/sql"
	"fmt"
	"log"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"
)

const (
	SortFilenameAsc = "filename_asc"
	SortFilenameNat = "filename_nat"
	SortDateAsc     = "date_asc"
	SortDateDesc    = "date_desc"
)

const DefaultMediaSort = SortFilenameNat

// IsValidMediaSort checks if a string is a known media sort option
func IsValidMediaSort(order string) bool {
	switch order {
	case SortFilenameAsc, SortFilenameNat, SortDateAsc, SortDateDesc:
		return true
	default:
		return false
	}
}

// MediaEntry is one row of the flat per-project media catalog. Width,
// height and taken-at come from decode/EXIF at import time and may be
// absent.
type MediaEntry struct {
	ID      int64   `json:"id"`
	Path    string  `json:"path"`
	Width   *int    `json:"width,omitempty"`
	Height  *int    `json:"height,omitempty"`
	TakenAt *int64  `json:"taken_at,omitempty"`
}

// ListMedia returns the catalog in the requested order. Natural
// filename ordering is applied in-process since sqlite cannot express it.
func ListMedia(q Querier, sortOrder string) ([]MediaEntry, error) {
	queryBuilder := psql.Select("id", "path", "width", "height", "taken_at").From("media")
	switch sortOrder {
	case SortDateAsc:
		queryBuilder = queryBuilder.OrderBy("taken_at ASC", "path ASC")
	case SortDateDesc:
		queryBuilder = queryBuilder.OrderBy("taken_at DESC", "path ASC")
	default:
		queryBuilder = queryBuilder.OrderBy("path ASC")
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListMedia: %w", err)
	}

	rows, err := q.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListMedia query: %w", err)
	}
	defer rows.Close()

	entries := []MediaEntry{}
	for rows.Next() {
		var m MediaEntry
		if err := rows.Scan(&m.ID, &m.Path, &m.Width, &m.Height, &m.TakenAt); err != nil {
			log.Printf("error scanning media row: %v", err)
			continue
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return entries, fmt.Errorf("error iterating media rows: %w", err)
	}

	if sortOrder == SortFilenameNat {
		sort.SliceStable(entries, func(i, j int) bool {
			return natsort.Compare(entries[i].Path, entries[j].Path)
		})
	}
	return entries, nil
}

// AddMedia inserts a catalog row and returns its id. The path is
// relative to the project root (e.g. "media/shot_01.png").
func AddMedia(q Querier, path string, width, height *int, takenAt *int64) (int64, error) {
	if path == "" {
		return 0, fmt.Errorf("media path must not be empty")
	}

	queryBuilder := psql.Insert("media").
		Columns("path", "width", "height", "taken_at").
		Values(path, width, height, takenAt)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for AddMedia: %w", err)
	}

	res, err := q.Exec(sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute AddMedia for %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new media id: %w", err)
	}
	return id, nil
}

// DeleteMedia removes a catalog row by relative path. Layers referencing
// the path are left alone; they resolve to nothing from then on.
func DeleteMedia(q Querier, path string) error {
	queryBuilder := psql.Delete("media").Where(sq.Eq{"path": path})
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeleteMedia: %w", err)
	}

	res, err := q.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to execute DeleteMedia for %s: %w", path, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RenameMedia updates the catalog row and every layer referencing the
// old path in one transaction, so the two can never diverge.
func RenameMedia(db *sql.DB, oldPath, newPath string) error {
	if oldPath == "" || newPath == "" {
		return fmt.Errorf("media paths must not be empty")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin RenameMedia transaction: %w", err)
	}
	defer tx.Rollback()

	sqlStr, args, err := psql.Update("media").
		Set("path", newPath).
		Where(sq.Eq{"path": oldPath}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for RenameMedia: %w", err)
	}
	res, err := tx.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to rename media row %s: %w", oldPath, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	sqlStr, args, err = psql.Update("layers").
		Set("image_path", newPath).
		Where(sq.Eq{"image_path": oldPath}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for layer path rewrite: %w", err)
	}
	if _, err := tx.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to rewrite layer paths from %s: %w", oldPath, err)
	}

	return tx.Commit()
}
