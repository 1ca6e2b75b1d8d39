package database

import (
	"database/sql"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
)

// Scene is an ordered segment of the project's single timeline. Sort
// orders define timeline position by value; gaps left behind by deletes
// are tolerated.
type Scene struct {
	ID        int64  `json:"id"`
	SortOrder int    `json:"sort_order"`
	Name      string `json:"name"`
}

// ListScenes returns all scenes in timeline order. Unnamed scenes get
// the "Scene {id}" display default.
func ListScenes(q Querier) ([]Scene, error) {
	queryBuilder := psql.Select("id", "sort_order", "COALESCE(name, 'Scene ' || id)").
		From("scenes").
		OrderBy("sort_order", "id")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListScenes: %w", err)
	}

	rows, err := q.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListScenes query: %w", err)
	}
	defer rows.Close()

	scenes := []Scene{}
	for rows.Next() {
		var s Scene
		if err := rows.Scan(&s.ID, &s.SortOrder, &s.Name); err != nil {
			log.Printf("error scanning scene row: %v", err)
			continue
		}
		scenes = append(scenes, s)
	}

	if err := rows.Err(); err != nil {
		return scenes, fmt.Errorf("error iterating scene rows: %w", err)
	}
	return scenes, nil
}

// CreateScene appends a new scene at the end of the timeline
// (sort_order = current max + 1) and returns its id.
func CreateScene(db *sql.DB) (int64, error) {
	var nextOrder int
	err := db.QueryRow("SELECT COALESCE(MAX(sort_order), 0) + 1 FROM scenes WHERE timeline_id = 1").Scan(&nextOrder)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next scene sort order: %w", err)
	}

	queryBuilder := psql.Insert("scenes").
		Columns("timeline_id", "sort_order", "name").
		Values(1, nextOrder, fmt.Sprintf("Scene %d", nextOrder))

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for CreateScene: %w", err)
	}

	res, err := db.Exec(sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateScene: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new scene id: %w", err)
	}
	return id, nil
}

// RenameScene sets a scene's display name. Empty names are rejected
// before any write.
func RenameScene(q Querier, id int64, name string) error {
	if name == "" {
		return fmt.Errorf("scene name must not be empty")
	}

	queryBuilder := psql.Update("scenes").
		Set("name", name).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for RenameScene: %w", err)
	}

	res, err := q.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to execute RenameScene for ID %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteScene removes a scene together with all of its layers in a
// single transaction.
func DeleteScene(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin DeleteScene transaction: %w", err)
	}
	defer tx.Rollback()

	delLayers := psql.Delete("layers").Where(sq.Eq{"scene_id": id})
	sqlStr, args, err := delLayers.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeleteScene layers: %w", err)
	}
	if _, err := tx.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to delete layers of scene %d: %w", id, err)
	}

	delScene := psql.Delete("scenes").Where(sq.Eq{"id": id})
	sqlStr, args, err = delScene.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeleteScene: %w", err)
	}
	res, err := tx.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete scene %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	return tx.Commit()
}

// MoveSceneUp swaps the scene's sort order with its nearest predecessor.
// Returns sql.ErrNoRows when the scene is already first (or missing).
func MoveSceneUp(db *sql.DB, sceneID int64) error {
	return swapWithAdjacent(db, sceneID, true)
}

// MoveSceneDown swaps the scene's sort order with its nearest successor.
// Returns sql.ErrNoRows when the scene is already last (or missing).
func MoveSceneDown(db *sql.DB, sceneID int64) error {
	return swapWithAdjacent(db, sceneID, false)
}

// swapWithAdjacent performs the 2-row transactional sort-order exchange.
// This is deliberately a swap, not a renumbering: every other scene
// keeps its sort order.
func swapWithAdjacent(db *sql.DB, sceneID int64, up bool) error {
	var order int
	sqlStr, args, err := psql.Select("sort_order").From("scenes").Where(sq.Eq{"id": sceneID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for scene sort order lookup: %w", err)
	}
	if err := db.QueryRow(sqlStr, args...).Scan(&order); err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return fmt.Errorf("failed to look up sort order of scene %d: %w", sceneID, err)
	}

	adjacent := psql.Select("id", "sort_order").From("scenes")
	if up {
		adjacent = adjacent.Where(sq.Lt{"sort_order": order}).OrderBy("sort_order DESC")
	} else {
		adjacent = adjacent.Where(sq.Gt{"sort_order": order}).OrderBy("sort_order ASC")
	}
	sqlStr, args, err = adjacent.Limit(1).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for adjacent scene lookup: %w", err)
	}

	var otherID int64
	var otherOrder int
	if err := db.QueryRow(sqlStr, args...).Scan(&otherID, &otherOrder); err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows // already at the edge
		}
		return fmt.Errorf("failed to find adjacent scene for %d: %w", sceneID, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin scene swap transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setSceneOrder(tx, sceneID, otherOrder); err != nil {
		return err
	}
	if err := setSceneOrder(tx, otherID, order); err != nil {
		return err
	}

	return tx.Commit()
}

func setSceneOrder(q Querier, sceneID int64, order int) error {
	sqlStr, args, err := psql.Update("scenes").
		Set("sort_order", order).
		Where(sq.Eq{"id": sceneID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for scene order update: %w", err)
	}
	if _, err := q.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to update sort order of scene %d: %w", sceneID, err)
	}
	return nil
}
