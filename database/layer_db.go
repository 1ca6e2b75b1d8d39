package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
)

// ErrInvalidBounds is returned when a layer mutation carries a negative
// start frame or a span below one. The operation is a no-op.
var ErrInvalidBounds = errors.New("invalid layer bounds")

// Layer places an image on a scene's local frame axis. It is visible for
// the half-open interval [StartFrame, StartFrame+FrameSpan). The
// sort_order column holds the start frame.
type Layer struct {
	ID         int64  `json:"id"`
	SceneID    int64  `json:"scene_id"`
	ImagePath  string `json:"image_path"`
	StartFrame int    `json:"start_frame"`
	FrameSpan  int    `json:"frame_span"`
}

// ListLayers returns a scene's layers ordered by (start frame, id).
// Overlap resolution depends on exactly this order.
func ListLayers(q Querier, sceneID int64) ([]Layer, error) {
	queryBuilder := psql.Select("id", "scene_id", "image_path", "sort_order", "COALESCE(frame_span, 1)").
		From("layers").
		Where(sq.Eq{"scene_id": sceneID}).
		OrderBy("sort_order", "id")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListLayers: %w", err)
	}

	rows, err := q.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListLayers query for scene %d: %w", sceneID, err)
	}
	defer rows.Close()

	layers := []Layer{}
	for rows.Next() {
		var l Layer
		if err := rows.Scan(&l.ID, &l.SceneID, &l.ImagePath, &l.StartFrame, &l.FrameSpan); err != nil {
			log.Printf("error scanning layer row: %v", err)
			continue
		}
		if l.FrameSpan < 1 {
			l.FrameSpan = 1
		}
		layers = append(layers, l)
	}

	if err := rows.Err(); err != nil {
		return layers, fmt.Errorf("error iterating layer rows: %w", err)
	}
	return layers, nil
}

func GetLayer(q Querier, id int64) (Layer, error) {
	queryBuilder := psql.Select("id", "scene_id", "image_path", "sort_order", "COALESCE(frame_span, 1)").
		From("layers").
		Where(sq.Eq{"id": id}).
		Limit(1)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return Layer{}, fmt.Errorf("failed to build SQL for GetLayer: %w", err)
	}

	var l Layer
	err = q.QueryRow(sqlStr, args...).Scan(&l.ID, &l.SceneID, &l.ImagePath, &l.StartFrame, &l.FrameSpan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Layer{}, sql.ErrNoRows
		}
		return Layer{}, fmt.Errorf("failed to query layer %d: %w", id, err)
	}
	if l.FrameSpan < 1 {
		l.FrameSpan = 1
	}
	return l, nil
}

// AddLayer inserts a layer at the given start frame and returns its id.
func AddLayer(q Querier, sceneID int64, startFrame int, imagePath string, frameSpan int) (int64, error) {
	if startFrame < 0 || frameSpan < 1 {
		return 0, ErrInvalidBounds
	}

	queryBuilder := psql.Insert("layers").
		Columns("scene_id", "image_path", "sort_order", "frame_span").
		Values(sceneID, imagePath, startFrame, frameSpan)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for AddLayer: %w", err)
	}

	res, err := q.Exec(sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute AddLayer for scene %d: %w", sceneID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new layer id: %w", err)
	}
	return id, nil
}

func SetLayerStartFrame(q Querier, layerID int64, startFrame int) error {
	if startFrame < 0 {
		return ErrInvalidBounds
	}
	return updateLayer(q, layerID, map[string]interface{}{"sort_order": startFrame})
}

func SetLayerSpan(q Querier, layerID int64, frameSpan int) error {
	if frameSpan < 1 {
		return ErrInvalidBounds
	}
	return updateLayer(q, layerID, map[string]interface{}{"frame_span": frameSpan})
}

// SetLayerBounds updates start frame and span together, used by
// left-edge resizes where both change as one move.
func SetLayerBounds(q Querier, layerID int64, startFrame, frameSpan int) error {
	if startFrame < 0 || frameSpan < 1 {
		return ErrInvalidBounds
	}
	return updateLayer(q, layerID, map[string]interface{}{
		"sort_order": startFrame,
		"frame_span": frameSpan,
	})
}

func updateLayer(q Querier, layerID int64, values map[string]interface{}) error {
	queryBuilder := psql.Update("layers").
		SetMap(values).
		Where(sq.Eq{"id": layerID})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for layer update: %w", err)
	}

	res, err := q.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update layer %d: %w", layerID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteLayer(q Querier, layerID int64) error {
	queryBuilder := psql.Delete("layers").Where(sq.Eq{"id": layerID})
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeleteLayer: %w", err)
	}

	res, err := q.Exec(sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to execute DeleteLayer for %d: %w", layerID, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
