package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// PreviewInfo records the on-disk preview generated for a media entry,
// keyed by the media's project-relative path.
type PreviewInfo struct {
	PreviewPath  string
	LastModified int64
}

func GetPreviewInfo(q Querier, mediaPath string) (PreviewInfo, error) {
	queryBuilder := psql.Select("preview_path", "last_modified").
		From("previews").
		Where(sq.Eq{"media_path": mediaPath}).
		Limit(1)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return PreviewInfo{}, fmt.Errorf("failed to build SQL for GetPreviewInfo: %w", err)
	}

	var info PreviewInfo
	err = q.QueryRow(sqlStr, args...).Scan(&info.PreviewPath, &info.LastModified)
	if err != nil {
		if err == sql.ErrNoRows {
			return PreviewInfo{}, sql.ErrNoRows
		}
		return PreviewInfo{}, fmt.Errorf("failed to query preview info for %s: %w", mediaPath, err)
	}
	return info, nil
}

func SetPreviewInfo(q Querier, mediaPath, previewPath string, lastModified int64) error {
	queryBuilder := psql.Insert("previews").
		Columns("media_path", "preview_path", "last_modified").
		Values(mediaPath, previewPath, lastModified).
		Suffix("ON CONFLICT(media_path) DO UPDATE SET").
		Suffix("preview_path = excluded.preview_path,").
		Suffix("last_modified = excluded.last_modified")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for SetPreviewInfo: %w", err)
	}

	if _, err := q.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SetPreviewInfo for %s: %w", mediaPath, err)
	}
	return nil
}

func DeletePreviewInfo(q Querier, mediaPath string) error {
	queryBuilder := psql.Delete("previews").Where(sq.Eq{"media_path": mediaPath})
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for DeletePreviewInfo: %w", err)
	}
	if _, err := q.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute DeletePreviewInfo for %s: %w", mediaPath, err)
	}
	return nil
}
