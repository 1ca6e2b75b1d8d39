package database

import (
	"database/sql"
	"fmt"
)

const (
	MaxMovieWidth  = 7680
	MaxMovieHeight = 4320
)

// MovieConfig is the singleton output configuration of a project.
type MovieConfig struct {
	DurationSec float64 `json:"duration_sec"`
	FrameRate   float64 `json:"frame_rate"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// DefaultMovieConfig mirrors the schema column defaults.
func DefaultMovieConfig() MovieConfig {
	return MovieConfig{DurationSec: 10, FrameRate: 24, Width: 1920, Height: 1080}
}

// Validate rejects out-of-range values before any durable write.
func (c MovieConfig) Validate() error {
	if c.DurationSec <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.DurationSec)
	}
	if c.FrameRate < 1 {
		return fmt.Errorf("frame rate must be at least 1, got %g", c.FrameRate)
	}
	if c.Width < 1 || c.Width > MaxMovieWidth {
		return fmt.Errorf("width must be within 1..%d, got %d", MaxMovieWidth, c.Width)
	}
	if c.Height < 1 || c.Height > MaxMovieHeight {
		return fmt.Errorf("height must be within 1..%d, got %d", MaxMovieHeight, c.Height)
	}
	return nil
}

// GetMovieConfig reads the singleton row, falling back to defaults when
// the row is missing.
func GetMovieConfig(q Querier) (MovieConfig, error) {
	queryBuilder := psql.Select("duration_sec", "frame_rate", "width", "height").
		From("movie_config").
		Where("id = 1").
		Limit(1)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return DefaultMovieConfig(), fmt.Errorf("failed to build SQL for GetMovieConfig: %w", err)
	}

	var c MovieConfig
	err = q.QueryRow(sqlStr, args...).Scan(&c.DurationSec, &c.FrameRate, &c.Width, &c.Height)
	if err != nil {
		if err == sql.ErrNoRows {
			return DefaultMovieConfig(), nil
		}
		return DefaultMovieConfig(), fmt.Errorf("failed to query movie config: %w", err)
	}
	return c, nil
}

// SetMovieConfig validates then upserts the singleton row.
func SetMovieConfig(q Querier, c MovieConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}

	queryBuilder := psql.Insert("movie_config").
		Columns("id", "duration_sec", "frame_rate", "width", "height").
		Values(1, c.DurationSec, c.FrameRate, c.Width, c.Height).
		Suffix("ON CONFLICT(id) DO UPDATE SET").
		Suffix("duration_sec = excluded.duration_sec,").
		Suffix("frame_rate = excluded.frame_rate,").
		Suffix("width = excluded.width,").
		Suffix("height = excluded.height")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for SetMovieConfig: %w", err)
	}

	if _, err := q.Exec(sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SetMovieConfig: %w", err)
	}
	return nil
}
