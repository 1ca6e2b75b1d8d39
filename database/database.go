package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Querier abstracts *sql.DB and *sql.Tx so store functions can run
// inside or outside an explicit transaction
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Open opens a project database without touching the schema. The export
// task uses this to get its own connection, independent of the one the
// editing side holds.
func Open(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// enable write-ahead logging for better concurrency
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		log.Printf("warning: failed to set WAL mode: %v", err)
	}

	return db, nil
}

// InitDB opens a project database and ensures the schema is present,
// applying any pending additive migrations.
func InitDB(dataSourceName string) (*sql.DB, error) {
	db, err := Open(dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func initSchema(db *sql.DB) error {
	sqlStmt := `
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS timeline (
		id INTEGER PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS scenes (
		id INTEGER PRIMARY KEY,
		timeline_id INTEGER NOT NULL,
		sort_order INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS layers (
		id INTEGER PRIMARY KEY,
		scene_id INTEGER NOT NULL,
		image_path TEXT NOT NULL,
		sort_order INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS media (
		id INTEGER PRIMARY KEY,
		path TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS movie_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		duration_sec REAL NOT NULL DEFAULT 10,
		frame_rate REAL NOT NULL DEFAULT 24,
		width INTEGER NOT NULL DEFAULT 1920,
		height INTEGER NOT NULL DEFAULT 1080
	);
	CREATE TABLE IF NOT EXISTS previews (
		media_path TEXT PRIMARY KEY,
		preview_path TEXT NOT NULL,
		last_modified INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return fmt.Errorf("failed to create base schema: %w", err)
	}

	// migrations are additive only; adding a column that already exists
	// is not an error
	addColumn(db, "scenes", "name TEXT")
	addColumn(db, "layers", "frame_span INTEGER NOT NULL DEFAULT 1")
	addColumn(db, "media", "width INTEGER")
	addColumn(db, "media", "height INTEGER")
	addColumn(db, "media", "taken_at INTEGER")

	if err := ensureSingletonRow(db, "timeline", "INSERT INTO timeline(id) VALUES(1)"); err != nil {
		return err
	}
	if err := ensureSingletonRow(db, "movie_config",
		"INSERT INTO movie_config(id, duration_sec, frame_rate, width, height) VALUES(1, 10, 24, 1920, 1080)"); err != nil {
		return err
	}

	return nil
}

// addColumn applies an additive column migration. Failures other than
// "duplicate column name" are logged but not fatal so an older database
// still opens.
func addColumn(db *sql.DB, table, columnDef string) {
	_, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, columnDef))
	if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
		log.Printf("warning: migration on %s (%s) failed: %v", table, columnDef, err)
	}
}

func ensureSingletonRow(db *sql.DB, table, insertStmt string) error {
	var one int
	err := db.QueryRow(fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table)).Scan(&one)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to probe %s table: %w", table, err)
	}
	if _, err := db.Exec(insertStmt); err != nil {
		return fmt.Errorf("failed to seed %s table: %w", table, err)
	}
	return nil
}
