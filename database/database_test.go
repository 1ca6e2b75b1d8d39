package database

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitDBIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if _, err := CreateScene(db); err != nil {
		t.Fatalf("CreateScene failed: %v", err)
	}
	db.Close()

	// reopening must run migrations without damaging existing data
	db, err = InitDB(path)
	if err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
	defer db.Close()

	scenes, err := ListScenes(db)
	if err != nil {
		t.Fatalf("ListScenes failed: %v", err)
	}
	if len(scenes) != 1 {
		t.Errorf("expected 1 scene to survive reopen, got %d", len(scenes))
	}
}

func TestInitDBSeedsMovieConfigDefaults(t *testing.T) {
	db := openTestDB(t)

	cfg, err := GetMovieConfig(db)
	if err != nil {
		t.Fatalf("GetMovieConfig failed: %v", err)
	}
	if cfg != DefaultMovieConfig() {
		t.Errorf("expected default movie config %+v, got %+v", DefaultMovieConfig(), cfg)
	}
}
