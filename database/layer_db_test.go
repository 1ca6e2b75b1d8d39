package database

import (
	"database/sql"
	"errors"
	"testing"
)

func TestAddLayerRejectsInvalidBounds(t *testing.T) {
	db := openTestDB(t)
	sceneID, _ := CreateScene(db)

	if _, err := AddLayer(db, sceneID, -1, "media/a.png", 5); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds for negative start, got %v", err)
	}
	if _, err := AddLayer(db, sceneID, 0, "media/a.png", 0); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds for zero span, got %v", err)
	}

	layers, _ := ListLayers(db, sceneID)
	if len(layers) != 0 {
		t.Errorf("rejected adds must not write rows, found %d", len(layers))
	}
}

func TestListLayersOrdering(t *testing.T) {
	db := openTestDB(t)
	sceneID, _ := CreateScene(db)

	late, _ := AddLayer(db, sceneID, 10, "media/late.png", 3)
	early, _ := AddLayer(db, sceneID, 2, "media/early.png", 3)
	tieA, _ := AddLayer(db, sceneID, 5, "media/tie_a.png", 3)
	tieB, _ := AddLayer(db, sceneID, 5, "media/tie_b.png", 3)

	layers, err := ListLayers(db, sceneID)
	if err != nil {
		t.Fatalf("ListLayers failed: %v", err)
	}
	want := []int64{early, tieA, tieB, late}
	if len(layers) != len(want) {
		t.Fatalf("expected %d layers, got %d", len(want), len(layers))
	}
	for i, id := range want {
		if layers[i].ID != id {
			t.Errorf("position %d: expected layer %d, got %d", i, id, layers[i].ID)
		}
	}
}

func TestSetLayerBounds(t *testing.T) {
	db := openTestDB(t)
	sceneID, _ := CreateScene(db)
	id, _ := AddLayer(db, sceneID, 4, "media/a.png", 6)

	if err := SetLayerBounds(db, id, 2, 8); err != nil {
		t.Fatalf("SetLayerBounds failed: %v", err)
	}
	l, _ := GetLayer(db, id)
	if l.StartFrame != 2 || l.FrameSpan != 8 {
		t.Errorf("expected bounds (2,8), got (%d,%d)", l.StartFrame, l.FrameSpan)
	}

	if err := SetLayerBounds(db, id, -1, 8); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
	if err := SetLayerSpan(db, id, 0); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
	l, _ = GetLayer(db, id)
	if l.StartFrame != 2 || l.FrameSpan != 8 {
		t.Errorf("rejected updates must not change bounds, got (%d,%d)", l.StartFrame, l.FrameSpan)
	}
}

func TestDeleteLayer(t *testing.T) {
	db := openTestDB(t)
	sceneID, _ := CreateScene(db)
	id, _ := AddLayer(db, sceneID, 0, "media/a.png", 1)

	if err := DeleteLayer(db, id); err != nil {
		t.Fatalf("DeleteLayer failed: %v", err)
	}
	if _, err := GetLayer(db, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows after delete, got %v", err)
	}
	if err := DeleteLayer(db, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows deleting twice, got %v", err)
	}
}
