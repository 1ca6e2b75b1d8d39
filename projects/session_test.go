package projects

import (
	"database/sql"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/camden-git/storyboardbackend/database"
)

func TestSanitizeProjectName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Film", "My Film"},
		{"a/b\\c:d*e?f\"g<h>i|j", "a_b_c_d_e_f_g_h_i_j"},
		{"trailing dots...", "trailing dots"},
		{"  spaced  ", "spaced"},
		{"", "Untitled"},
		{"...", "Untitled"},
	}
	for _, c := range cases {
		if got := SanitizeProjectName(c.in); got != c.want {
			t.Errorf("SanitizeProjectName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func createTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	base := t.TempDir()
	sess, err := Create(base, "Test Project", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess, base
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestCreateProjectLayout(t *testing.T) {
	sess, base := createTestSession(t)

	if _, err := os.Stat(sess.DatabasePath()); err != nil {
		t.Errorf("project database missing: %v", err)
	}
	if info, err := os.Stat(sess.MediaDir()); err != nil || !info.IsDir() {
		t.Errorf("media directory missing: %v", err)
	}

	recent, err := LoadRecentProjects(base)
	if err != nil {
		t.Fatalf("LoadRecentProjects failed: %v", err)
	}
	if len(recent) != 1 || recent[0] != sess.Root {
		t.Errorf("expected new project on the recent list, got %v", recent)
	}
}

func TestCreateRejectsExistingDirectory(t *testing.T) {
	base := t.TempDir()
	sess, err := Create(base, "Dup", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sess.Close()

	if _, err := Create(base, "Dup", nil); err == nil {
		t.Error("expected second create with the same name to fail")
	}
}

func TestOpenRequiresProjectDatabase(t *testing.T) {
	base := t.TempDir()
	empty := filepath.Join(base, "empty")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(base, empty, nil); !errors.Is(err, ErrNotAProject) {
		t.Errorf("expected ErrNotAProject, got %v", err)
	}
}

func TestImportMediaCollisionSuffix(t *testing.T) {
	sess, _ := createTestSession(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "shot.png")
	writeTestPNG(t, src)

	first, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if first != "media/shot.png" {
		t.Errorf("expected media/shot.png, got %s", first)
	}

	second, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if second != "media/shot_1.png" {
		t.Errorf("expected collision suffix media/shot_1.png, got %s", second)
	}

	entries, err := database.ListMedia(sess.DB, database.SortFilenameAsc)
	if err != nil {
		t.Fatalf("ListMedia failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 catalog rows, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Width == nil || *e.Width != 3 {
			t.Errorf("expected decoded width 3 for %s, got %v", e.Path, e.Width)
		}
	}
}

func TestImportMediaRejectsNonImage(t *testing.T) {
	sess, _ := createTestSession(t)

	src := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(src, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.ImportMedia(src); err == nil {
		t.Error("expected non-image import to be rejected")
	}
}

func TestRenameMediaKeepsLayersConsistent(t *testing.T) {
	sess, _ := createTestSession(t)

	src := filepath.Join(t.TempDir(), "shot.png")
	writeTestPNG(t, src)
	rel, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	sceneID, _ := database.CreateScene(sess.DB)
	layerID, _ := database.AddLayer(sess.DB, sceneID, 0, rel, 4)

	newRel, err := sess.RenameMedia(rel, "renamed.png")
	if err != nil {
		t.Fatalf("RenameMedia failed: %v", err)
	}
	if newRel != "media/renamed.png" {
		t.Errorf("expected media/renamed.png, got %s", newRel)
	}

	if _, err := os.Stat(filepath.Join(sess.Root, "media", "renamed.png")); err != nil {
		t.Errorf("renamed file missing on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sess.Root, "media", "shot.png")); !os.IsNotExist(err) {
		t.Error("old file still present on disk")
	}

	l, err := database.GetLayer(sess.DB, layerID)
	if err != nil {
		t.Fatalf("GetLayer failed: %v", err)
	}
	if l.ImagePath != newRel {
		t.Errorf("expected layer path %s, got %s", newRel, l.ImagePath)
	}
}

func TestRenameMediaRevertsFileOnDBFailure(t *testing.T) {
	sess, _ := createTestSession(t)

	src := filepath.Join(t.TempDir(), "shot.png")
	writeTestPNG(t, src)
	rel, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	// drop the catalog row behind the session's back so the rename tx fails
	if err := database.DeleteMedia(sess.DB, rel); err != nil {
		t.Fatal(err)
	}

	if _, err := sess.RenameMedia(rel, "renamed.png"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(sess.Root, "media", "shot.png")); err != nil {
		t.Errorf("expected file rename to be reverted: %v", err)
	}
}

func TestDeleteMediaRemovesRowKeepsFile(t *testing.T) {
	sess, _ := createTestSession(t)

	src := filepath.Join(t.TempDir(), "shot.png")
	writeTestPNG(t, src)
	rel, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if err := sess.DeleteMedia(rel); err != nil {
		t.Fatalf("DeleteMedia failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sess.Root, "media", "shot.png")); err != nil {
		t.Errorf("media file must stay on disk after delete: %v", err)
	}
	entries, _ := database.ListMedia(sess.DB, database.SortFilenameAsc)
	if len(entries) != 0 {
		t.Errorf("expected empty catalog, got %d rows", len(entries))
	}

	if err := sess.DeleteMedia(rel); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows on second delete, got %v", err)
	}
}
