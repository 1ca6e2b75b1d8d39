package projects

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRecentProjectsMissingFile(t *testing.T) {
	paths, err := LoadRecentProjects(t.TempDir())
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected empty list, got %v", paths)
	}
}

func TestPushRecentProjectMovesToFront(t *testing.T) {
	base := t.TempDir()

	for _, p := range []string{"/p/a", "/p/b", "/p/c"} {
		if err := PushRecentProject(base, p); err != nil {
			t.Fatalf("PushRecentProject failed: %v", err)
		}
	}

	// re-pushing an existing entry moves it, never duplicates it
	if err := PushRecentProject(base, "/p/a"); err != nil {
		t.Fatalf("PushRecentProject failed: %v", err)
	}

	paths, err := LoadRecentProjects(base)
	if err != nil {
		t.Fatalf("LoadRecentProjects failed: %v", err)
	}
	want := []string{"/p/a", "/p/c", "/p/b"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestPushRecentProjectCapsList(t *testing.T) {
	base := t.TempDir()

	for i := 0; i < maxRecentProjects+5; i++ {
		if err := PushRecentProject(base, filepath.Join("/p", string(rune('a'+i)))); err != nil {
			t.Fatalf("PushRecentProject failed: %v", err)
		}
	}

	paths, err := LoadRecentProjects(base)
	if err != nil {
		t.Fatalf("LoadRecentProjects failed: %v", err)
	}
	if len(paths) != maxRecentProjects {
		t.Errorf("expected list capped at %d, got %d", maxRecentProjects, len(paths))
	}
	// the most recent push is first, the oldest entries fell off
	if paths[0] != filepath.Join("/p", string(rune('a'+maxRecentProjects+4))) {
		t.Errorf("expected newest entry first, got %s", paths[0])
	}
}

func TestListProjectFolders(t *testing.T) {
	base := t.TempDir()

	withDB := filepath.Join(base, "real")
	if err := os.MkdirAll(withDB, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(withDB, DatabaseFileName), []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "not_a_project"), 0755); err != nil {
		t.Fatal(err)
	}

	roots, err := ListProjectFolders(base)
	if err != nil {
		t.Fatalf("ListProjectFolders failed: %v", err)
	}
	if len(roots) != 1 || roots[0] != withDB {
		t.Errorf("expected only %s, got %v", withDB, roots)
	}
}
