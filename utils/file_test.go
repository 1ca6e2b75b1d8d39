package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsRasterImage(t *testing.T) {
	yes := []string{"a.jpg", "B.JPG", "c.jpeg", "d.png", "e.gif", "f.bmp", "g.tif", "h.tiff"}
	for _, name := range yes {
		if !IsRasterImage(name) {
			t.Errorf("expected %s to be accepted", name)
		}
	}
	no := []string{"a.txt", "b.mp4", "c.psd", "noext", "d.png.bak"}
	for _, name := range no {
		if IsRasterImage(name) {
			t.Errorf("expected %s to be rejected", name)
		}
	}
}

func TestUniqueDestPath(t *testing.T) {
	dir := t.TempDir()

	first := UniqueDestPath(dir, "shot.png")
	if first != filepath.Join(dir, "shot.png") {
		t.Errorf("expected plain name when free, got %s", first)
	}
	if err := os.WriteFile(first, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}

	second := UniqueDestPath(dir, "shot.png")
	if second != filepath.Join(dir, "shot_1.png") {
		t.Errorf("expected shot_1.png, got %s", second)
	}
	if err := os.WriteFile(second, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}

	third := UniqueDestPath(dir, "shot.png")
	if third != filepath.Join(dir, "shot_2.png") {
		t.Errorf("expected shot_2.png, got %s", third)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("frame data")
	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("expected %q, got %q", content, got)
	}

	if err := CopyFile(filepath.Join(dir, "missing.bin"), dst); err == nil {
		t.Error("expected copy of missing source to fail")
	}
}
