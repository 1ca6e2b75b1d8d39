package handlers

import (
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/camden-git/storyboardbackend/config"
	"github.com/camden-git/storyboardbackend/projects"
	"github.com/disintegration/imaging"
)

func newTextureTestEditor(t *testing.T) (*Editor, *projects.Session, string) {
	t.Helper()
	base := t.TempDir()
	sess, err := projects.Create(base, "Texture Test", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { sess.Close() })

	ed := NewEditor(config.Config{ProjectsBaseDir: base}, nil, nil, nil, nil)
	ed.session = sess
	return ed, sess, base
}

func writeTexturePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func requestTexture(ed *Editor, relPath string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/media/texture?path="+url.QueryEscape(relPath), nil)
	rec := httptest.NewRecorder()
	ed.ServeMediaTexture(rec, req)
	return rec
}

func TestServeMediaTextureRejectsTraversal(t *testing.T) {
	ed, _, base := newTextureTestEditor(t)

	// a decodable file outside the project root must stay unreachable
	outside := filepath.Join(base, "secret.png")
	writeTexturePNG(t, outside)

	escapes := []string{
		"../secret.png",
		"media/../../secret.png",
		outside,
	}
	for _, p := range escapes {
		if rec := requestTexture(ed, p); rec.Code != http.StatusBadRequest {
			t.Errorf("path %q: expected 400, got %d", p, rec.Code)
		}
	}
}

func TestServeMediaTextureServesImportedFile(t *testing.T) {
	ed, sess, _ := newTextureTestEditor(t)

	src := filepath.Join(t.TempDir(), "shot.png")
	writeTexturePNG(t, src)
	rel, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	rec := requestTexture(ed, rel)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
}
