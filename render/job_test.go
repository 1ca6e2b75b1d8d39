package render

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/camden-git/storyboardbackend/database"
)

type gateEncoder struct {
	release chan struct{}
}

func (g *gateEncoder) EncodeFrameSequence(ctx context.Context, framesDir, pattern string, frameRate int, outputPath string) error {
	<-g.release
	return nil
}

func TestJobLifecycle(t *testing.T) {
	root := setupProject(t)
	db, _ := database.Open(filepath.Join(root, "project.db"))
	sceneID, _ := database.CreateScene(db)
	database.AddLayer(db, sceneID, 0, "media/red.png", 2)
	db.Close()

	enc := &gateEncoder{release: make(chan struct{})}
	ex := &Exporter{DBPath: filepath.Join(root, "project.db"), Root: root, Encoder: enc}

	job := StartExport(ex, filepath.Join(root, "out.mp4"))
	if !job.Running() {
		t.Error("expected job to be running while the encoder is blocked")
	}

	close(enc.release)
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("job did not finish")
	}

	if job.Running() {
		t.Error("finished job must not report running")
	}
	if err := job.Err(); err != nil {
		t.Errorf("expected success, got %v", err)
	}
	if job.Progress() != 1.0 {
		t.Errorf("expected terminal progress 1.0, got %g", job.Progress())
	}
}

func TestJobReportsFailure(t *testing.T) {
	root := setupProject(t)
	// no scenes: the export fails immediately
	ex := &Exporter{DBPath: filepath.Join(root, "project.db"), Root: root, Encoder: &captureEncoder{}}

	job := StartExport(ex, filepath.Join(root, "out.mp4"))
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("job did not finish")
	}

	if err := job.Err(); !errors.Is(err, ErrNoScenes) {
		t.Errorf("expected ErrNoScenes, got %v", err)
	}
}
