package projects

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/camden-git/storyboardbackend/database"
)

type blockingEncoder struct {
	release chan struct{}
}

func (b *blockingEncoder) EncodeFrameSequence(ctx context.Context, framesDir, pattern string, frameRate int, outputPath string) error {
	<-b.release
	return nil
}

func TestStartExportSingleInFlight(t *testing.T) {
	sess, _ := createTestSession(t)

	src := filepath.Join(t.TempDir(), "shot.png")
	writeTestPNG(t, src)
	rel, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	sceneID, _ := database.CreateScene(sess.DB)
	if _, err := database.AddLayer(sess.DB, sceneID, 0, rel, 2); err != nil {
		t.Fatal(err)
	}

	enc := &blockingEncoder{release: make(chan struct{})}
	job, err := sess.StartExport(enc, filepath.Join(sess.Root, "out.mp4"))
	if err != nil {
		t.Fatalf("StartExport failed: %v", err)
	}

	if _, err := sess.StartExport(enc, filepath.Join(sess.Root, "other.mp4")); !errors.Is(err, ErrExportInFlight) {
		t.Errorf("expected ErrExportInFlight, got %v", err)
	}

	close(enc.release)
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("export did not finish")
	}
	if err := job.Err(); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// a finished job no longer blocks new exports
	enc2 := &blockingEncoder{release: make(chan struct{})}
	close(enc2.release)
	job2, err := sess.StartExport(enc2, filepath.Join(sess.Root, "second.mp4"))
	if err != nil {
		t.Fatalf("second StartExport failed: %v", err)
	}
	<-job2.Done()
}

func TestExportGateSurvivesSessionReopen(t *testing.T) {
	sess, base := createTestSession(t)
	root := sess.Root

	src := filepath.Join(t.TempDir(), "shot.png")
	writeTestPNG(t, src)
	rel, err := sess.ImportMedia(src)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	sceneID, _ := database.CreateScene(sess.DB)
	if _, err := database.AddLayer(sess.DB, sceneID, 0, rel, 2); err != nil {
		t.Fatal(err)
	}

	enc := &blockingEncoder{release: make(chan struct{})}
	job, err := sess.StartExport(enc, filepath.Join(root, "out.mp4"))
	if err != nil {
		t.Fatalf("StartExport failed: %v", err)
	}

	// closing the project does not stop the export; it runs on its own
	// connection
	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(base, root, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.StartExport(enc, filepath.Join(root, "other.mp4")); !errors.Is(err, ErrExportInFlight) {
		t.Errorf("expected ErrExportInFlight after reopening the project, got %v", err)
	}
	if j := reopened.ExportJob(); j == nil || !j.Running() {
		t.Error("reopened session must see the running export")
	}

	close(enc.release)
	select {
	case <-job.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("export did not finish")
	}
	if err := job.Err(); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// once the export finishes the reopened project may start its own
	enc2 := &blockingEncoder{release: make(chan struct{})}
	close(enc2.release)
	job2, err := reopened.StartExport(enc2, filepath.Join(root, "second.mp4"))
	if err != nil {
		t.Fatalf("StartExport after finished export failed: %v", err)
	}
	<-job2.Done()
}
