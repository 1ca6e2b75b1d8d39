package render

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/timeline"
)

// Result surface of an export. The UI presents a binary success/failure
// dialog; these exist for logs and tests.
var (
	ErrNoScenes      = errors.New("project has no scenes")
	ErrEmptyTimeline = errors.New("timeline has no frames")
	ErrFrameWrite    = errors.New("failed to write frame")
	ErrEncode        = errors.New("video encoding failed")
)

// FrameFilePattern names the per-frame files handed to the encoder.
const FrameFilePattern = "frame_%05d.png"

// Encoder turns an ordered frame-image sequence into a video file.
type Encoder interface {
	EncodeFrameSequence(ctx context.Context, framesDir, pattern string, frameRate int, outputPath string) error
}

// Exporter renders a project's full timeline to a video file. It opens
// its own database connection from DBPath; the interactive side's
// connection is never shared across the thread boundary.
type Exporter struct {
	DBPath  string
	Root    string
	Encoder Encoder
}

// Export rasterizes every frame of every scene in timeline order into a
// temporary directory under the project root, then invokes the encoder
// over the sequence. Progress is reported as a fraction in [0,1],
// monotonically non-decreasing. Every failure is terminal; temporary
// frames are removed on success and failure alike.
func (ex *Exporter) Export(ctx context.Context, outputPath string, progress func(float64)) error {
	if progress == nil {
		progress = func(float64) {}
	}
	if ex.Encoder == nil {
		return fmt.Errorf("%w: no encoder configured", ErrEncode)
	}

	db, err := database.Open(ex.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open project database for export: %w", err)
	}
	defer db.Close()

	cfg, err := database.GetMovieConfig(db)
	if err != nil {
		return fmt.Errorf("failed to read movie config: %w", err)
	}

	scenes, err := database.ListScenes(db)
	if err != nil {
		return fmt.Errorf("failed to list scenes: %w", err)
	}
	if len(scenes) == 0 {
		return ErrNoScenes
	}

	// each scene contributes its own used-frame count, not the
	// configured movie duration
	frameCounts := make([]int, len(scenes))
	totalFrames := 0
	for i, scene := range scenes {
		n, err := timeline.UsedFrames(db, scene.ID)
		if err != nil {
			return fmt.Errorf("failed to compute used frames of scene %d: %w", scene.ID, err)
		}
		frameCounts[i] = n
		totalFrames += n
	}
	if totalFrames == 0 {
		return ErrEmptyTimeline
	}

	tmpDir := filepath.Join(ex.Root, ".render_frames-"+uuid.NewString()[:8])
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return fmt.Errorf("failed to create frame directory %s: %w", tmpDir, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("render: failed to clean up frame directory %s: %v", tmpDir, err)
		}
	}()

	// reused for every frame no layer covers: all-zero RGBA
	blank := TransparentFrame(cfg.Width, cfg.Height)

	frameIndex := 0
	for i, scene := range scenes {
		for f := 0; f < frameCounts[i]; f++ {
			progress(float64(frameIndex) / float64(totalFrames))

			frame := blank
			rel, err := timeline.Resolve(db, scene.ID, f)
			if err != nil {
				log.Printf("render: frame resolution failed for scene %d frame %d: %v", scene.ID, f, err)
				rel = ""
			}
			if rel != "" {
				src, err := imaging.Open(filepath.Join(ex.Root, rel))
				if err != nil {
					log.Printf("render: failed to decode %s, emitting black frame: %v", rel, err)
				} else {
					frame = Resample(imaging.Clone(src), cfg.Width, cfg.Height)
				}
			}

			framePath := filepath.Join(tmpDir, fmt.Sprintf(FrameFilePattern, frameIndex))
			if err := imaging.Save(frame, framePath); err != nil {
				return fmt.Errorf("%w: frame %d: %v", ErrFrameWrite, frameIndex, err)
			}
			frameIndex++
		}
	}
	progress(1.0)

	if err := ex.Encoder.EncodeFrameSequence(ctx, tmpDir, FrameFilePattern, int(cfg.FrameRate), outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}
