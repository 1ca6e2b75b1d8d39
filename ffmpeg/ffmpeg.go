// Package ffmpeg shells out to the ffmpeg binary for video encoding.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Executor runs ffmpeg commands with output streamed into the logger.
type Executor struct {
	logger     zerolog.Logger
	ffmpegPath string
}

// New locates ffmpeg (using binPath when set, PATH lookup otherwise)
// and returns an executor bound to it.
func New(logger zerolog.Logger, binPath string) (*Executor, error) {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	resolved, err := exec.LookPath(binPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found (%s): %w", binPath, err)
	}

	return &Executor{
		logger:     logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath: resolved,
	}, nil
}

// Run executes ffmpeg with the given arguments, streaming its stderr
// (where ffmpeg writes logs and progress) line by line into the logger.
func (e *Executor) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	fullArgs := append([]string{"-y", "-hide_banner"}, args...)

	e.logger.Debug().Strs("args", fullArgs).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, fullArgs...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		e.logger.Debug().Str("ffmpeg", scanner.Text()).Msg("encoder output")
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() == context.Canceled {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// EncodeFrameSequence muxes a numbered still-image sequence into an
// H.264 video at the given frame rate, overwriting outputPath if it
// exists.
func (e *Executor) EncodeFrameSequence(ctx context.Context, framesDir, pattern string, frameRate int, outputPath string) error {
	if frameRate < 1 {
		frameRate = 1
	}

	args := []string{
		"-framerate", fmt.Sprintf("%d", frameRate),
		"-i", filepath.Join(framesDir, pattern),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outputPath,
	}

	e.logger.Info().
		Str("frames", framesDir).
		Int("fps", frameRate).
		Str("output", outputPath).
		Msg("encoding frame sequence")

	if err := e.Run(ctx, args); err != nil {
		return fmt.Errorf("frame sequence encode failed: %w", err)
	}

	e.logger.Info().Str("output", outputPath).Msg("encode completed")
	return nil
}
