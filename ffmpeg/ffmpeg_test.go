package ffmpeg

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRejectsMissingBinary(t *testing.T) {
	if _, err := New(zerolog.Nop(), "/nonexistent/path/to/ffmpeg"); err == nil {
		t.Error("expected an error for a binary that does not exist")
	}
}

func TestRunRejectsEmptyArgs(t *testing.T) {
	ex := &Executor{logger: zerolog.Nop(), ffmpegPath: "ffmpeg"}
	if err := ex.Run(context.Background(), nil); err == nil {
		t.Error("expected an error for an empty argument list")
	}
}
