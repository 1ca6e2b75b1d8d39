// Package timeline interprets the frame semantics of a project store:
// which image plays at a given frame, how many frames a scene occupies,
// and the clamping rules for layer moves and resizes.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/camden-git/storyboardbackend/database"
)

// ErrFrameBudget is returned when an edit would extend a layer at or
// past the movie-wide frame budget.
var ErrFrameBudget = errors.New("movie frame budget exceeded")

// TotalMovieFrames is the configured whole-movie frame budget,
// round(duration * frame rate). Layer resizes and pastes are bounded by
// this, not by any scene's own length.
func TotalMovieFrames(cfg database.MovieConfig) int {
	return int(math.Round(cfg.DurationSec * cfg.FrameRate))
}

// Resolve maps (scene, frame) to the image path that plays there. All
// layers are scanned in (start frame, id) ascending order and the last
// one covering the frame wins, like a back-to-front compositor with a
// single visible layer. The empty string means no layer covers the
// frame; consumers render black.
func Resolve(q database.Querier, sceneID int64, frame int) (string, error) {
	layers, err := database.ListLayers(q, sceneID)
	if err != nil {
		return "", err
	}

	path := ""
	for _, l := range layers {
		if frame >= l.StartFrame && frame < l.StartFrame+l.FrameSpan {
			path = l.ImagePath
		}
	}
	return path, nil
}

// UsedFrames is the number of frames the scene contributes to a
// whole-timeline export: the maximum layer end frame, or 0 for an empty
// scene.
func UsedFrames(q database.Querier, sceneID int64) (int, error) {
	layers, err := database.ListLayers(q, sceneID)
	if err != nil {
		return 0, err
	}

	end := 0
	for _, l := range layers {
		if layerEnd := l.StartFrame + l.FrameSpan; layerEnd > end {
			end = layerEnd
		}
	}
	return end, nil
}

// MoveLayer drags a layer to a new start frame, clamped so the layer
// stays within [0, totalFrames).
func MoveLayer(q database.Querier, layerID int64, frame, totalFrames int) error {
	l, err := database.GetLayer(q, layerID)
	if err != nil {
		return err
	}

	newStart := frame
	if max := totalFrames - l.FrameSpan; newStart > max {
		newStart = max
	}
	if newStart < 0 {
		newStart = 0
	}
	return database.SetLayerStartFrame(q, layerID, newStart)
}

// ResizeLayerLeft drags a layer's left edge to the given frame. The end
// frame never moves and the span never drops below one.
func ResizeLayerLeft(q database.Querier, layerID int64, frame int) error {
	l, err := database.GetLayer(q, layerID)
	if err != nil {
		return err
	}

	end := l.StartFrame + l.FrameSpan
	newStart := frame
	if newStart > end-1 {
		newStart = end - 1
	}
	if newStart < 0 {
		newStart = 0
	}
	return database.SetLayerBounds(q, layerID, newStart, end-newStart)
}

// ResizeLayerRight drags a layer's right edge to the given frame. The
// span never drops below one and the layer's end may not pass the
// movie-wide frame budget.
func ResizeLayerRight(q database.Querier, layerID int64, frame, totalFrames int) error {
	l, err := database.GetLayer(q, layerID)
	if err != nil {
		return err
	}

	newSpan := frame - l.StartFrame
	if newSpan < 1 {
		newSpan = 1
	}
	if l.StartFrame+newSpan > totalFrames {
		return fmt.Errorf("%w: layer end %d past %d", ErrFrameBudget, l.StartFrame+newSpan, totalFrames)
	}
	return database.SetLayerSpan(q, layerID, newSpan)
}

// Clipboard holds a copied layer's image and span. It deliberately
// carries no frame position; paste position comes from the selection at
// paste time.
type Clipboard struct {
	Path string `json:"path"`
	Span int    `json:"span"`
}

// CopyLayer snapshots a layer's path and span for a later paste.
func CopyLayer(q database.Querier, layerID int64) (Clipboard, error) {
	l, err := database.GetLayer(q, layerID)
	if err != nil {
		return Clipboard{}, err
	}
	return Clipboard{Path: l.ImagePath, Span: l.FrameSpan}, nil
}

// PasteAfter inserts the clipboard contents immediately after the
// selected layer (or at frame 0 when afterLayerID is zero) and returns
// the new layer's id. The paste is refused when the start would land at
// or past the movie frame budget.
func PasteAfter(q database.Querier, sceneID, afterLayerID int64, clip Clipboard, totalFrames int) (int64, error) {
	if clip.Path == "" {
		return 0, fmt.Errorf("clipboard is empty")
	}

	pasteAt := 0
	if afterLayerID != 0 {
		l, err := database.GetLayer(q, afterLayerID)
		if err != nil {
			return 0, err
		}
		pasteAt = l.StartFrame + l.FrameSpan
	}
	if pasteAt >= totalFrames {
		return 0, fmt.Errorf("%w: paste position %d at or past %d", ErrFrameBudget, pasteAt, totalFrames)
	}

	return database.AddLayer(q, sceneID, pasteAt, clip.Path, clip.Span)
}
