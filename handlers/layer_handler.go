package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/projects"
	"github.com/camden-git/storyboardbackend/timeline"
	"github.com/go-chi/chi/v5"
)

func layerIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "layer_id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid layer ID format")
		return 0, false
	}
	return id, true
}

func movieFrames(sess *projects.Session) (int, error) {
	cfg, err := database.GetMovieConfig(sess.DB)
	if err != nil {
		return 0, err
	}
	return timeline.TotalMovieFrames(cfg), nil
}

// ListLayers returns a scene's layers in paint order.
func (ed *Editor) ListLayers(w http.ResponseWriter, r *http.Request) {
	sceneID, ok := sceneIDParam(w, r)
	if !ok {
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	layers, err := database.ListLayers(sess.DB, sceneID)
	if err != nil {
		log.Printf("Error listing layers for scene %d: %v", sceneID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve layers")
		return
	}
	if layers == nil {
		layers = []database.Layer{}
	}
	writeJSON(w, http.StatusOK, layers)
}

// AddLayer places a media file on a scene's timeline at the given
// frame.
func (ed *Editor) AddLayer(w http.ResponseWriter, r *http.Request) {
	sceneID, ok := sceneIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		ImagePath  string `json:"image_path"`
		StartFrame int    `json:"start_frame"`
		FrameSpan  int    `json:"frame_span"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ImagePath == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: image_path")
		return
	}
	if req.FrameSpan == 0 {
		req.FrameSpan = 1
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	id, err := database.AddLayer(sess.DB, sceneID, req.StartFrame, req.ImagePath, req.FrameSpan)
	if err != nil {
		if errors.Is(err, database.ErrInvalidBounds) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error adding layer to scene %d: %v", sceneID, err)
		writeError(w, http.StatusInternalServerError, "Failed to add layer")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// MoveLayer drags a layer so its span starts at the given frame,
// clamped to the movie bounds.
func (ed *Editor) MoveLayer(w http.ResponseWriter, r *http.Request) {
	ed.layerFrameOp(w, r, func(sess *projects.Session, layerID int64, frame, total int) error {
		return timeline.MoveLayer(sess.DB, layerID, frame, total)
	})
}

// ResizeLayerLeft drags a layer's left edge to the given frame, keeping
// its end fixed.
func (ed *Editor) ResizeLayerLeft(w http.ResponseWriter, r *http.Request) {
	ed.layerFrameOp(w, r, func(sess *projects.Session, layerID int64, frame, total int) error {
		return timeline.ResizeLayerLeft(sess.DB, layerID, frame)
	})
}

// ResizeLayerRight drags a layer's right edge to the given frame,
// keeping its start fixed.
func (ed *Editor) ResizeLayerRight(w http.ResponseWriter, r *http.Request) {
	ed.layerFrameOp(w, r, func(sess *projects.Session, layerID int64, frame, total int) error {
		return timeline.ResizeLayerRight(sess.DB, layerID, frame, total)
	})
}

func (ed *Editor) layerFrameOp(w http.ResponseWriter, r *http.Request, op func(*projects.Session, int64, int, int) error) {
	layerID, ok := layerIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Frame int `json:"frame"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	total, err := movieFrames(sess)
	if err != nil {
		log.Printf("Error reading movie config: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read movie settings")
		return
	}

	if err := op(sess, layerID, req.Frame, total); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "Layer not found")
		case errors.Is(err, database.ErrInvalidBounds), errors.Is(err, timeline.ErrFrameBudget):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error updating layer %d: %v", layerID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update layer")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Layer updated"})
}

// CopyLayer stores a layer's image and span on the editor clipboard.
func (ed *Editor) CopyLayer(w http.ResponseWriter, r *http.Request) {
	layerID, ok := layerIDParam(w, r)
	if !ok {
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	clip, err := timeline.CopyLayer(sess.DB, layerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Layer not found")
			return
		}
		log.Printf("Error copying layer %d: %v", layerID, err)
		writeError(w, http.StatusInternalServerError, "Failed to copy layer")
		return
	}

	ed.clipboard = clip
	ed.hasClipboard = true
	writeJSON(w, http.StatusOK, clip)
}

// PasteLayer creates a new layer from the clipboard immediately after
// the given layer, or at frame zero when after_layer_id is omitted.
func (ed *Editor) PasteLayer(w http.ResponseWriter, r *http.Request) {
	sceneID, ok := sceneIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		AfterLayerID int64 `json:"after_layer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}
	if !ed.hasClipboard {
		writeError(w, http.StatusConflict, "Clipboard is empty")
		return
	}

	total, err := movieFrames(sess)
	if err != nil {
		log.Printf("Error reading movie config: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read movie settings")
		return
	}

	id, err := timeline.PasteAfter(sess.DB, sceneID, req.AfterLayerID, ed.clipboard, total)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "Reference layer not found")
		case errors.Is(err, database.ErrInvalidBounds), errors.Is(err, timeline.ErrFrameBudget):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Error pasting into scene %d: %v", sceneID, err)
			writeError(w, http.StatusInternalServerError, "Failed to paste layer")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// DeleteLayer removes a layer from its scene.
func (ed *Editor) DeleteLayer(w http.ResponseWriter, r *http.Request) {
	layerID, ok := layerIDParam(w, r)
	if !ok {
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	if err := database.DeleteLayer(sess.DB, layerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Layer not found")
			return
		}
		log.Printf("Error deleting layer %d: %v", layerID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete layer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Layer deleted"})
}
