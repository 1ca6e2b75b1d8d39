package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/timeline"
	"github.com/go-chi/chi/v5"
)

func sceneIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "scene_id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene ID format")
		return 0, false
	}
	return id, true
}

// ListScenes returns all scenes in display order, each with the number
// of frames its layers occupy.
func (ed *Editor) ListScenes(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	scenes, err := database.ListScenes(sess.DB)
	if err != nil {
		log.Printf("Error listing scenes: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve scenes")
		return
	}

	type sceneResp struct {
		database.Scene
		UsedFrames int `json:"used_frames"`
	}
	resp := make([]sceneResp, 0, len(scenes))
	for _, sc := range scenes {
		used, err := timeline.UsedFrames(sess.DB, sc.ID)
		if err != nil {
			log.Printf("Error computing used frames for scene %d: %v", sc.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve scenes")
			return
		}
		resp = append(resp, sceneResp{Scene: sc, UsedFrames: used})
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateScene appends a new scene at the end of the display order.
func (ed *Editor) CreateScene(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	id, err := database.CreateScene(sess.DB)
	if err != nil {
		log.Printf("Error creating scene: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create scene")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// RenameScene sets a scene's display name.
func (ed *Editor) RenameScene(w http.ResponseWriter, r *http.Request) {
	sceneID, ok := sceneIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Scene name must not be empty")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	if err := database.RenameScene(sess.DB, sceneID, req.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Scene not found")
			return
		}
		log.Printf("Error renaming scene %d: %v", sceneID, err)
		writeError(w, http.StatusInternalServerError, "Failed to rename scene")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Scene renamed"})
}

// DeleteScene removes a scene and all of its layers.
func (ed *Editor) DeleteScene(w http.ResponseWriter, r *http.Request) {
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

	if err := database.DeleteScene(sess.DB, sceneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Scene not found")
			return
		}
		log.Printf("Error deleting scene %d: %v", sceneID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete scene")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Scene deleted"})
}

// MoveSceneUp swaps a scene with its predecessor in display order. A
// scene already at the top reports a conflict.
func (ed *Editor) MoveSceneUp(w http.ResponseWriter, r *http.Request) {
	ed.moveScene(w, r, database.MoveSceneUp, "top")
}

// MoveSceneDown swaps a scene with its successor in display order. A
// scene already at the bottom reports a conflict.
func (ed *Editor) MoveSceneDown(w http.ResponseWriter, r *http.Request) {
	ed.moveScene(w, r, database.MoveSceneDown, "bottom")
}

func (ed *Editor) moveScene(w http.ResponseWriter, r *http.Request, move func(*sql.DB, int64) error, edge string) {
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

	if err := move(sess.DB, sceneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusConflict, "Scene is already at the "+edge)
			return
		}
		log.Printf("Error moving scene %d: %v", sceneID, err)
		writeError(w, http.StatusInternalServerError, "Failed to move scene")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Scene moved"})
}
