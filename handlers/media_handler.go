package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/timeline"
	"github.com/camden-git/storyboardbackend/workers"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

type mediaResp struct {
	database.MediaEntry
	PreviewURL *string `json:"preview_url,omitempty"`
}

// ListMedia returns the project's media catalog in the requested sort
// order, with preview URLs where a preview has been generated.
func (ed *Editor) ListMedia(w http.ResponseWriter, r *http.Request) {
	sortOrder := r.URL.Query().Get("sort")
	if sortOrder == "" {
		sortOrder = database.DefaultMediaSort
	}
	if !database.IsValidMediaSort(sortOrder) {
		writeError(w, http.StatusBadRequest, "Invalid sort order: "+sortOrder)
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	entries, err := database.ListMedia(sess.DB, sortOrder)
	if err != nil {
		log.Printf("Error listing media: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve media")
		return
	}

	resp := make([]mediaResp, 0, len(entries))
	for _, entry := range entries {
		item := mediaResp{MediaEntry: entry}
		info, err := database.GetPreviewInfo(sess.DB, entry.Path)
		if err == nil {
			url := "/api/" + filepath.Base(ed.Cfg.PreviewsPath) + "/" + filepath.Base(info.PreviewPath)
			item.PreviewURL = &url
		} else if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Error reading preview info for %s: %v", entry.Path, err)
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ImportMedia copies a batch of source files into the project's media
// folder and catalogs them. Each imported file gets a preview job
// queued. Files that fail are reported individually without aborting
// the rest of the batch.
func (ed *Editor) ImportMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paths []string `json:"paths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Paths) == 0 {
		writeError(w, http.StatusBadRequest, "Missing required field: paths")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	type importResult struct {
		Source string `json:"source"`
		Path   string `json:"path,omitempty"`
		Error  string `json:"error,omitempty"`
	}
	results := make([]importResult, len(req.Paths))

	g := new(errgroup.Group)
	g.SetLimit(4)
	for i, src := range req.Paths {
		i, src := i, src
		g.Go(func() error {
			relPath, err := sess.ImportMedia(src)
			if err != nil {
				results[i] = importResult{Source: src, Error: err.Error()}
				return nil
			}
			results[i] = importResult{Source: src, Path: relPath}

			if ed.Previews != nil {
				abs := filepath.Join(sess.Root, filepath.FromSlash(relPath))
				var modTime int64
				if info, err := os.Stat(abs); err == nil {
					modTime = info.ModTime().Unix()
				}
				ed.Previews.QueueJob(workers.PreviewJob{
					MediaAbsPath: abs,
					MediaRelPath: relPath,
					ModTimeUnix:  modTime,
					PreviewDir:   ed.Cfg.PreviewsPath,
					DB:           sess.DB,
				})
			}
			return nil
		})
	}
	g.Wait()

	writeJSON(w, http.StatusOK, results)
}

// RenameMedia renames a media file, keeping the catalog and any layers
// that reference it consistent.
func (ed *Editor) RenameMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Path == "" || req.NewName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: path, new_name")
		return
	}
	if filepath.Base(req.NewName) != req.NewName {
		writeError(w, http.StatusBadRequest, "new_name must be a bare filename")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	newRelPath, err := sess.RenameMedia(req.Path, req.NewName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Media not found")
			return
		}
		log.Printf("Error renaming media %s: %v", req.Path, err)
		writeError(w, http.StatusInternalServerError, "Failed to rename media: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": newRelPath})
}

// DeleteMedia removes a media entry from the catalog. The file itself
// stays in the project's media folder.
func (ed *Editor) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: path")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	if err := sess.DeleteMedia(req.Path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Media not found")
			return
		}
		log.Printf("Error deleting media %s: %v", req.Path, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete media")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Media deleted"})
}

// ServeMediaTexture serves a media file through the session's texture
// cache, so repeated requests for timeline thumbnails hit the decoded
// copy.
func (ed *Editor) ServeMediaTexture(w http.ResponseWriter, r *http.Request) {
	relPath := r.URL.Query().Get("path")
	if relPath == "" {
		writeError(w, http.StatusBadRequest, "Missing 'path' query parameter")
		return
	}
	// paths are project-relative; never follow them out of the root
	if filepath.IsAbs(relPath) || strings.Contains(relPath, "..") {
		writeError(w, http.StatusBadRequest, "Invalid 'path' query parameter")
		return
	}

	ed.mu.Lock()
	sess := ed.currentSession(w)
	if sess == nil {
		ed.mu.Unlock()
		return
	}
	entry, ok := sess.Thumbs.GetOrLoad(relPath)
	textures := sess.Textures
	ed.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Media not found or not decodable")
		return
	}
	img, ok := textures.Image(entry.Handle)
	if !ok {
		writeError(w, http.StatusNotFound, "Texture was released")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		log.Printf("Error encoding texture response for %s: %v", relPath, err)
	}
}

// ResolveFrame reports which image plays at a frame of a scene. An
// empty path means no layer covers the frame.
func (ed *Editor) ResolveFrame(w http.ResponseWriter, r *http.Request) {
	sceneID, err := strconv.ParseInt(r.URL.Query().Get("scene"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing 'scene' query parameter")
		return
	}
	frame, err := strconv.Atoi(r.URL.Query().Get("frame"))
	if err != nil || frame < 0 {
		writeError(w, http.StatusBadRequest, "Invalid or missing 'frame' query parameter")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	path, err := timeline.Resolve(sess.DB, sceneID, frame)
	if err != nil {
		log.Printf("Error resolving frame %d of scene %d: %v", frame, sceneID, err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve frame")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
