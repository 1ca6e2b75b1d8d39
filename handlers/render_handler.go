package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/camden-git/storyboardbackend/projects"
	"github.com/camden-git/storyboardbackend/realtime"
	"github.com/camden-git/storyboardbackend/render"
)

// StartRender launches a background export of the open project to an
// H.264 movie file. Only one export may run at a time.
func (ed *Editor) StartRender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OutputPath string `json:"output_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: output_path")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}
	if ed.Encoder == nil {
		writeError(w, http.StatusServiceUnavailable, "Rendering is unavailable: ffmpeg was not found")
		return
	}

	outputPath := req.OutputPath
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(sess.Root, outputPath)
	}

	job, err := sess.StartExport(ed.Encoder, outputPath)
	if err != nil {
		if errors.Is(err, projects.ErrExportInFlight) {
			writeError(w, http.StatusConflict, "An export is already running")
			return
		}
		log.Printf("Error starting export: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start export")
		return
	}

	if ed.Hub != nil {
		go ed.publishRenderProgress(job)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"output_path": job.OutputPath})
}

// publishRenderProgress pushes progress events for an export until it
// finishes, then a terminal done event.
func (ed *Editor) publishRenderProgress(job *render.Job) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p := job.Progress()
			ed.Hub.Broadcast(realtime.Event{
				Type:      realtime.EventRenderProgress,
				Path:      job.OutputPath,
				Progress:  &p,
				Timestamp: time.Now().Unix(),
			})
		case <-job.Done():
			event := realtime.Event{
				Type:      realtime.EventRenderDone,
				Path:      job.OutputPath,
				Timestamp: time.Now().Unix(),
			}
			if err := job.Err(); err != nil {
				event.Error = renderErrorDetail(err)
			}
			ed.Hub.Broadcast(event)
			return
		}
	}
}

// RenderStatus reports the progress of the most recent export.
func (ed *Editor) RenderStatus(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	job := sess.ExportJob()
	if job == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"active": false})
		return
	}

	resp := map[string]interface{}{
		"active":      job.Running(),
		"progress":    job.Progress(),
		"output_path": job.OutputPath,
	}
	if !job.Running() {
		resp["done"] = true
		if err := job.Err(); err != nil {
			resp["error"] = renderErrorDetail(err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func renderErrorDetail(err error) string {
	switch {
	case errors.Is(err, render.ErrNoScenes):
		return "The project has no scenes"
	case errors.Is(err, render.ErrEmptyTimeline):
		return "No scene has any layers to render"
	case errors.Is(err, render.ErrFrameWrite):
		return "Failed to write a rendered frame: " + err.Error()
	case errors.Is(err, render.ErrEncode):
		return "Video encoding failed: " + err.Error()
	default:
		return err.Error()
	}
}
