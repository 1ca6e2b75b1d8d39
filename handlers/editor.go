package handlers

import (
	"net/http"
	"sync"

	"github.com/camden-git/storyboardbackend/config"
	"github.com/camden-git/storyboardbackend/projects"
	"github.com/camden-git/storyboardbackend/realtime"
	"github.com/camden-git/storyboardbackend/render"
	"github.com/camden-git/storyboardbackend/repository"
	"github.com/camden-git/storyboardbackend/timeline"
	"github.com/camden-git/storyboardbackend/workers"
)

// Editor holds the single open project and the shared collaborators
// every handler needs. One project is open at a time; the clipboard
// survives project switches.
type Editor struct {
	Cfg      config.Config
	Encoder  render.Encoder // nil when ffmpeg is unavailable
	Previews *workers.PreviewGenerator
	Registry *repository.ProjectRepository
	Hub      *realtime.Hub

	mu           sync.Mutex
	session      *projects.Session
	clipboard    timeline.Clipboard
	hasClipboard bool
}

func NewEditor(cfg config.Config, encoder render.Encoder, previews *workers.PreviewGenerator, registry *repository.ProjectRepository, hub *realtime.Hub) *Editor {
	return &Editor{
		Cfg:      cfg,
		Encoder:  encoder,
		Previews: previews,
		Registry: registry,
		Hub:      hub,
	}
}

// currentSession returns the open session, or writes a 409 and returns
// nil when no project is open. Callers must hold ed.mu.
func (ed *Editor) currentSession(w http.ResponseWriter) *projects.Session {
	if ed.session == nil {
		writeError(w, http.StatusConflict, "No project is open")
		return nil
	}
	return ed.session
}
