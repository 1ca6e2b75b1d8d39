package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/camden-git/storyboardbackend/projects"
)

type projectInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListProjects returns the recent-projects list followed by any other
// project folders found under the base directory.
func (ed *Editor) ListProjects(w http.ResponseWriter, r *http.Request) {
	recent, err := projects.LoadRecentProjects(ed.Cfg.ProjectsBaseDir)
	if err != nil {
		log.Printf("Error loading recent projects: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load recent projects")
		return
	}

	seen := make(map[string]bool, len(recent))
	infos := make([]projectInfo, 0, len(recent))
	for _, root := range recent {
		seen[root] = true
		infos = append(infos, projectInfo{Name: filepath.Base(root), Path: root})
	}

	folders, err := projects.ListProjectFolders(ed.Cfg.ProjectsBaseDir)
	if err != nil {
		log.Printf("Error scanning project folders: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to scan projects directory")
		return
	}
	for _, root := range folders {
		if !seen[root] {
			infos = append(infos, projectInfo{Name: filepath.Base(root), Path: root})
		}
	}

	writeJSON(w, http.StatusOK, infos)
}

// CreateProject creates and opens a new project, closing any project
// that was open.
func (ed *Editor) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: name")
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	if ed.session != nil {
		if err := ed.session.Close(); err != nil {
			log.Printf("Error closing previous project: %v", err)
		}
		ed.session = nil
	}

	sess, err := projects.Create(ed.Cfg.ProjectsBaseDir, req.Name, ed.Registry)
	if err != nil {
		log.Printf("Error creating project '%s': %v", req.Name, err)
		writeError(w, http.StatusInternalServerError, "Failed to create project: "+err.Error())
		return
	}
	ed.session = sess

	writeJSON(w, http.StatusCreated, projectInfo{Name: sess.Name, Path: sess.Root})
}

// OpenProject opens an existing project root, closing any project that
// was open.
func (ed *Editor) OpenProject(w http.ResponseWriter, r *http.Request) {
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

	if ed.session != nil {
		if err := ed.session.Close(); err != nil {
			log.Printf("Error closing previous project: %v", err)
		}
		ed.session = nil
	}

	sess, err := projects.Open(ed.Cfg.ProjectsBaseDir, req.Path, ed.Registry)
	if err != nil {
		if errors.Is(err, projects.ErrNotAProject) {
			writeError(w, http.StatusNotFound, "No project found at "+req.Path)
			return
		}
		log.Printf("Error opening project at '%s': %v", req.Path, err)
		writeError(w, http.StatusInternalServerError, "Failed to open project")
		return
	}
	ed.session = sess

	writeJSON(w, http.StatusOK, projectInfo{Name: sess.Name, Path: sess.Root})
}

// GetCurrentProject reports the open project, if any.
func (ed *Editor) GetCurrentProject(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	if ed.session == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, projectInfo{Name: ed.session.Name, Path: ed.session.Root})
}

// CloseProject closes the open project. Closing with no project open
// is not an error.
func (ed *Editor) CloseProject(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	if ed.session == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "No project was open"})
		return
	}
	if err := ed.session.Close(); err != nil {
		log.Printf("Error closing project: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to close project")
		return
	}
	ed.session = nil
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project closed"})
}

// ArchiveProject zips the open project's database and media into the
// archives directory.
func (ed *Editor) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	zipPath, zipSize, err := sess.Archive(ed.Cfg.ArchivesPath)
	if err != nil {
		log.Printf("Error archiving project %s: %v", sess.Name, err)
		writeError(w, http.StatusInternalServerError, "Failed to archive project")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"archive_path": zipPath,
		"archive_name": filepath.Base(zipPath),
		"size_bytes":   zipSize,
	})
}
