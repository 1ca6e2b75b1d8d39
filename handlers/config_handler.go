package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/camden-git/storyboardbackend/database"
)

// GetMovieConfig returns the open project's movie settings.
func (ed *Editor) GetMovieConfig(w http.ResponseWriter, r *http.Request) {
	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	cfg, err := database.GetMovieConfig(sess.DB)
	if err != nil {
		log.Printf("Error reading movie config: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read movie settings")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateMovieConfig validates and persists new movie settings.
// Rejected settings leave the stored configuration untouched.
func (ed *Editor) UpdateMovieConfig(w http.ResponseWriter, r *http.Request) {
	var cfg database.MovieConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	sess := ed.currentSession(w)
	if sess == nil {
		return
	}

	if err := database.SetMovieConfig(sess.DB, cfg); err != nil {
		if verr := cfg.Validate(); verr != nil {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		log.Printf("Error saving movie config: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save movie settings")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
