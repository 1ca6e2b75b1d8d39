// Package projects manages the lifecycle of storyboard projects: the
// on-disk layout, the recent-projects list, the registry, and the
// per-project editing session.
package projects

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/models"
	"github.com/camden-git/storyboardbackend/render"
	"github.com/camden-git/storyboardbackend/repository"
	"github.com/camden-git/storyboardbackend/thumbs"
	"github.com/camden-git/storyboardbackend/utils"
)

const (
	// DatabaseFileName is the project database inside every project root.
	DatabaseFileName = "project.db"
	// MediaDirName holds the imported source images inside a project root.
	MediaDirName = "media"
)

var (
	ErrExportInFlight = errors.New("an export is already running")
	ErrNotAProject    = errors.New("directory does not contain a project database")
)

// Session is one open project: its database connection, texture cache,
// and any in-flight export.
type Session struct {
	Name string
	Root string
	DB   *sql.DB

	Thumbs   *thumbs.Cache
	Textures *thumbs.MemoryUploader

	registry  *repository.ProjectRepository
	exportJob *render.Job

	// importMu serializes destination-path selection during imports so
	// concurrent imports of same-named files cannot collide.
	importMu sync.Mutex
}

// SanitizeProjectName strips characters that are unsafe in directory
// names and trims trailing dots and spaces. An empty result falls back
// to "Untitled".
func SanitizeProjectName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	name = replacer.Replace(strings.TrimSpace(name))
	name = strings.TrimRight(name, ". ")
	if name == "" {
		return "Untitled"
	}
	return name
}

// Create makes a new project directory under baseDir, initializes its
// database and media folder, registers it, and returns the open
// session.
func Create(baseDir, name string, registry *repository.ProjectRepository) (*Session, error) {
	name = SanitizeProjectName(name)
	root := filepath.Join(baseDir, name)

	if _, err := os.Stat(root); err == nil {
		return nil, fmt.Errorf("project directory %s already exists", root)
	}
	if err := os.MkdirAll(filepath.Join(root, MediaDirName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory %s: %w", root, err)
	}

	db, err := database.InitDB(filepath.Join(root, DatabaseFileName))
	if err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("failed to initialize project database: %w", err)
	}

	sess := newSession(name, root, db, registry)
	if registry != nil {
		if err := registry.Create(&models.Project{Name: name, Path: root}); err != nil {
			// registry failures don't abort creation, the project is usable
			fmt.Fprintf(os.Stderr, "projects: %v\n", err)
		}
	}
	if err := PushRecentProject(baseDir, root); err != nil {
		fmt.Fprintf(os.Stderr, "projects: %v\n", err)
	}
	return sess, nil
}

// Open opens an existing project root, running any pending schema
// migrations, and moves it to the front of the recent list.
func Open(baseDir, root string, registry *repository.ProjectRepository) (*Session, error) {
	dbPath := filepath.Join(root, DatabaseFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, ErrNotAProject
	}

	db, err := database.InitDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open project database: %w", err)
	}

	name := filepath.Base(root)
	sess := newSession(name, root, db, registry)
	if registry != nil {
		if err := registry.TouchLastOpened(name, root); err != nil {
			fmt.Fprintf(os.Stderr, "projects: %v\n", err)
		}
	}
	if err := PushRecentProject(baseDir, root); err != nil {
		fmt.Fprintf(os.Stderr, "projects: %v\n", err)
	}
	return sess, nil
}

func newSession(name, root string, db *sql.DB, registry *repository.ProjectRepository) *Session {
	uploader := thumbs.NewMemoryUploader()
	return &Session{
		Name:     name,
		Root:     root,
		DB:       db,
		Thumbs:   thumbs.NewCache(root, uploader),
		Textures: uploader,
		registry: registry,
	}
}

// DatabasePath is the project database file for this session.
func (s *Session) DatabasePath() string {
	return filepath.Join(s.Root, DatabaseFileName)
}

// MediaDir is the absolute media directory for this session.
func (s *Session) MediaDir() string {
	return filepath.Join(s.Root, MediaDirName)
}

// Close releases the texture cache and closes the project database. An
// in-flight export keeps running on its own connection.
func (s *Session) Close() error {
	s.Thumbs.Clear()
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close project database: %w", err)
	}
	return nil
}

// An export runs on its own database connection and outlives the
// session that started it, so the single-export gate is keyed by
// project root rather than held on the session: closing and reopening
// a project must not let a second export of it start.
var (
	exportsMu     sync.Mutex
	activeExports = make(map[string]*render.Job)
)

// StartExport launches a background export of this project. Only one
// export may run at a time per project.
func (s *Session) StartExport(encoder render.Encoder, outputPath string) (*render.Job, error) {
	root := filepath.Clean(s.Root)

	exportsMu.Lock()
	defer exportsMu.Unlock()

	if job := activeExports[root]; job != nil && job.Running() {
		return nil, ErrExportInFlight
	}
	ex := &render.Exporter{
		DBPath:  s.DatabasePath(),
		Root:    s.Root,
		Encoder: encoder,
	}
	s.exportJob = render.StartExport(ex, outputPath)
	activeExports[root] = s.exportJob
	return s.exportJob, nil
}

// ExportJob returns this project's most recent export job, or nil if
// none was started. A job started before the project was closed and
// reopened is still visible here.
func (s *Session) ExportJob() *render.Job {
	if s.exportJob != nil {
		return s.exportJob
	}
	exportsMu.Lock()
	defer exportsMu.Unlock()
	return activeExports[filepath.Clean(s.Root)]
}

// Archive zips the project database and media files into saveDir.
func (s *Session) Archive(saveDir string) (string, int64, error) {
	return utils.CreateProjectArchive(s.Root, MediaDirName, saveDir)
}
