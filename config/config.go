package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPreviewsSubDir = "previews"
	DefaultArchivesSubDir = "archives"
)

const (
	defaultPreviewQueueSize  = 200
	defaultNumPreviewWorkers = 4
	defaultPreviewMaxSize    = 300
)

type Config struct {
	// directory under which projects are created and scanned
	ProjectsBaseDir string

	// media storage configuration
	StoragePath  string // primary root for generated assets (previews, archives)
	PreviewsPath string // full-calculated path for previews
	ArchivesPath string // full-calculated path for archives

	// preview generation settings
	PreviewMaxSize int

	// worker settings
	PreviewQueueSize  int
	NumPreviewWorkers int

	// encoder settings
	FFmpegPath string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	baseDir := getEnvOrDefault("PROJECTS_BASE_DIR", filepath.Join(home, "Documents", "storyboard"))
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for projects directory '%s': %w", baseDir, err)
	}

	storage := getEnvOrDefault("STORAGE_PATH", filepath.Join(absBaseDir, "storage"))
	absStorage, err := filepath.Abs(storage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage '%s': %w", storage, err)
	}

	previewSubDir := getEnvOrDefault("PREVIEWS_SUBDIR", DefaultPreviewsSubDir)
	absPreviewsPath := filepath.Join(absStorage, previewSubDir)

	archiveSubDir := getEnvOrDefault("ARCHIVES_SUBDIR", DefaultArchivesSubDir)
	absArchivesPath := filepath.Join(absStorage, archiveSubDir)

	cfg := Config{
		ProjectsBaseDir:   absBaseDir,
		StoragePath:       absStorage,
		PreviewsPath:      absPreviewsPath,
		ArchivesPath:      absArchivesPath,
		PreviewMaxSize:    getEnvIntOrDefault("PREVIEW_MAX_SIZE", defaultPreviewMaxSize),
		PreviewQueueSize:  getEnvIntOrDefault("PREVIEW_QUEUE_SIZE", defaultPreviewQueueSize),
		NumPreviewWorkers: getEnvIntOrDefault("NUM_PREVIEW_WORKERS", defaultNumPreviewWorkers),
		FFmpegPath:        getEnvOrDefault("FFMPEG_PATH", "ffmpeg"),
	}

	return cfg, nil
}
