package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// CreateProjectArchive zips a project's database file and media
// directory into archiveSaveDir and returns the archive path and size.
func CreateProjectArchive(projectRoot, mediaSubDir, archiveSaveDir string) (string, int64, error) {
	if _, err := os.Stat(projectRoot); err != nil {
		return "", 0, fmt.Errorf("project root not accessible: %w", err)
	}
	if err := os.MkdirAll(archiveSaveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create archive directory %s: %w", archiveSaveDir, err)
	}

	archiveUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("project_%d_%s.zip", time.Now().Unix(), archiveUUID.String()[:8])
	zipFilePath := filepath.Join(archiveSaveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create archive file %s: %w", zipFilePath, err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)

	addFile := func(fullPath, nameInZip string) error {
		src, err := os.Open(fullPath)
		if err != nil {
			return err
		}
		defer src.Close()

		writer, err := zipWriter.Create(nameInZip)
		if err != nil {
			return err
		}
		_, err = io.Copy(writer, src)
		return err
	}

	if err := addFile(filepath.Join(projectRoot, "project.db"), "project.db"); err != nil {
		zipWriter.Close()
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("failed to archive project database: %w", err)
	}

	mediaDir := filepath.Join(projectRoot, mediaSubDir)
	entries, err := os.ReadDir(mediaDir)
	if err != nil && !os.IsNotExist(err) {
		zipWriter.Close()
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("failed to read media directory %s: %w", mediaDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(mediaDir, entry.Name())
		if err := addFile(fullPath, filepath.ToSlash(filepath.Join(mediaSubDir, entry.Name()))); err != nil {
			log.Printf("zipper: failed to archive %s, skipping: %v", fullPath, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("failed to finalize archive %s: %w", zipFilePath, err)
	}

	info, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat archive %s: %w", zipFilePath, err)
	}

	return zipFilePath, info.Size(), nil
}
