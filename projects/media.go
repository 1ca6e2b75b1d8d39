package projects

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/utils"
)

// ImportMedia copies a source image into the project's media folder,
// resolving filename collisions with a numeric suffix, records it in
// the catalog, and returns the project-relative path of the copy.
func (s *Session) ImportMedia(srcPath string) (string, error) {
	if !utils.IsRasterImage(srcPath) {
		return "", fmt.Errorf("unsupported media type: %s", filepath.Base(srcPath))
	}

	s.importMu.Lock()
	dest := utils.UniqueDestPath(s.MediaDir(), filepath.Base(srcPath))
	err := utils.CopyFile(srcPath, dest)
	s.importMu.Unlock()
	if err != nil {
		return "", err
	}

	relPath := filepath.ToSlash(filepath.Join(MediaDirName, filepath.Base(dest)))

	meta, err := utils.GetImageMeta(dest)
	if err != nil {
		log.Printf("projects: failed to read metadata of %s: %v", dest, err)
	}

	if _, err := database.AddMedia(s.DB, relPath, meta.Width, meta.Height, meta.TakenAt); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to catalog imported media: %w", err)
	}
	return relPath, nil
}

// RenameMedia renames a media file on disk and updates the catalog row
// plus every layer that references it in one transaction. If the
// database update fails the file rename is rolled back best-effort.
func (s *Session) RenameMedia(oldRelPath, newName string) (string, error) {
	oldAbs := filepath.Join(s.Root, filepath.FromSlash(oldRelPath))
	newAbs := filepath.Join(filepath.Dir(oldAbs), newName)
	newRelPath := filepath.ToSlash(filepath.Join(filepath.Dir(oldRelPath), newName))

	if oldRelPath == newRelPath {
		return newRelPath, nil
	}
	if _, err := os.Stat(newAbs); err == nil {
		return "", fmt.Errorf("a file named %s already exists", newName)
	}

	if err := os.Rename(oldAbs, newAbs); err != nil {
		return "", fmt.Errorf("failed to rename media file: %w", err)
	}

	if err := database.RenameMedia(s.DB, oldRelPath, newRelPath); err != nil {
		if revertErr := os.Rename(newAbs, oldAbs); revertErr != nil {
			log.Printf("projects: failed to revert rename of %s: %v", newAbs, revertErr)
		}
		return "", err
	}

	s.Thumbs.Invalidate(oldRelPath)
	if err := database.DeletePreviewInfo(s.DB, oldRelPath); err != nil && err != sql.ErrNoRows {
		log.Printf("projects: failed to drop preview record for %s: %v", oldRelPath, err)
	}
	return newRelPath, nil
}

// DeleteMedia removes a media entry from the catalog. The file stays
// on disk; layers referencing it keep their path and render black
// until reassigned.
func (s *Session) DeleteMedia(relPath string) error {
	if err := database.DeleteMedia(s.DB, relPath); err != nil {
		return err
	}

	s.Thumbs.Invalidate(relPath)
	if err := database.DeletePreviewInfo(s.DB, relPath); err != nil && err != sql.ErrNoRows {
		log.Printf("projects: failed to drop preview record for %s: %v", relPath, err)
	}
	return nil
}
