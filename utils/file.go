package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var supportedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// UniqueDestPath returns a path in destDir for the given filename that
// does not collide with an existing file, appending _1, _2, ... before
// the extension until unique.
func UniqueDestPath(destDir, filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	dest := filepath.Join(destDir, stem+ext)
	for n := 1; ; n++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
		dest = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// CopyFile copies src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// GeneratePreview creates a bounded JPEG preview with a UUID filename
// and returns the full path where it was saved.
func GeneratePreview(originalImagePath, previewDir string, maxSize int) (string, error) {
	if err := os.MkdirAll(previewDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preview directory %s: %w", previewDir, err)
	}

	img, err := imaging.Open(originalImagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalImagePath, err)
	}

	preview := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	previewUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for preview: %w", err)
	}
	previewSavePath := filepath.Join(previewDir, previewUUID.String()+".jpg")

	if err := imaging.Save(preview, previewSavePath, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("failed to save preview to %s: %w", previewSavePath, err)
	}

	return previewSavePath, nil
}
