package utils

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageMeta carries the catalog metadata recorded at media import time.
type ImageMeta struct {
	Width   *int
	Height  *int
	TakenAt *int64
}

// GetImageMeta reads pixel dimensions via the registered decoders and
// the capture timestamp from EXIF when present. Files without EXIF data
// still yield dimensions.
func GetImageMeta(filePath string) (ImageMeta, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return ImageMeta{}, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	var meta ImageMeta
	config, _, err := image.DecodeConfig(file)
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	} else {
		log.Printf("metadata: could not decode dimensions of %s: %v", filePath, err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return meta, fmt.Errorf("metadata: failed to seek file %s: %w", filePath, err)
	}

	exifData, err := exif.Decode(file)
	if err != nil {
		// not fatal, the file may simply lack EXIF data
		return meta, nil
	}

	if dt, err := exifData.DateTime(); err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}

	return meta, nil
}
