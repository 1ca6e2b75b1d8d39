// Package thumbs caches decoded media images as uploaded texture
// handles for timeline thumbnails and playback preview.
package thumbs

import (
	"image"
	"log"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// Handle identifies one uploaded texture.
type Handle uint64

// Uploader is the texture collaborator. A GPU frontend wraps its
// texture objects behind this; headless use gets MemoryUploader.
type Uploader interface {
	Upload(img image.Image) (Handle, error)
	Release(h Handle)
}

// Entry is a cached, uploaded image with its pixel dimensions.
type Entry struct {
	Handle Handle
	Width  int
	Height int
}

// Cache maps project-relative media paths to uploaded textures. It is
// append-only for the lifetime of an open project: entries leave only
// through Invalidate (media deleted or renamed) and Clear (project
// closed). Decode failures are never cached, so a later-fixed file is
// retried on the next access.
type Cache struct {
	root     string
	uploader Uploader

	mu      sync.Mutex
	entries map[string]Entry
}

func NewCache(projectRoot string, uploader Uploader) *Cache {
	return &Cache{
		root:     projectRoot,
		uploader: uploader,
		entries:  make(map[string]Entry),
	}
}

// GetOrLoad returns the cached entry for a relative path, decoding and
// uploading the file on a miss. ok is false when the file is absent or
// undecodable; nothing is cached in that case.
func (c *Cache) GetOrLoad(relPath string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[relPath]; ok {
		return entry, true
	}

	img, err := imaging.Open(filepath.Join(c.root, relPath))
	if err != nil {
		log.Printf("thumbs: failed to decode %s: %v", relPath, err)
		return Entry{}, false
	}

	h, err := c.uploader.Upload(img)
	if err != nil {
		log.Printf("thumbs: failed to upload %s: %v", relPath, err)
		return Entry{}, false
	}

	bounds := img.Bounds()
	entry := Entry{Handle: h, Width: bounds.Dx(), Height: bounds.Dy()}
	c.entries[relPath] = entry
	return entry, true
}

// Invalidate releases and forgets the entry for a relative path, if
// any. Called when the underlying file is deleted or renamed.
func (c *Cache) Invalidate(relPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[relPath]; ok {
		c.uploader.Release(entry.Handle)
		delete(c.entries, relPath)
	}
}

// Clear releases every cached texture. Called when the owning project
// closes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for relPath, entry := range c.entries {
		c.uploader.Release(entry.Handle)
		delete(c.entries, relPath)
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
