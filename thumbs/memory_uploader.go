package thumbs

import (
	"image"
	"sync"
)

// MemoryUploader keeps decoded images in memory, standing in for a GPU
// uploader when the cache is consumed headlessly (preview serving,
// tests).
type MemoryUploader struct {
	mu     sync.Mutex
	next   Handle
	images map[Handle]image.Image
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{images: make(map[Handle]image.Image)}
}

func (m *MemoryUploader) Upload(img image.Image) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	m.images[m.next] = img
	return m.next, nil
}

func (m *MemoryUploader) Release(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, h)
}

// Image returns the decoded image behind a handle.
func (m *MemoryUploader) Image(h Handle) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[h]
	return img, ok
}
