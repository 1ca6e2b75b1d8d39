package workers

import (
	"database/sql"
	"log"
	"os"
	"sync"
	"time"

	"github.com/camden-git/storyboardbackend/database"
	"github.com/camden-git/storyboardbackend/realtime"
	"github.com/camden-git/storyboardbackend/utils"
)

// PreviewJob asks for a bounded JPEG preview of one imported media
// file. The job carries the project database so one generator serves
// whichever project is currently open.
type PreviewJob struct {
	MediaAbsPath string
	MediaRelPath string
	ModTimeUnix  int64
	PreviewDir   string
	DB           *sql.DB
}

type PreviewGenerator struct {
	JobQueue chan PreviewJob
	MaxSize  int
	Hub      *realtime.Hub // optional, may be nil
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewPreviewGenerator(maxSize, queueSize, numWorkers int, hub *realtime.Hub) *PreviewGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	gen := &PreviewGenerator{
		JobQueue: make(chan PreviewJob, queueSize),
		MaxSize:  maxSize,
		Hub:      hub,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d preview worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (pg *PreviewGenerator) worker(id int) {
	defer pg.Wg.Done()
	for {
		select {
		case job, ok := <-pg.JobQueue:
			if !ok {
				log.Printf("preview worker %d stopping: job queue closed", id)
				return
			}
			pg.processJob(job)
			pg.Mutex.Lock()
			delete(pg.Pending, job.MediaRelPath)
			pg.Mutex.Unlock()

		case <-pg.StopChan:
			log.Printf("preview worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (pg *PreviewGenerator) processJob(job PreviewJob) {
	if _, err := os.Stat(job.MediaAbsPath); os.IsNotExist(err) {
		log.Printf("media file %s not found, skipping preview generation", job.MediaAbsPath)
		return
	} else if err != nil {
		log.Printf("error stating media file %s before preview generation: %v", job.MediaAbsPath, err)
	}

	previewSavePath, err := utils.GeneratePreview(job.MediaAbsPath, job.PreviewDir, pg.MaxSize)
	if err != nil {
		log.Printf("ERROR generating preview for %s: %v", job.MediaRelPath, err)
		return
	}

	if err := database.SetPreviewInfo(job.DB, job.MediaRelPath, previewSavePath, job.ModTimeUnix); err != nil {
		log.Printf("ERROR updating preview DB record for %s: %v", job.MediaRelPath, err)
		return
	}

	log.Printf("generated preview and updated DB for: %s", job.MediaRelPath)

	if pg.Hub != nil {
		pg.Hub.Broadcast(realtime.Event{
			Type:      realtime.EventPreviewReady,
			Path:      job.MediaRelPath,
			Timestamp: time.Now().Unix(),
		})
	}
}

func (pg *PreviewGenerator) QueueJob(job PreviewJob) bool {
	pg.Mutex.Lock()
	if pg.Pending[job.MediaRelPath] {
		pg.Mutex.Unlock()
		return false
	}

	pg.Pending[job.MediaRelPath] = true
	pg.Mutex.Unlock()

	select {
	case pg.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: preview job queue full, failed to queue job for: %s", job.MediaRelPath)
		pg.Mutex.Lock()
		delete(pg.Pending, job.MediaRelPath)
		pg.Mutex.Unlock()
		return false
	}
}

func (pg *PreviewGenerator) Stop() {
	log.Println("stopping preview generator...")
	close(pg.StopChan)
	pg.Wg.Wait()
	log.Println("all preview workers stopped")
}
