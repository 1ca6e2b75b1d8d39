package render

import (
	"context"
	"math"
	"sync/atomic"
)

// Job is the handle for one background export. The export goroutine is
// the only progress writer; the interactive side polls Progress once
// per refresh. There is no cancellation: a started export runs to
// success or failure.
type Job struct {
	OutputPath string

	progress atomic.Uint64 // float64 bits
	done     chan struct{}
	err      error
}

// StartExport launches the export on its own goroutine and returns
// immediately.
func StartExport(ex *Exporter, outputPath string) *Job {
	j := &Job{
		OutputPath: outputPath,
		done:       make(chan struct{}),
	}
	go func() {
		j.err = ex.Export(context.Background(), outputPath, j.setProgress)
		j.setProgress(1.0)
		close(j.done)
	}()
	return j
}

func (j *Job) setProgress(p float64) {
	j.progress.Store(math.Float64bits(p))
}

// Progress is the last reported export fraction in [0,1].
func (j *Job) Progress() float64 {
	return math.Float64frombits(j.progress.Load())
}

// Done is closed when the export finishes, successfully or not.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Running reports whether the export is still in flight.
func (j *Job) Running() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

// Err is the terminal result; it must only be read after Done is
// closed.
func (j *Job) Err() error {
	return j.err
}
