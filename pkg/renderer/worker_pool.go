package renderer

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Row    int
	TaskID int // For deterministic ordering
}

// RowResult contains the result from rendering a row
type RowResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel row rendering into a shared image
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	img         *image.RGBA
	seed        int64
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool rendering into img with the specified
// number of workers. numWorkers <= 0 uses the CPU count.
func NewWorkerPool(raytracer *Raytracer, img *image.RGBA, seed int64, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	rows := img.Bounds().Dy()
	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, rows),   // Buffer for every row
		resultQueue: make(chan RowResult, rows), // Buffer for every result
		numWorkers:  numWorkers,
	}

	// The raytracer is read-only during a render, so workers share it
	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			img:         img,
			seed:        seed,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers. Tasks picked up after ctx is done fail with its error.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- RowResult{TaskID: task.TaskID, Error: err}
			continue
		}

		// Each row owns its sampler so output is independent of scheduling
		sampler := core.NewSeededSampler(RowSeed(w.seed, task.Row))
		stats := w.raytracer.renderRow(task.Row, w.img, sampler)
		w.raytracer.progress.Add(stats.TotalPixels)

		w.resultQueue <- RowResult{TaskID: task.TaskID, Stats: stats}
	}
}

// RowSeed derives the sampler seed of one row from the render seed
func RowSeed(seed int64, row int) int64 {
	// splitmix64 finalizer over the (seed, row) pair
	z := uint64(seed) + (uint64(row)+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// RenderParallel renders the image with numWorkers goroutines, one row per
// task. Every row samples from its own generator seeded by RowSeed, so the
// result depends only on seed and never on numWorkers or scheduling.
func (rt *Raytracer) RenderParallel(ctx context.Context, seed int64, numWorkers int) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	height := rt.camera.Height()
	img := image.NewRGBA(image.Rect(0, 0, rt.camera.Width(), height))

	pool := NewWorkerPool(rt, img, seed, numWorkers)
	pool.Start(ctx)

	for j := 0; j < height; j++ {
		pool.SubmitTask(RowTask{Row: j, TaskID: j})
	}

	var stats RenderStats
	var firstErr error
	for received := 0; received < height; received++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.add(result.Stats)
	}
	pool.Stop()
	rt.progress.Finish()

	if firstErr != nil {
		return nil, stats, fmt.Errorf("render cancelled: %w", firstErr)
	}

	stats.finish(start)
	rt.logger.Printf("Render complete (%d workers): %s\n", pool.GetNumWorkers(), stats)
	return img, stats, nil
}
