package renderer

import (
	"math/rand"
	"runtime"
	"sync"
)

// rowTask asks a worker to add samples to a single image row. Each task
// carries its own random stream so rows render identically no matter which
// worker picks them up. When finalize is set the worker averages and
// gamma-encodes the row after sampling; progressive passes leave it unset
// and keep accumulating raw sums across passes.
type rowTask struct {
	row      int
	samples  int
	finalize bool
	random   *rand.Rand
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue  chan rowTask
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker consumes row tasks until the queue closes
type Worker struct {
	ID        int
	raytracer *Raytracer
	img       *Image
	taskQueue chan rowTask
}

// NewWorkerPool creates a worker pool rendering into img with the
// specified number of workers (0 or negative = CPU count). Rows are
// disjoint slices of the image, so workers write without locking.
func NewWorkerPool(rt *Raytracer, img *Image, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:  make(chan rowTask, img.Height),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			raytracer: rt,
			img:       img,
			taskQueue: wp.taskQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Submit queues one row for rendering
func (wp *WorkerPool) Submit(task rowTask) {
	wp.taskQueue <- task
}

// Stop closes the queue and waits for in-flight rows to finish
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.raytracer.renderRow(w.img, task)
	}
}
