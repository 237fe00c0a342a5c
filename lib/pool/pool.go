package pool

import (
	"fmt"
	"sync"

	"github.com/SherlockGy/linekv/lib/logging"
	"github.com/VictoriaMetrics/metrics"
)

// Job is a single unit of pending work. Exactly one worker executes a
// submitted job, to completion, before taking the next one.
type Job func()

var (
	jobsExecuted = metrics.NewCounter("linekv_pool_jobs_executed_total")
	jobsDropped  = metrics.NewCounter("linekv_pool_jobs_dropped_total")
	jobPanics    = metrics.NewCounter("linekv_pool_job_panics_total")
)

// queueFactor sizes the job queue relative to the worker count. Submitters
// block once the queue is full (backpressure), they are never rejected
// while the pool is open.
const queueFactor = 4

// Pool is a fixed-size set of long-lived workers consuming a shared job
// queue. The queue is the only resource shared between the submitter and
// the workers; closing the pool closes the queue, and Close returns only
// after every worker has finished its current job and terminated.
type Pool struct {
	jobs      chan Job
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates a pool with the given number of workers and starts them.
// A size below one is a usage error and panics: the caller has no sensible
// way to proceed with a pool that can never run a job.
func New(size int) *Pool {
	if size < 1 {
		panic(fmt.Sprintf("pool: size must be >= 1, got %d", size))
	}

	p := &Pool{
		jobs: make(chan Job, size*queueFactor),
	}

	for id := 0; id < size; id++ {
		p.wg.Add(1)
		go p.worker(id)
	}

	return p
}

// Submit enqueues a job for execution by whichever worker becomes available
// first. It blocks while the queue is full. After Close has begun the job
// is silently dropped and false is returned; it will never execute.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		jobsDropped.Inc()
		logging.L().Debugf("pool closed, job dropped")
		return false
	}

	p.jobs <- job
	return true
}

// Close closes the job queue and waits for every worker to finish its
// current job and exit. No job is abandoned mid-execution and no job
// submitted after Close begins is accepted. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})

	p.wg.Wait()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// worker consumes jobs until the queue is closed and drained.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobs {
		p.run(id, job)
	}

	logging.L().Debugf("worker %d exiting", id)
}

// run executes one job, containing any panic to this job so the worker
// survives and keeps taking work.
func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			jobPanics.Inc()
			logging.L().Errorf("worker %d: job panicked: %v", id, r)
		}
	}()

	job()
	jobsExecuted.Inc()
}
