// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package job

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kevinzang/renderqueue/internal/logger"
	"github.com/kevinzang/renderqueue/internal/process"
	"github.com/kevinzang/renderqueue/internal/render"

	"github.com/lithammer/shortuuid/v4"
)

// RunState of the queue as a whole
type RunState string

const (
	RunIdle       RunState = "idle"
	RunRunning    RunState = "running"
	RunCancelling RunState = "cancelling"
)

// Queue owns the ordered job list and the run/cancel state machine.
// All blocking work happens on a single worker goroutine spawned by
// Start; the controller only reads snapshots and sets the cancel flag.
type Queue struct {
	mu     sync.RWMutex
	jobs   []*Job
	run    RunState
	active int
	handle *process.Handle

	cancel atomic.Bool

	bus       *Bus
	validator render.Validator
	logger    logger.Logger
}

// New creates an idle queue. A nil validator accepts .blend files only.
func New(validator render.Validator, log logger.Logger) *Queue {
	if validator == nil {
		validator = render.DefaultValidator()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Queue{
		run:       RunIdle,
		active:    -1,
		bus:       NewBus(),
		validator: validator,
		logger:    log,
	}
}

// Subscribe registers an event consumer.
func (q *Queue) Subscribe() chan Event {
	return q.bus.Subscribe()
}

// Unsubscribe removes an event consumer.
func (q *Queue) Unsubscribe(ch chan Event) {
	q.bus.Unsubscribe(ch)
}

// Enqueue appends a new queued job. The queue list can only be mutated
// while idle.
func (q *Queue) Enqueue(path string) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.run != RunIdle {
		return Job{}, ErrQueueRunning
	}
	if !q.validator.IsValid(path) {
		return Job{}, ErrInvalidPath
	}

	j := &Job{
		ID:         shortuuid.New(),
		Path:       path,
		Status:     StatusQueued,
		FrameStart: 1,
		FrameEnd:   1,
		CreatedAt:  time.Now().Unix(),
	}
	q.jobs = append(q.jobs, j)

	q.logger.Info("job %s enqueued: %s", j.ID, j.Path)
	return *j, nil
}

// Remove deletes a job that is still queued.
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.run != RunIdle {
		return ErrQueueRunning
	}

	for i, j := range q.jobs {
		if j.ID != id {
			continue
		}
		if j.Status != StatusQueued {
			return ErrNotQueued
		}
		q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
		q.logger.Info("job %s removed", id)
		return nil
	}
	return ErrNotFound
}

// Jobs returns snapshot copies of every job, in queue order.
func (q *Queue) Jobs() []Job {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]Job, len(q.jobs))
	for i, j := range q.jobs {
		out[i] = *j
	}
	return out
}

// Get returns a snapshot copy of one job.
func (q *Queue) Get(id string) (Job, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	for _, j := range q.jobs {
		if j.ID == id {
			return *j, nil
		}
	}
	return Job{}, ErrNotFound
}

// State returns the current run state.
func (q *Queue) State() RunState {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.run
}

// Active returns the index of the job currently in flight, -1 when
// nothing is active.
func (q *Queue) Active() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.active
}

// Usage returns CPU and memory of the active render process, zero when
// nothing is rendering.
func (q *Queue) Usage() (cpu float64, memory uint64) {
	q.mu.RLock()
	h := q.handle
	q.mu.RUnlock()
	if h == nil {
		return 0, 0
	}
	return h.Usage()
}

// Start validates the executable and output root, then begins
// sequential processing of all queued jobs on a worker goroutine.
// Validation failures leave every job untouched.
func (q *Queue) Start(outputRoot, executable string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.run != RunIdle {
		return ErrQueueRunning
	}

	if fi, err := os.Stat(executable); err != nil || fi.IsDir() {
		return ErrBadExecutable
	}
	if fi, err := os.Stat(outputRoot); err != nil || !fi.IsDir() {
		return ErrBadOutputDir
	}

	pending := 0
	for _, j := range q.jobs {
		if j.Status == StatusQueued {
			pending++
		}
	}
	if pending == 0 {
		return ErrQueueEmpty
	}

	q.run = RunRunning
	q.cancel.Store(false)

	q.logger.Info("starting render run: %d job(s), output root %s", pending, outputRoot)
	go q.runAll(outputRoot, executable, pending)

	return nil
}

// Cancel requests termination of the in-flight job. Jobs not yet
// started stay queued. Idempotent, a no-op while idle.
func (q *Queue) Cancel() {
	q.mu.Lock()
	if q.run != RunRunning {
		q.mu.Unlock()
		return
	}
	q.cancel.Store(true)
	q.run = RunCancelling
	h := q.handle
	q.mu.Unlock()

	// Kick the live process so a blocked line read unwinds promptly.
	// The worker observes the flag as soon as the stream ends.
	if h != nil {
		go h.Cancel()
	}

	q.logger.Info("cancel requested")
}

func (q *Queue) setHandle(h *process.Handle) {
	q.mu.Lock()
	q.handle = h
	q.mu.Unlock()
}

// nextQueued picks the first queued job and marks it active.
func (q *Queue) nextQueued() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, j := range q.jobs {
		if j.Status == StatusQueued {
			q.active = i
			return j
		}
	}
	q.active = -1
	return nil
}
