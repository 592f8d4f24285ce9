// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package job

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kevinzang/renderqueue/internal/process"
	"github.com/kevinzang/renderqueue/internal/render"
	"github.com/kevinzang/renderqueue/internal/render/parse"
)

// runAll is the single worker goroutine for one render run. It drives
// every queued job in order and publishes overall progress and ETA at
// job boundaries only.
func (q *Queue) runAll(outputRoot, executable string, total int) {
	start := time.Now()
	completed := 0
	cancelled := false

	for {
		if q.cancel.Load() {
			cancelled = true
			break
		}

		j := q.nextQueued()
		if j == nil {
			break
		}

		if q.runJob(j, outputRoot, executable) {
			cancelled = true
			break
		}

		completed++
		overall := parse.Progress(completed, total)
		q.bus.Publish(Event{Type: EventOverallProgress, Overall: overall})

		elapsed := time.Since(start)
		avgPerJob := elapsed / time.Duration(completed)
		remaining := avgPerJob * time.Duration(total-completed)
		q.bus.Publish(Event{
			Type: EventStatus,
			Text: fmt.Sprintf("Completed %d/%d. Estimated time left: %ds",
				completed, total, int(remaining.Seconds())),
		})
	}

	if cancelled {
		q.bus.Publish(Event{Type: EventStatus, Text: "Rendering stopped."})
		q.logger.Info("render run stopped after %d/%d job(s)", completed, total)
	} else {
		q.bus.Publish(Event{Type: EventStatus, Text: "Rendering complete."})
		q.logger.Info("render run complete: %d job(s) in %s", completed, time.Since(start).Round(time.Second))
	}

	q.mu.Lock()
	q.run = RunIdle
	q.active = -1
	q.mu.Unlock()
}

// runJob drives one job end to end. It reports whether the run was
// cancelled while this job was in flight; failures are contained to
// the job so the queue keeps moving.
func (q *Queue) runJob(j *Job, outputRoot, executable string) (cancelled bool) {
	q.setStatus(j, StatusProbing)
	q.bus.Publish(Event{Type: EventStatus, JobID: j.ID, Text: "Probing: " + j.Path})

	frameStart, frameEnd := render.ProbeFrameRange(executable, j.Path, q.logger)

	q.mu.Lock()
	j.FrameStart = frameStart
	j.FrameEnd = frameEnd
	total := j.TotalFrames()
	q.mu.Unlock()

	if q.cancel.Load() {
		q.finish(j, StatusCancelled, "")
		return true
	}

	outDir := filepath.Join(outputRoot, render.OutputDirName(j.Path))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		q.fail(j, fmt.Sprintf("create output directory: %v", err))
		return false
	}

	q.mu.Lock()
	j.Status = StatusRendering
	j.CurrentFrame = 0
	j.Progress = 0
	q.mu.Unlock()

	q.bus.Publish(Event{Type: EventJobProgress, JobID: j.ID, Progress: 0})
	q.bus.Publish(Event{Type: EventStatus, JobID: j.ID, Text: "Rendering: " + j.Path})

	h, err := process.Start(executable, render.RenderArgs(j.Path, outDir), q.logger)
	if err != nil {
		q.fail(j, fmt.Sprintf("start renderer: %v", err))
		return false
	}

	q.setHandle(h)
	defer q.setHandle(nil)

	// Cancel may have raced the spawn; at that point it only saw the
	// flag, so the group signal has to come from here.
	if q.cancel.Load() {
		h.Cancel()
	}

	for {
		line, rerr := h.ReadLine()
		if rerr != nil {
			break
		}

		if frame, ok := parse.Frame(line); ok {
			q.mu.Lock()
			j.CurrentFrame = frame
			j.Progress = parse.Progress(frame, total)
			p := j.Progress
			q.mu.Unlock()
			q.bus.Publish(Event{Type: EventJobProgress, JobID: j.ID, Progress: p})
		}

		if q.cancel.Load() {
			h.Cancel()
			break
		}
	}

	exit := h.Wait()

	if q.cancel.Load() {
		q.finish(j, StatusCancelled, "")
		return true
	}

	if exit != 0 {
		q.fail(j, fmt.Sprintf("renderer exited with code %d", exit))
		return false
	}

	q.mu.Lock()
	j.CurrentFrame = j.FrameEnd
	j.Progress = 1000
	q.mu.Unlock()
	q.bus.Publish(Event{Type: EventJobProgress, JobID: j.ID, Progress: 1000})

	q.finish(j, StatusCompleted, "")
	return false
}

func (q *Queue) setStatus(j *Job, s Status) {
	q.mu.Lock()
	j.Status = s
	q.mu.Unlock()
}

func (q *Queue) finish(j *Job, s Status, detail string) {
	q.mu.Lock()
	j.Status = s
	j.Error = detail
	q.mu.Unlock()
	q.bus.Publish(Event{Type: EventStatus, JobID: j.ID, Text: string(s) + ": " + j.Path})
	q.logger.Info("job %s %s", j.ID, s)
}

func (q *Queue) fail(j *Job, detail string) {
	q.mu.Lock()
	j.Status = StatusFailed
	j.Error = detail
	q.mu.Unlock()
	q.bus.Publish(Event{Type: EventStatus, JobID: j.ID, Text: "failed: " + j.Path + " (" + detail + ")"})
	q.logger.Error("job %s failed: %s", j.ID, detail)
}
