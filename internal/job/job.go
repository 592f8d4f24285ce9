// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具
//
// Package job owns the ordered render queue and drives jobs through
// their lifecycle one at a time.

package job

// Status of a job
type Status string

const (
	StatusQueued    Status = "queued"
	StatusProbing   Status = "probing"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

func (s Status) String() string { return string(s) }

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// Job is one queued render task. The queue hands out copies; the
// canonical instance is only ever mutated under the queue's lock.
type Job struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	Status     Status `json:"status"`
	FrameStart int    `json:"frame_start"`
	FrameEnd   int    `json:"frame_end"`
	// CurrentFrame is the last frame number seen in renderer output.
	CurrentFrame int `json:"current_frame"`
	// Progress is normalized to [0, 1000] (one-decimal percent).
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// TotalFrames is the inclusive size of the probed range, never below 1.
func (j *Job) TotalFrames() int {
	total := j.FrameEnd - j.FrameStart + 1
	if total < 1 {
		return 1
	}
	return total
}
