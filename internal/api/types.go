// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package api

// EnqueueRequest for POST /queue
type EnqueueRequest struct {
	Path string `json:"path" binding:"required"`
}

// StartRequest for POST /queue/start. Empty fields fall back to the
// server configuration.
type StartRequest struct {
	OutputDir  string `json:"output_dir"`
	Executable string `json:"executable"`
}

// JobResponse is one job in API form
type JobResponse struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	Status       string `json:"status"`
	FrameStart   int    `json:"frame_start"`
	FrameEnd     int    `json:"frame_end"`
	CurrentFrame int    `json:"current_frame"`
	Progress     int    `json:"progress"`
	Error        string `json:"error,omitempty"`
	CreatedAt    int64  `json:"created_at"`

	// Resource usage of the live render process, active job only.
	CPU    float64 `json:"cpu_usage,omitempty"`
	Memory uint64  `json:"memory_bytes,omitempty"`
}

// QueueResponse for GET /queue
type QueueResponse struct {
	State string `json:"state"`
	// Active is the index of the in-flight job, -1 while idle.
	Active int           `json:"active"`
	Jobs   []JobResponse `json:"jobs"`
}

// RendererResponse for GET /renderer
type RendererResponse struct {
	Binary     string `json:"binary,omitempty"`
	Version    string `json:"version,omitempty"`
	Build      string `json:"build,omitempty"`
	Discovered bool   `json:"discovered"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
