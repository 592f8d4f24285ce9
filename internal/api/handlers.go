// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kevinzang/renderqueue/internal/job"
	"github.com/kevinzang/renderqueue/internal/render"
)

// Handler holds dependencies
type Handler struct {
	queue      *job.Queue
	info       render.Info
	discovered bool

	// Defaults applied when a start request leaves fields empty.
	defaultOutputDir  string
	defaultExecutable string
}

// Config for the handler
type Config struct {
	Queue             *job.Queue
	Renderer          render.Info
	Discovered        bool
	DefaultOutputDir  string
	DefaultExecutable string
}

// NewHandler creates the API handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		queue:             cfg.Queue,
		info:              cfg.Renderer,
		discovered:        cfg.Discovered,
		defaultOutputDir:  cfg.DefaultOutputDir,
		defaultExecutable: cfg.DefaultExecutable,
	}
}

// Register mounts all routes under the given group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/renderer", h.GetRenderer)
	g.GET("/queue", h.ListJobs)
	g.POST("/queue", h.EnqueueJob)
	g.GET("/queue/:id", h.GetJob)
	g.DELETE("/queue/:id", h.RemoveJob)
	g.POST("/queue/start", h.StartQueue)
	g.POST("/queue/cancel", h.CancelQueue)
	g.GET("/events", h.Events)
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// GetRenderer GET /api/v1/renderer
func (h *Handler) GetRenderer(c *gin.Context) {
	c.JSON(http.StatusOK, RendererResponse{
		Binary:     h.info.Binary,
		Version:    h.info.Version,
		Build:      h.info.Build,
		Discovered: h.discovered,
	})
}

// EnqueueJob POST /api/v1/queue
func (h *Handler) EnqueueJob(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	j, err := h.queue.Enqueue(req.Path)
	if err != nil {
		if errors.Is(err, job.ErrQueueRunning) {
			errResp(c, http.StatusConflict, "Queue is running", err.Error())
			return
		}
		errResp(c, http.StatusBadRequest, "Invalid input file", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.jobToResponse(j, false))
}

// ListJobs GET /api/v1/queue
func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.queue.Jobs()
	out := QueueResponse{
		State:  string(h.queue.State()),
		Active: h.queue.Active(),
		Jobs:   make([]JobResponse, 0, len(jobs)),
	}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, h.jobToResponse(j, j.Status == job.StatusRendering))
	}
	c.JSON(http.StatusOK, out)
}

// GetJob GET /api/v1/queue/:id
func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.queue.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.jobToResponse(j, j.Status == job.StatusRendering))
}

// RemoveJob DELETE /api/v1/queue/:id
func (h *Handler) RemoveJob(c *gin.Context) {
	err := h.queue.Remove(c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, "OK")
	case errors.Is(err, job.ErrNotFound):
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
	case errors.Is(err, job.ErrQueueRunning):
		errResp(c, http.StatusConflict, "Queue is running", err.Error())
	default:
		errResp(c, http.StatusBadRequest, "Remove failed", err.Error())
	}
}

// StartQueue POST /api/v1/queue/start
func (h *Handler) StartQueue(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = h.defaultOutputDir
	}
	executable := req.Executable
	if executable == "" {
		executable = h.defaultExecutable
	}

	if err := h.queue.Start(outputDir, executable); err != nil {
		switch {
		case errors.Is(err, job.ErrQueueRunning):
			errResp(c, http.StatusConflict, "Queue is running", err.Error())
		case errors.Is(err, job.ErrQueueEmpty):
			errResp(c, http.StatusBadRequest, "No files in queue", err.Error())
		default:
			errResp(c, http.StatusBadRequest, "Validation failed", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, "OK")
}

// CancelQueue POST /api/v1/queue/cancel
func (h *Handler) CancelQueue(c *gin.Context) {
	h.queue.Cancel()
	c.JSON(http.StatusOK, "OK")
}

// Events GET /api/v1/events streams queue events as SSE.
func (h *Handler) Events(c *gin.Context) {
	ch := h.queue.Subscribe()
	defer h.queue.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) jobToResponse(j job.Job, withUsage bool) JobResponse {
	out := JobResponse{
		ID:           j.ID,
		Path:         j.Path,
		Status:       string(j.Status),
		FrameStart:   j.FrameStart,
		FrameEnd:     j.FrameEnd,
		CurrentFrame: j.CurrentFrame,
		Progress:     j.Progress,
		Error:        j.Error,
		CreatedAt:    j.CreatedAt,
	}
	if withUsage {
		out.CPU, out.Memory = h.queue.Usage()
	}
	return out
}
