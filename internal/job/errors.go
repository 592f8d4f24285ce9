// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package job

import "errors"

var (
	ErrNotFound      = errors.New("job not found")
	ErrNotQueued     = errors.New("job is not in queued state")
	ErrQueueRunning  = errors.New("queue is running")
	ErrQueueEmpty    = errors.New("no queued jobs")
	ErrInvalidPath   = errors.New("invalid input file path")
	ErrBadExecutable = errors.New("renderer executable does not exist")
	ErrBadOutputDir  = errors.New("output root is not an existing directory")
)
