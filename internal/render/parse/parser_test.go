// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package parse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrame(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		frame int
		ok    bool
	}{
		{
			name:  "typical render status line",
			line:  "Fra:42 Mem:120.00M (Peak 140.00M) | Time:00:01.50 | Rendering 12 / 64 samples",
			frame: 42,
			ok:    true,
		},
		{
			name:  "marker with spaces",
			line:  "Fra: 7 | Compositing",
			frame: 7,
			ok:    true,
		},
		{
			name:  "marker mid-line",
			line:  "Saved: 'frame_0003.png' Fra:3",
			frame: 3,
			ok:    true,
		},
		{
			name: "no marker",
			line: "Blender 4.2.1 (hash abcdef built 2024-08-19)",
		},
		{
			name: "marker without number",
			line: "Fra: pending",
		},
		{
			name: "empty line",
			line: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, ok := Frame(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.frame, frame)
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		frame int
		total int
		want  int
	}{
		{frame: 0, total: 10, want: 0},
		{frame: 1, total: 10, want: 100},
		{frame: 5, total: 10, want: 500},
		{frame: 10, total: 10, want: 1000},
		{frame: 1, total: 3, want: 333},
		{frame: 2, total: 3, want: 667},
		{frame: 1, total: 1, want: 1000},
		// Absolute frame numbers can exceed the range size; clamp.
		{frame: 19, total: 10, want: 1000},
		{frame: -1, total: 10, want: 0},
		// total below 1 is coerced to 1 instead of dividing by zero.
		{frame: 0, total: 0, want: 0},
		{frame: 1, total: 0, want: 1000},
		{frame: 1, total: -5, want: 1000},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.frame, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.frame, tt.total))
		})
	}
}

func TestProgressRange(t *testing.T) {
	for total := 1; total <= 25; total++ {
		for frame := 0; frame <= total; frame++ {
			p := Progress(frame, total)
			if p < 0 || p > 1000 {
				t.Fatalf("Progress(%d, %d) = %d, out of [0, 1000]", frame, total, p)
			}
		}
		assert.Equal(t, 0, Progress(0, total))
		assert.Equal(t, 1000, Progress(total, total))
	}
}
