// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package render

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinzang/renderqueue/internal/logger"
)

func TestParseFrameRange(t *testing.T) {
	tests := []struct {
		name   string
		output string
		start  int
		end    int
		ok     bool
	}{
		{
			name:   "marker on its own line",
			output: "Blender quit\nFRAME_RANGE:10,19\n",
			start:  10,
			end:    19,
			ok:     true,
		},
		{
			name:   "marker with surrounding noise",
			output: "Read blend: scene.blend\nFRAME_RANGE:1,250\nSaved session\n",
			start:  1,
			end:    250,
			ok:     true,
		},
		{
			name:   "marker mid-line",
			output: "info FRAME_RANGE:3,3 trailing",
			start:  3,
			end:    3,
			ok:     true,
		},
		{
			name:   "no marker",
			output: "Blender quit\n",
		},
		{
			name:   "malformed integers",
			output: "FRAME_RANGE:a,b\n",
		},
		{
			name:   "missing second value",
			output: "FRAME_RANGE:10\n",
		},
		{
			name:   "non-monotonic range",
			output: "FRAME_RANGE:20,10\n",
		},
		{
			name:   "empty output",
			output: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseFrameRange(tt.output)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.start, start)
				assert.Equal(t, tt.end, end)
			}
		})
	}
}

// writeStubRenderer creates a shell script standing in for the real
// renderer binary.
func writeStubRenderer(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub renderer scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "blender-stub")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestProbeFrameRange(t *testing.T) {
	stub := writeStubRenderer(t, "#!/bin/sh\necho \"FRAME_RANGE:10,19\"\n")

	start, end := ProbeFrameRange(stub, "scene.blend", logger.Nop())
	assert.Equal(t, 10, start)
	assert.Equal(t, 19, end)
}

func TestProbeFrameRangeFallback(t *testing.T) {
	t.Run("no marker in output", func(t *testing.T) {
		stub := writeStubRenderer(t, "#!/bin/sh\necho \"Blender quit\"\n")
		start, end := ProbeFrameRange(stub, "scene.blend", logger.Nop())
		assert.Equal(t, 1, start)
		assert.Equal(t, 1, end)
	})

	t.Run("renderer exits nonzero but prints the marker", func(t *testing.T) {
		stub := writeStubRenderer(t, "#!/bin/sh\necho \"FRAME_RANGE:2,4\"\nexit 1\n")
		start, end := ProbeFrameRange(stub, "scene.blend", logger.Nop())
		assert.Equal(t, 2, start)
		assert.Equal(t, 4, end)
	})

	t.Run("renderer cannot be spawned", func(t *testing.T) {
		start, end := ProbeFrameRange(filepath.Join(t.TempDir(), "missing"), "scene.blend", logger.Nop())
		assert.Equal(t, 1, start)
		assert.Equal(t, 1, end)
	})
}
