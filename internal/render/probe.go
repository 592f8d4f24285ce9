// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package render

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kevinzang/renderqueue/internal/logger"
)

// frameRangeMarker precedes the probed range on its own stdout line.
const frameRangeMarker = "FRAME_RANGE:"

// probeScript runs inside Blender's bundled Python and prints the
// scene's frame range in a machine-parsable form.
const probeScript = `import bpy
scene = bpy.context.scene
print("FRAME_RANGE:%d,%d" % (scene.frame_start, scene.frame_end))
`

// ProbeFrameRange runs the renderer non-interactively against blendFile
// to discover its frame range. It never fails: any spawn or parse
// problem degrades to the single-frame fallback (1, 1).
func ProbeFrameRange(binary, blendFile string, log logger.Logger) (start, end int) {
	tmp, err := os.CreateTemp("", "framerange-*.py")
	if err != nil {
		log.Error("probe %s: temp script: %v", blendFile, err)
		return 1, 1
	}
	tmpPath := tmp.Name()
	// Cleanup is best-effort.
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(probeScript); err != nil {
		tmp.Close()
		log.Error("probe %s: write script: %v", blendFile, err)
		return 1, 1
	}
	tmp.Close()

	cmd := exec.Command(binary, "-b", blendFile, "-P", tmpPath)
	// Scan whatever came out even when the renderer exited nonzero.
	out, _ := cmd.CombinedOutput()

	if s, e, ok := ParseFrameRange(string(out)); ok {
		log.Debug("probe %s: frame range %d-%d", blendFile, s, e)
		return s, e
	}

	log.Info("probe %s: no frame range detected, assuming a single frame", blendFile)
	return 1, 1
}

// ParseFrameRange scans captured probe output for the frame range
// marker and parses the two comma-separated integers after it. A
// malformed or non-monotonic range is treated as absent.
func ParseFrameRange(output string) (start, end int, ok bool) {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, frameRangeMarker)
		if idx < 0 {
			continue
		}

		part := strings.TrimSpace(line[idx+len(frameRangeMarker):])
		fields := strings.SplitN(part, ",", 2)
		if len(fields) != 2 {
			continue
		}

		s, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		e, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		if e < s {
			continue
		}
		return s, e, true
	}
	return 0, 0, false
}
