// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具
//
// Package parse extracts render progress from the free-form text the
// renderer writes while it works. Lines without a recognized frame
// marker are noise and ignored; frame numbers may repeat or arrive out
// of order, callers treat each sample as last-write-wins.

package parse

import (
	"math"
	"regexp"
	"strconv"
)

// frameRe matches the "Fra:<N>" marker Blender prints at the start of
// every per-frame status line, with arbitrary trailing text.
var frameRe = regexp.MustCompile(`Fra:\s*([0-9]+)`)

// Frame scans one output line for the frame marker and returns the
// current frame number. ok is false on noise lines.
func Frame(line string) (frame int, ok bool) {
	m := frameRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Progress normalizes a frame position to [0, 1000], one-decimal
// percent precision. totalFrames below 1 is treated as 1 so the
// division can never blow up.
func Progress(frame, totalFrames int) int {
	if totalFrames < 1 {
		totalFrames = 1
	}
	p := int(math.Round(float64(frame) / float64(totalFrames) * 1000))
	if p < 0 {
		return 0
	}
	if p > 1000 {
		return 1000
	}
	return p
}
