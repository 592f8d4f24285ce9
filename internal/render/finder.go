// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package render

import "os"

// conventional Blender install locations, checked in order
var knownLocations = []string{
	`C:\Program Files\Blender Foundation\Blender\blender.exe`,
	"/Applications/Blender.app/Contents/MacOS/Blender",
	"/usr/bin/blender",
	"/usr/local/bin/blender",
}

// FindExecutable looks for the renderer in the conventional install
// locations and returns the first hit.
func FindExecutable() (string, bool) {
	for _, path := range knownLocations {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
