// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具
//
// Package render wraps the Blender binary: frame-range probing, render
// command construction, version detection and input path validation.

package render

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Info describes the detected renderer binary
type Info struct {
	Binary  string `json:"binary"`
	Version string `json:"version"`
	Build   string `json:"build,omitempty"`
}

// Detect resolves the binary on the lookup path and reads its version
// banner. It fails only when the binary cannot be resolved at all.
func Detect(binary string) (Info, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Info{}, fmt.Errorf("invalid renderer binary: %w", err)
	}

	info := Info{Binary: path}

	cmd := exec.Command(path, "-v")
	out, err := cmd.CombinedOutput()
	if err != nil {
		// Version banner is informational only.
		return info, nil
	}

	version, build := parseVersionBanner(out)
	info.Version = version
	info.Build = build
	return info, nil
}

// parseVersionBanner extracts the version line and build date from
// "blender -v" output, e.g. "Blender 4.2.1" / "build date: ...".
func parseVersionBanner(out []byte) (version, build string) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if version == "" && strings.HasPrefix(line, "Blender ") {
			version = strings.TrimPrefix(line, "Blender ")
			continue
		}
		if build == "" && strings.HasPrefix(line, "build date:") {
			build = strings.TrimSpace(strings.TrimPrefix(line, "build date:"))
		}
	}
	return version, build
}

// RenderArgs builds the argument vector for a full render run of one
// blend file: all frames, PNG frames named frame_<N>.png under outDir.
func RenderArgs(blendFile, outDir string) []string {
	return []string{
		"-b", blendFile,
		"-o", filepath.Join(outDir, "frame_"),
		"-F", "PNG",
		"-x", "1",
		"-a",
	}
}

// OutputDirName derives the per-job output subdirectory from the input
// file's base name without its extension.
func OutputDirName(blendFile string) string {
	base := filepath.Base(blendFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
