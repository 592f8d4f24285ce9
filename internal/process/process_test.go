// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具

package process

import (
	"io"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests use a POSIX shell")
	}
	return "/bin/sh"
}

func readAll(t *testing.T, h *Handle) []string {
	t.Helper()
	var lines []string
	for {
		line, err := h.ReadLine()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return lines
		}
		lines = append(lines, line)
	}
}

func TestStartStreamsMergedOutput(t *testing.T) {
	sh := requireShell(t)

	h, err := Start(sh, []string{"-c", "echo out1; echo err1 1>&2; echo out2"}, nil)
	require.NoError(t, err)

	lines := readAll(t, h)
	assert.ElementsMatch(t, []string{"out1", "err1", "out2"}, lines)
	assert.Equal(t, 0, h.Wait())
}

func TestStartSplitsCarriageReturns(t *testing.T) {
	sh := requireShell(t)

	h, err := Start(sh, []string{"-c", `printf 'Fra:1\rFra:2\rFra:3\n'`}, nil)
	require.NoError(t, err)

	lines := readAll(t, h)
	assert.Equal(t, []string{"Fra:1", "Fra:2", "Fra:3"}, lines)
	h.Wait()
}

func TestWaitReportsExitCode(t *testing.T) {
	sh := requireShell(t)

	h, err := Start(sh, []string{"-c", "exit 7"}, nil)
	require.NoError(t, err)

	readAll(t, h)
	assert.Equal(t, 7, h.Wait())
}

func TestStartFailure(t *testing.T) {
	_, err := Start(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.Error(t, err)
}

func TestCancelTerminatesGroupWithinEscalationWindow(t *testing.T) {
	sh := requireShell(t)

	h, err := Start(sh, []string{"-c", "echo started; sleep 60"}, nil)
	require.NoError(t, err)

	line, err := h.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "started", line)

	begin := time.Now()
	h.Cancel()
	exit := h.Wait()

	assert.Less(t, time.Since(begin), killTimeout+2*time.Second)
	// Killed by signal, never a clean exit.
	assert.NotEqual(t, 0, exit)

	// Stream is drained or unblocked after the kill.
	_, err = h.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCancelAfterExitIsHarmless(t *testing.T) {
	sh := requireShell(t)

	h, err := Start(sh, []string{"-c", "true"}, nil)
	require.NoError(t, err)

	readAll(t, h)
	assert.Equal(t, 0, h.Wait())
	h.Cancel()
}

func TestScanLine(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		atEOF bool
		token string
	}{
		{name: "newline terminated", data: "abc\ndef", token: "abc"},
		{name: "carriage return terminated", data: "abc\rdef", token: "abc"},
		{name: "leading separators skipped", data: "\r\nabc\n", token: "abc"},
		{name: "partial line at eof", data: "abc", atEOF: true, token: "abc"},
		{name: "partial line waits for more", data: "abc", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := scanLine([]byte(tt.data), tt.atEOF)
			require.NoError(t, err)
			assert.Equal(t, tt.token, string(token))
		})
	}
}
