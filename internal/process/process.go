// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// RenderQueue - Blender 渲染队列管理工具
//
// Package process wraps exec.Cmd for controlling an external render process.
// The child runs detached in its own process group so that Cancel can take
// down the whole subtree without touching the controller.

package process

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
	"unicode/utf8"
)

// killTimeout bounds the graceful-then-forceful escalation in Cancel.
const killTimeout = 2 * time.Second

// Logger interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Handle represents one live external process with stdout and stderr
// merged into a single line-oriented stream.
type Handle struct {
	cmd     *exec.Cmd
	pid     int
	out     *os.File
	scanner *bufio.Scanner
	monitor Monitor
	logger  Logger

	done chan struct{}
	exit int

	cancelOnce sync.Once
}

// Start launches binary with args, detached into its own process group,
// stdin unused and stdout+stderr merged into one readable stream.
func Start(binary string, args []string, log Logger) (*Handle, error) {
	if log == nil {
		log = &nopLogger{}
	}

	cmd := exec.Command(binary, args...)
	setProcGroup(cmd)

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, err
	}

	// The child holds its own copy of the write end.
	pw.Close()

	h := &Handle{
		cmd:     cmd,
		pid:     cmd.Process.Pid,
		out:     pr,
		monitor: NewMonitor(),
		logger:  log,
		done:    make(chan struct{}),
	}

	h.scanner = bufio.NewScanner(pr)
	h.scanner.Buffer(make([]byte, 4096), 512*1024)
	h.scanner.Split(scanLine)

	if err := h.monitor.Start(h.pid); err != nil {
		log.Debug("process %d: resource monitor unavailable: %v", h.pid, err)
	}

	go h.waiter()

	return h, nil
}

// Pid returns the process identifier of the child.
func (h *Handle) Pid() int {
	return h.pid
}

// ReadLine blocks until the next output line is available. It returns
// io.EOF once the process has exited and the stream is drained.
func (h *Handle) ReadLine() (string, error) {
	if h.scanner.Scan() {
		return h.scanner.Text(), nil
	}
	if err := h.scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		return "", err
	}
	// The waiter closes the read end on exit, which also unblocks a
	// reader stuck on output from orphaned grandchildren.
	return "", io.EOF
}

// Wait blocks until the process has exited and returns its exit code.
// -1 means the process was killed by a signal.
func (h *Handle) Wait() int {
	<-h.done
	return h.exit
}

// Cancel requests termination of the whole process group: signal the
// group, wait up to killTimeout for exit, then force-kill the group.
// A failed forced kill is logged but never propagated; the handle is
// released either way.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() {
		select {
		case <-h.done:
			return
		default:
		}

		if err := terminateGroup(h.pid); err != nil {
			h.logger.Debug("process %d: terminate group: %v", h.pid, err)
		}

		select {
		case <-h.done:
			return
		case <-time.After(killTimeout):
		}

		if err := killGroup(h.pid); err != nil {
			h.logger.Error("process %d: force kill failed: %v", h.pid, err)
		}
	})
}

// Usage returns the current CPU percentage and resident memory of the
// render process, zero after exit.
func (h *Handle) Usage() (cpu float64, memory uint64) {
	return h.monitor.Current()
}

func (h *Handle) waiter() {
	err := h.cmd.Wait()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			h.logger.Error("process %d: wait: %v", h.pid, err)
		}
	}
	h.exit = -1
	if h.cmd.ProcessState != nil {
		h.exit = h.cmd.ProcessState.ExitCode()
	}
	h.monitor.Stop()
	h.out.Close()
	close(h.done)
}

// scanLine splits on both \n and \r so that carriage-return style
// progress updates surface as individual lines.
func scanLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += w
	}

	for i := start; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + w, data[start:i], nil
		}
		i += w
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, args ...interface{})  {}
func (l *nopLogger) Error(format string, args ...interface{}) {}
func (l *nopLogger) Debug(format string, args ...interface{}) {}
