// Package media wraps the external ffmpeg/ffprobe binaries behind a small
// execution contract: argument vectors, mandatory wall-clock timeouts, and
// captured diagnostic text. Nothing in this package decodes frames itself.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

const (
	// Diagnostic scraping (scene cuts, silence markers) reads stderr, so the
	// capture limit is generous compared to a plain error tail.
	maxStderrBytes = 256 * 1024
	maxStdoutBytes = 1024 * 1024
)

// ErrTimeout reports that a tool was killed after exceeding its deadline.
var ErrTimeout = errors.New("media tool timed out")

// RunResult carries the captured output of one tool invocation. Stderr is kept
// even on failure so callers can distinguish "ran but found nothing" from
// "could not run".
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Tool executes an external media binary. Arguments are always passed as an
// explicit vector; filter-graph strings contain characters that must never go
// through a shell.
type Tool interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (RunResult, error)
}

// CommandTool is the production Tool backed by os/exec.
type CommandTool struct {
	logger *slog.Logger
}

func NewCommandTool(logger *slog.Logger) *CommandTool {
	return &CommandTool{logger: logger}
}

func (t *CommandTool) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (RunResult, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.Writer(&limitedWriter{w: &stdoutBuf, limit: maxStdoutBytes})
	cmd.Stderr = io.Writer(&limitedWriter{w: &stderrBuf, limit: maxStderrBytes})

	t.logger.Debug("executing media tool", "tool", name, "args", args, "timeout", timeout)

	err := cmd.Run()
	elapsed := time.Since(start)

	result := RunResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: elapsed,
	}

	if ctx.Err() == context.DeadlineExceeded {
		t.logger.Warn("media tool timed out",
			"tool", name,
			"timeout", timeout,
			"duration_ms", elapsed.Milliseconds(),
		)
		return result, fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			t.logger.Warn("media tool exited non-zero",
				"tool", name,
				"exit_code", result.ExitCode,
				"stderr_tail", truncate(result.Stderr, 512),
			)
			return result, fmt.Errorf("%s exited %d: %s", name, result.ExitCode, truncate(result.Stderr, 512))
		}
		result.ExitCode = -1
		return result, fmt.Errorf("cannot run %s: %w", name, err)
	}

	t.logger.Debug("media tool succeeded", "tool", name, "duration_ms", elapsed.Milliseconds())
	return result, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter is an io.Writer that keeps only the last `limit` bytes.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		// Keep only the tail
		b := lw.w.Bytes()
		lw.w.Reset()
		lw.w.Write(b[len(b)-lw.limit:])
	}
	return n, nil
}
