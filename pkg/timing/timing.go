// Package timing runs external commands and measures how long they take.
package timing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result contains the results of a timed command execution
type Result struct {
	Command    string
	Args       []string
	StartedAt  time.Time
	DurationMs int64
	Stdout     string
	Stderr     string
	ExitCode   int
	Error      error
}

// Options configures command execution
type Options struct {
	Dir     string        // Working directory
	Timeout time.Duration // Command timeout (0 for no timeout)
}

// Run executes a command and measures its execution time with millisecond precision
func Run(command string, args []string, opts *Options) *Result {
	if opts == nil {
		opts = &Options{}
	}

	result := &Result{
		Command: command,
		Args:    args,
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result.StartedAt = time.Now()
	err := cmd.Run()
	result.DurationMs = time.Since(result.StartedAt).Milliseconds()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}

	return result
}

// Success returns true if the command executed successfully
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Output returns stdout without surrounding whitespace
func (r *Result) Output() string {
	return strings.TrimSpace(r.Stdout)
}

// Err describes a failed command, or returns nil on success
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" && r.Error != nil {
		msg = r.Error.Error()
	}
	return fmt.Errorf("%s %s failed (exit %d): %s", r.Command, strings.Join(r.Args, " "), r.ExitCode, msg)
}

// String returns a human-readable summary of the result
func (r *Result) String() string {
	status := "success"
	if !r.Success() {
		status = fmt.Sprintf("failed (exit code %d)", r.ExitCode)
	}

	return fmt.Sprintf("%s %v: %s (%.3fs)",
		r.Command,
		r.Args,
		status,
		float64(r.DurationMs)/1000.0,
	)
}
