// Package git drives the gh-pages checkout that holds the published results.
package git

import (
	"fmt"
	"strings"

	"github.com/boa-dev/ghpages-tools/pkg/database"
	"github.com/boa-dev/ghpages-tools/pkg/timing"
)

// Context holds the execution context for git operations
type Context struct {
	DB      *database.DB // nil disables operation history
	RunID   int64
	Debug   bool
	RepoDir string
}

// recordOperation records a git operation in the database
func (ctx *Context) recordOperation(opType string, result *timing.Result) error {
	if ctx.DB == nil {
		return nil
	}

	status := "success"
	errorMsg := ""
	if err := result.Err(); err != nil {
		status = "failed"
		errorMsg = err.Error()
	}

	op := &database.Operation{
		RunID:      ctx.RunID,
		Operation:  opType,
		StartedAt:  result.StartedAt,
		DurationMs: result.DurationMs,
		Status:     status,
		Error:      errorMsg,
	}

	return ctx.DB.CreateOperation(op)
}

// run executes one git subcommand inside RepoDir and records it
func (ctx *Context) run(opType string, args ...string) (*timing.Result, error) {
	if ctx.Debug {
		fmt.Printf("Running git %s in %s\n", strings.Join(args, " "), ctx.RepoDir)
	}

	result := timing.Run("git", append([]string{"-C", ctx.RepoDir}, args...), nil)
	if err := ctx.recordOperation(opType, result); err != nil && ctx.Debug {
		fmt.Printf("  Warning: failed to record operation: %v\n", err)
	}

	if err := result.Err(); err != nil {
		return result, fmt.Errorf("git %s failed: %w", opType, err)
	}

	if ctx.Debug {
		fmt.Printf("  ✓ git %s in %dms\n", opType, result.DurationMs)
	}
	return result, nil
}

// Pull fast-forwards the checkout to its upstream
func (ctx *Context) Pull() error {
	_, err := ctx.run("pull", "pull", "--ff-only")
	return err
}

// Add stages every change in the checkout
func (ctx *Context) Add() error {
	_, err := ctx.run("add", "add", "-A")
	return err
}

// HasChanges reports whether anything is staged
func (ctx *Context) HasChanges() (bool, error) {
	result, err := ctx.run("diff", "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	return result.Output() != "", nil
}

// Commit stages all changes and commits them. Nothing is committed when the
// tree is clean, and false is returned.
func (ctx *Context) Commit(message string) (bool, error) {
	if err := ctx.Add(); err != nil {
		return false, err
	}

	changed, err := ctx.HasChanges()
	if err != nil || !changed {
		return false, err
	}

	if _, err := ctx.run("commit", "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// HeadCommit returns the commit id of HEAD
func (ctx *Context) HeadCommit() (string, error) {
	result, err := ctx.run("rev-parse", "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return result.Output(), nil
}
