package database

import "time"

// Run represents one invocation of a tool
type Run struct {
	ID            int64
	Tool          string // 'bench-filter', 'compact'
	InputPath     string
	StartedAt     time.Time
	CompletedAt   *time.Time
	Status        string // 'running', 'completed', 'failed'
	Notes         string
	EntriesBefore int
	EntriesAfter  int
}

// RefSummary represents the compacted totals of one results ref
type RefSummary struct {
	ID            int64
	RunID         int64
	Ref           string // 'refs/tags/v0.17', 'refs/heads/main'
	CommitID      string
	Test262Commit string
	Total         int
	Outdated      int
	Ignored       int
	Partial       int
	BytesBefore   int64
	BytesAfter    int64
}

// Operation represents a timed git command issued during a run
type Operation struct {
	ID         int64
	RunID      int64
	Operation  string // 'pull', 'add', 'commit', 'rev-parse'
	StartedAt  time.Time
	DurationMs int64 // Millisecond precision
	Status     string // 'success', 'failed'
	Error      string
}
