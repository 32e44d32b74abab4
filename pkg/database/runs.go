package database

import "time"

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StartRun creates a running record for tool
func (db *DB) StartRun(tool, inputPath string) (*Run, error) {
	run := &Run{
		Tool:      tool,
		InputPath: inputPath,
		StartedAt: time.Now(),
		Status:    StatusRunning,
	}
	if err := db.CreateRun(run); err != nil {
		return nil, err
	}
	return run, nil
}

// FinishRun marks run completed, or failed with runErr as its notes
func (db *DB) FinishRun(run *Run, runErr error) error {
	now := time.Now()
	run.CompletedAt = &now
	run.Status = StatusCompleted
	if runErr != nil {
		run.Status = StatusFailed
		run.Notes = runErr.Error()
	}
	return db.UpdateRun(run)
}
