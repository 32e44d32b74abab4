package database

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tool TEXT NOT NULL,
    input_path TEXT NOT NULL,
    started_at TEXT NOT NULL,
    completed_at TEXT,
    status TEXT NOT NULL,
    notes TEXT,
    entries_before INTEGER DEFAULT 0,
    entries_after INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ref_summaries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    ref TEXT NOT NULL,
    commit_id TEXT NOT NULL,
    test262_commit TEXT NOT NULL,
    total INTEGER NOT NULL,
    outdated INTEGER NOT NULL,
    ignored INTEGER NOT NULL,
    partial INTEGER NOT NULL,
    bytes_before INTEGER NOT NULL,
    bytes_after INTEGER NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS operations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    operation TEXT NOT NULL,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_ref_summaries_run ON ref_summaries(run_id);
CREATE INDEX IF NOT EXISTS idx_ref_summaries_ref ON ref_summaries(ref);
CREATE INDEX IF NOT EXISTS idx_operations_run ON operations(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_tool ON runs(tool);
`
