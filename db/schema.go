package db

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	status      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT
);

CREATE TABLE IF NOT EXISTS transfers (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	cycle           INTEGER NOT NULL,
	reaction        INTEGER NOT NULL,
	source_tray     TEXT NOT NULL,
	source_position INTEGER NOT NULL,
	dest_tray       TEXT NOT NULL,
	dest_position   INTEGER NOT NULL,
	volume          REAL NOT NULL,
	syringe         INTEGER NOT NULL,
	started_at      TEXT NOT NULL,
	duration_ms     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transfers_run ON transfers(run_id, cycle, reaction);
`
