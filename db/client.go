// Package db keeps a journal of experiment runs and the transfers made during
// them in a SQLite file.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"palbot/palbot"
)

var _ palbot.Journal = (*Client)(nil)

var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded experiment.
type Run struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Transfer is one recorded sample transfer.
type Transfer struct {
	ID        int64          `json:"id"`
	RunID     string         `json:"run_id"`
	Cycle     int            `json:"cycle"`
	Reaction  int            `json:"reaction"`
	Source    palbot.Target  `json:"source"`
	Dest      palbot.Target  `json:"dest"`
	Volume    float64        `json:"volume"`
	Syringe   palbot.Syringe `json:"syringe"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

type Client struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Client, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// one writer; the sequencer is single-threaded anyway
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000", schema} {
		if _, err := sqlDB.Exec(stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("init journal: %w", err)
		}
	}
	return &Client{db: sqlDB, now: time.Now}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) StartRun(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, status, started_at) VALUES (?, ?, ?, ?)`,
		id, name, palbot.RunRunning, c.now().UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

func (c *Client) RecordTransfer(ctx context.Context, rec palbot.TransferRecord) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO transfers (run_id, cycle, reaction, source_tray, source_position,
			dest_tray, dest_position, volume, syringe, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Cycle, rec.Reaction, rec.From.Tray, rec.From.Position,
		rec.To.Tray, rec.To.Position, rec.Volume, int(rec.Syringe),
		rec.StartedAt.UTC().Format(timeLayout), rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (c *Client) FinishRun(ctx context.Context, runID, status string) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, c.now().UTC().Format(timeLayout), runID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func ConvertRun(row scanner) (*Run, error) {
	var (
		r        Run
		started  string
		finished sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Status, &started, &finished); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, started)
	if err != nil {
		return nil, fmt.Errorf("run %s: started_at: %w", r.ID, err)
	}
	r.StartedAt = t
	if finished.Valid {
		f, err := time.Parse(time.RFC3339, finished.String)
		if err != nil {
			return nil, fmt.Errorf("run %s: finished_at: %w", r.ID, err)
		}
		r.FinishedAt = &f
	}
	return &r, nil
}

const runColumns = `id, name, status, started_at, finished_at`

// Runs lists every run, newest first.
func (c *Client) Runs(ctx context.Context) ([]*Run, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Run{}
	for rows.Next() {
		r, err := ConvertRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (c *Client) Run(ctx context.Context, id string) (*Run, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := ConvertRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

func ConvertTransfer(row scanner) (*Transfer, error) {
	var (
		t          Transfer
		syringe    int
		started    string
		durationMS int64
	)
	err := row.Scan(&t.ID, &t.RunID, &t.Cycle, &t.Reaction,
		&t.Source.Tray, &t.Source.Position, &t.Dest.Tray, &t.Dest.Position,
		&t.Volume, &syringe, &started, &durationMS)
	if err != nil {
		return nil, err
	}
	if t.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
		return nil, fmt.Errorf("transfer %d: started_at: %w", t.ID, err)
	}
	t.Syringe = palbot.Syringe(syringe)
	t.Duration = time.Duration(durationMS) * time.Millisecond
	return &t, nil
}

// Transfers lists a run's transfers in the order they were made.
func (c *Client) Transfers(ctx context.Context, runID string) ([]*Transfer, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, run_id, cycle, reaction, source_tray, source_position,
			dest_tray, dest_position, volume, syringe, started_at, duration_ms
		FROM transfers WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Transfer{}
	for rows.Next() {
		t, err := ConvertTransfer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
