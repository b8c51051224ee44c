// Package journal records generation history in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	run      TEXT NOT NULL,
	actor    TEXT NOT NULL,
	model    TEXT NOT NULL,
	artifact TEXT NOT NULL,
	digest   TEXT NOT NULL,
	status   TEXT NOT NULL,
	reason   TEXT NOT NULL DEFAULT '',
	at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS generations_artifact ON generations (artifact, id);
CREATE INDEX IF NOT EXISTS generations_run ON generations (run, id);
`

// Entry is one recorded generation outcome.
type Entry struct {
	ID       int64
	Run      string
	Actor    string
	Model    string
	Artifact string
	// Digest is the hex BLAKE3 digest of the normalized artifact text.
	Digest string
	Status string
	Reason string
	At     time.Time
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Run      string
	Artifact string
	Limit    int
}

// Recorder receives generation outcomes.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Journal is a Recorder backed by SQLite.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal database at path. ":memory:" opens a
// private in-memory journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}

	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record implements Recorder. A zero At is set to the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.Run == "" || e.Artifact == "" {
		return errors.New("journal entry needs a run and an artifact")
	}

	if e.At.IsZero() {
		e.At = j.now()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO generations (run, actor, model, artifact, digest, status, reason, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Run, e.Actor, e.Model, e.Artifact, e.Digest, e.Status, e.Reason,
		e.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Artifact, err)
	}

	return nil
}

// List returns matching entries, newest first.
func (j *Journal) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)

	if f.Run != "" {
		where = append(where, "run = ?")
		args = append(args, f.Run)
	}

	if f.Artifact != "" {
		where = append(where, "artifact = ?")
		args = append(args, f.Artifact)
	}

	query := "SELECT id, run, actor, model, artifact, digest, status, reason, at FROM generations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)

		if err := rows.Scan(&e.ID, &e.Run, &e.Actor, &e.Model, &e.Artifact, &e.Digest, &e.Status, &e.Reason, &at); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}

		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("journal entry %d: %w", e.ID, err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}
