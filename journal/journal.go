// Package journal persists strike and verify outcomes to a local SQLite
// database so operators can audit what was sent to the physical mechanism.
//
// Only derived outcome records are stored (operation, path, byte count,
// result, contaminant findings) — never the strike buffers themselves.
// Contaminant lists are encoded as canonical CBOR blobs so records compare
// byte for byte across runs.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	_ "modernc.org/sqlite"

	"github.com/chazu/striker/constraint"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("journal: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	ts           INTEGER NOT NULL,
	op           TEXT    NOT NULL,
	path         TEXT    NOT NULL,
	byte_count   INTEGER NOT NULL,
	ok           INTEGER NOT NULL,
	error        TEXT    NOT NULL DEFAULT '',
	contaminants BLOB
);
`

// Operation names recorded in the op column.
const (
	OpStrike = "strike"
	OpVerify = "verify"
)

// Entry is one recorded outcome.
type Entry struct {
	ID           int64
	Time         time.Time
	Op           string
	Path         string
	ByteCount    int
	OK           bool
	Error        string
	Contaminants []constraint.Contaminant
}

// Journal is a SQLite-backed outcome store. Safe for concurrent use; the
// underlying *sql.DB serializes access.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if necessary) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: init schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordStrike records an execute attempt. A nil runErr marks success.
func (j *Journal) RecordStrike(dest string, byteCount int, runErr error) error {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	return j.insert(Entry{
		Time:      time.Now(),
		Op:        OpStrike,
		Path:      dest,
		ByteCount: byteCount,
		OK:        runErr == nil,
		Error:     errText,
	})
}

// RecordVerify records a verification outcome. A verify is OK when no
// contaminants were found; contamination is recorded, not treated as an
// error.
func (j *Journal) RecordVerify(path string, size int, contaminants []constraint.Contaminant) error {
	return j.insert(Entry{
		Time:         time.Now(),
		Op:           OpVerify,
		Path:         path,
		ByteCount:    size,
		OK:           len(contaminants) == 0,
		Contaminants: contaminants,
	})
}

func (j *Journal) insert(e Entry) error {
	var blob []byte
	if len(e.Contaminants) > 0 {
		var err error
		blob, err = cborEncMode.Marshal(e.Contaminants)
		if err != nil {
			return fmt.Errorf("journal: marshal contaminants: %w", err)
		}
	}
	_, err := j.db.Exec(
		`INSERT INTO outcomes (ts, op, path, byte_count, ok, error, contaminants)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Time.Unix(), e.Op, e.Path, e.ByteCount, boolToInt(e.OK), e.Error, blob,
	)
	if err != nil {
		return fmt.Errorf("journal: insert outcome: %w", err)
	}
	return nil
}

// Recent returns up to n most recent entries, newest first.
func (j *Journal) Recent(n int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, ts, op, path, byte_count, ok, error, contaminants
		 FROM outcomes ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("journal: query outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			ts   int64
			ok   int
			blob []byte
		)
		if err := rows.Scan(&e.ID, &ts, &e.Op, &e.Path, &e.ByteCount, &ok, &e.Error, &blob); err != nil {
			return nil, fmt.Errorf("journal: scan outcome: %w", err)
		}
		e.Time = time.Unix(ts, 0)
		e.OK = ok != 0
		if len(blob) > 0 {
			if err := cbor.Unmarshal(blob, &e.Contaminants); err != nil {
				return nil, fmt.Errorf("journal: unmarshal contaminants: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate outcomes: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
