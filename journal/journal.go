// Package journal records every domain event of a session in SQLite and
// exports the player's quest log as Markdown or HTML.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nathoo/fidoquest/engine/events"
	"github.com/nathoo/fidoquest/types"
)

// Source identifies the session events belong to and its game clock.
type Source interface {
	Session() string
	Clock() (day, minutes int)
}

// Entry is one recorded event.
type Entry struct {
	ID      int64
	Session string
	Type    string
	Day     int
	Minutes int
	At      time.Time
	Data    map[string]any
}

// Journal is an append-only event store.
type Journal struct {
	db  *sql.DB
	log *log.Logger
}

// Open opens or creates the journal database at path.
func Open(path string, logger *log.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One connection keeps ":memory:" databases intact and writes ordered.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db, log: logger}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return j, nil
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		type TEXT NOT NULL,
		day INTEGER NOT NULL,
		minutes INTEGER NOT NULL,
		at_ms INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session, id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record stores ev for src.
func (j *Journal) Record(src Source, ev types.Event) error {
	data := ev.Data
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", ev.Type, err)
	}
	day, minutes := src.Clock()
	_, err = j.db.Exec(`
		INSERT INTO events (session, type, day, minutes, at_ms, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, src.Session(), ev.Type, day, minutes, ev.Timestamp, string(payload))
	return err
}

// Attach subscribes the journal to every event on bus. Write failures are
// logged; they never interrupt play.
func (j *Journal) Attach(bus *events.Bus, src Source) (unsubscribe func()) {
	return bus.Subscribe(types.EventWildcard, func(ev types.Event) {
		if err := j.Record(src, ev); err != nil && j.log != nil {
			j.log.Printf("warning: journal: %v", err)
		}
	})
}

// Entries returns the events of one session in the order they happened.
func (j *Journal) Entries(session string) ([]Entry, error) {
	rows, err := j.db.Query(`
		SELECT id, session, type, day, minutes, at_ms, data
		FROM events WHERE session = ? ORDER BY id
	`, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			atMS int64
			data string
		)
		if err := rows.Scan(&e.ID, &e.Session, &e.Type, &e.Day, &e.Minutes, &atMS, &data); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.At = time.UnixMilli(atMS)
		if err := json.Unmarshal([]byte(data), &e.Data); err != nil {
			return nil, fmt.Errorf("journal row %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Sessions lists the recorded session ids, oldest first.
func (j *Journal) Sessions() ([]string, error) {
	rows, err := j.db.Query(`SELECT session FROM events GROUP BY session ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
