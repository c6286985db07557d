// ABOUTME: SQLite-backed snapshot cache of the most recent fetched entity lists for offline reads.
// ABOUTME: Always rebuildable from the backend; a queryable cache, never the source of truth.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/masserfx/kovoterm/client"
)

// ErrNoSnapshot is returned when no snapshot exists for the requested entity.
var ErrNoSnapshot = errors.New("no snapshot for entity")

// Snapshot is a SQLite-backed cache of fetched lists. Material prices get a
// typed table (the one entity with full local CRUD round-trips); everything
// else is stored as a JSON payload per entity name.
type Snapshot struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at the given path.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			entity TEXT PRIMARY KEY,
			snapshot_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS material_prices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			grade TEXT NOT NULL,
			form TEXT NOT NULL,
			dimension TEXT NOT NULL,
			unit_price REAL NOT NULL,
			currency TEXT NOT NULL,
			valid_from TEXT NOT NULL,
			valid_to TEXT NOT NULL,
			is_active INTEGER NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Snapshot{db: db}, nil
}

// Close closes the database connection.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

// SaveList stores the given list as the current snapshot for an entity,
// replacing any previous one.
func (s *Snapshot) SaveList(entity string, list any) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", entity, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (entity, snapshot_id, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		entity, ulid.Make().String(), string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store %s snapshot: %w", entity, err)
	}
	return nil
}

// LoadList decodes the stored snapshot for an entity into out and returns
// when it was fetched. Returns ErrNoSnapshot when the entity was never saved.
func (s *Snapshot) LoadList(entity string, out any) (time.Time, error) {
	var payload, fetchedAt string
	err := s.db.QueryRow(
		"SELECT payload, fetched_at FROM snapshots WHERE entity = ?", entity,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoSnapshot, entity)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load %s snapshot: %w", entity, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return time.Time{}, fmt.Errorf("decode %s snapshot: %w", entity, err)
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s snapshot timestamp: %w", entity, err)
	}
	return ts, nil
}

// SaveMaterialPrices replaces the typed material price rows and records the
// snapshot timestamp.
func (s *Snapshot) SaveMaterialPrices(prices []client.MaterialPrice) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin material snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM material_prices"); err != nil {
		return fmt.Errorf("clear material snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO material_prices
			(id, name, grade, form, dimension, unit_price, currency, valid_from, valid_to, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare material insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		active := 0
		if p.IsActive {
			active = 1
		}
		if _, err := stmt.Exec(
			p.ID, p.Name, p.Grade, p.Form, p.Dimension,
			p.UnitPrice, p.Currency,
			p.ValidFrom.UTC().Format(time.RFC3339),
			p.ValidTo.UTC().Format(time.RFC3339),
			active,
		); err != nil {
			return fmt.Errorf("insert material %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit material snapshot: %w", err)
	}

	return s.SaveList("materialy.meta", struct{ Count int }{len(prices)})
}

// LoadMaterialPrices returns the typed material rows, optionally restricted
// to active entries, ordered by name.
func (s *Snapshot) LoadMaterialPrices(activeOnly bool) ([]client.MaterialPrice, error) {
	q := "SELECT id, name, grade, form, dimension, unit_price, currency, valid_from, valid_to, is_active FROM material_prices"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	q += " ORDER BY name"

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("query material snapshot: %w", err)
	}
	defer rows.Close()

	var prices []client.MaterialPrice
	for rows.Next() {
		var p client.MaterialPrice
		var validFrom, validTo string
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.Grade, &p.Form, &p.Dimension,
			&p.UnitPrice, &p.Currency, &validFrom, &validTo, &active); err != nil {
			return nil, fmt.Errorf("scan material row: %w", err)
		}
		p.IsActive = active == 1
		if p.ValidFrom, err = time.Parse(time.RFC3339, validFrom); err != nil {
			return nil, fmt.Errorf("parse valid_from: %w", err)
		}
		if p.ValidTo, err = time.Parse(time.RFC3339, validTo); err != nil {
			return nil, fmt.Errorf("parse valid_to: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
