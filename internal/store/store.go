// Package store provides SQLite-based storage for generated terrain maps.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/hex"
)

// ErrNotFound is returned when a map ID does not exist.
var ErrNotFound = errors.New("map not found")

// Store wraps a SQLite connection for map persistence.
type Store struct {
	conn *sqlx.DB
}

// MapInfo describes a stored map without its cells.
type MapInfo struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Radius    int    `db:"radius" json:"radius"`
	Seed      int64  `db:"seed" json:"seed"`
	CreatedAt int64  `db:"created_at" json:"created_at"` // Unix seconds
}

// Created returns CreatedAt as a time.
func (i MapInfo) Created() time.Time { return time.Unix(i.CreatedAt, 0) }

type cellRow struct {
	Q       int `db:"q"`
	R       int `db:"r"`
	Terrain int `db:"terrain"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("Map store opened at %s", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		radius INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cells (
		map_id TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		PRIMARY KEY (map_id, q, r)
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveMap writes m under a fresh ID and returns that ID.
func (s *Store) SaveMap(ctx context.Context, name string, m *grid.Map) (string, error) {
	id := uuid.NewString()

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO maps (id, name, radius, seed, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, m.Radius, m.Seed, time.Now().Unix()); err != nil {
		return "", fmt.Errorf("insert map: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO cells (map_id, q, r, terrain) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, a := range hex.Disk(hex.Axial{}, m.Radius) {
		t, ok := m.At(a)
		if !ok {
			continue
		}
		if _, err := stmt.ExecContext(ctx, id, a.Q, a.R, int(t)); err != nil {
			return "", fmt.Errorf("insert cell %v: %w", a, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	log.Printf("Saved map %s (%s) with %d hexes", id, name, m.HexCount())
	return id, nil
}

// LoadMap reads a map by ID.
func (s *Store) LoadMap(ctx context.Context, id string) (*grid.Map, error) {
	var info MapInfo
	err := s.conn.GetContext(ctx, &info, `SELECT id, name, radius, seed, created_at FROM maps WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", id, err)
	}

	var rows []cellRow
	if err := s.conn.SelectContext(ctx, &rows, `SELECT q, r, terrain FROM cells WHERE map_id = ?`, id); err != nil {
		return nil, fmt.Errorf("load cells for %s: %w", id, err)
	}

	m := &grid.Map{
		Radius: info.Radius,
		Seed:   info.Seed,
		Cells:  make(map[hex.Axial]grid.Terrain, len(rows)),
	}
	for _, row := range rows {
		m.Cells[hex.Axial{Q: row.Q, R: row.R}] = grid.Terrain(row.Terrain)
	}
	return m, nil
}

// ListMaps returns all stored maps, newest first.
func (s *Store) ListMaps(ctx context.Context) ([]MapInfo, error) {
	var out []MapInfo
	err := s.conn.SelectContext(ctx, &out, `SELECT id, name, radius, seed, created_at FROM maps ORDER BY created_at DESC, id`)
	return out, err
}

// DeleteMap removes a map and its cells.
func (s *Store) DeleteMap(ctx context.Context, id string) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cells WHERE map_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
