package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type historyStore struct {
	db *sql.DB
}

type captureRecord struct {
	ID       int64 `json:"id"`
	At       int64 `json:"at"`
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	BPP      int   `json:"bpp"`
	Complete bool  `json:"complete"`
	Bytes    int   `json:"bytes"`
}

func newHistoryStore(path string) (*historyStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &historyStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *historyStore) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS captures (
			id INTEGER PRIMARY KEY,
			at INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			bpp INTEGER NOT NULL,
			complete INTEGER NOT NULL,
			bytes INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_captures_at ON captures(at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *historyStore) Insert(info *captureInfo) error {
	complete := 0
	if info.Complete {
		complete = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO captures (at, width, height, bpp, complete, bytes) VALUES (?, ?, ?, ?, ?, ?)`,
		info.At.Unix(), info.Width, info.Height, info.BPP, complete, info.Bytes,
	)
	return err
}

func (s *historyStore) Recent(limit int) ([]captureRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, at, width, height, bpp, complete, bytes FROM captures ORDER BY at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []captureRecord
	for rows.Next() {
		var r captureRecord
		var complete int
		if err := rows.Scan(&r.ID, &r.At, &r.Width, &r.Height, &r.BPP, &complete, &r.Bytes); err != nil {
			return nil, err
		}
		r.Complete = complete != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *historyStore) Close() error { return s.db.Close() }
