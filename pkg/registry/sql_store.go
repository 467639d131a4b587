package registry

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLStore is a sqlite3-backed registry for hosts that want queryable
// pairing history (first-paired timestamp, last-seen) rather than a plain
// key-value file. The default CLI uses FileStore; SQLStore is opt-in.
type SQLStore struct {
	db   *sql.DB
	bcst *broadcaster
}

// NewSQLStore opens (creating if needed) the sqlite3 database at path and
// runs its migration.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("registry: open sqlite3: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: configure sqlite3: %w", err)
	}

	s := &SQLStore{db: db, bcst: newBroadcaster()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS paired_devices (
	ip TEXT PRIMARY KEY,
	first_paired_at TIMESTAMP NOT NULL,
	last_seen_at TIMESTAMP NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("registry: migrate: %w", err)
	}
	return nil
}

func (s *SQLStore) IsPaired(ip string) bool {
	var count int
	_ = s.db.QueryRow(`SELECT COUNT(1) FROM paired_devices WHERE ip = ?`, ip).Scan(&count)
	return count > 0
}

func (s *SQLStore) Add(ip string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
INSERT INTO paired_devices (ip, first_paired_at, last_seen_at) VALUES (?, ?, ?)
ON CONFLICT(ip) DO UPDATE SET last_seen_at = excluded.last_seen_at`, ip, now, now)
	if err != nil {
		return fmt.Errorf("registry: add %s: %w", ip, err)
	}
	s.bcst.publish(s.List())
	return nil
}

func (s *SQLStore) Remove(ip string) error {
	if _, err := s.db.Exec(`DELETE FROM paired_devices WHERE ip = ?`, ip); err != nil {
		return fmt.Errorf("registry: remove %s: %w", ip, err)
	}
	s.bcst.publish(s.List())
	return nil
}

func (s *SQLStore) List() []string {
	rows, err := s.db.Query(`SELECT ip FROM paired_devices`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err == nil {
			out = append(out, ip)
		}
	}
	return out
}

func (s *SQLStore) Subscribe() (<-chan []string, func()) {
	return s.bcst.subscribe()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
