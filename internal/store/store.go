// Package store provides a SQLite-backed observation store for series.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sartorproj/macrolens/timeseries"
)

// Store wraps a SQLite database of series observations.
type Store struct {
	db *sql.DB
}

// Info describes a stored series.
type Info struct {
	ID           string
	Observations int
	First        time.Time
	Last         time.Time
	ImportedAt   time.Time
}

// New opens or creates the SQLite database at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series (
			id          TEXT PRIMARY KEY,
			imported_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS observations (
			series_id TEXT NOT NULL REFERENCES series(id) ON DELETE CASCADE,
			date      TEXT NOT NULL,
			value     REAL,
			PRIMARY KEY (series_id, date)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save replaces every stored observation of the series named s.Name. Absent
// values are stored as NULL.
func (s *Store) Save(series *timeseries.Series) error {
	if series.Name == "" {
		return fmt.Errorf("series name is required")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM series WHERE id = ?`, series.Name); err != nil {
		return fmt.Errorf("failed to clear series %s: %w", series.Name, err)
	}
	if _, err := tx.Exec(`INSERT INTO series (id, imported_at) VALUES (?, ?)`,
		series.Name, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to insert series %s: %w", series.Name, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO observations (series_id, date, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range series.Dates {
		value := sql.NullFloat64{Float64: series.Values[i], Valid: !timeseries.IsAbsent(series.Values[i])}
		if _, err := stmt.Exec(series.Name, d.Format(timeseries.DateLayout), value); err != nil {
			return fmt.Errorf("failed to insert observation %s %s: %w",
				series.Name, d.Format(timeseries.DateLayout), err)
		}
	}

	return tx.Commit()
}

// Load returns the stored series with the given ID. An unknown ID is a
// *timeseries.NotFoundError.
func (s *Store) Load(id string) (*timeseries.Series, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM series WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up series %s: %w", id, err)
	}
	if exists == 0 {
		return nil, &timeseries.NotFoundError{Source: "sqlite:" + id}
	}

	rows, err := s.db.Query(`SELECT date, value FROM observations WHERE series_id = ? ORDER BY date`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var (
		dates  []time.Time
		values []float64
	)
	for rows.Next() {
		var (
			raw   string
			value sql.NullFloat64
		)
		if err := rows.Scan(&raw, &value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		d, err := timeseries.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
		if value.Valid {
			values = append(values, value.Float64)
		} else {
			values = append(values, timeseries.Absent())
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}

	return timeseries.New(id, dates, values)
}

// IDs lists the stored series IDs in ascending order.
func (s *Store) IDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM series ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan series id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List describes every stored series.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.imported_at, COUNT(o.date), COALESCE(MIN(o.date), ''), COALESCE(MAX(o.date), '')
		FROM series s LEFT JOIN observations o ON o.series_id = s.id
		GROUP BY s.id, s.imported_at
		ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var (
			info        Info
			importedAt  int64
			first, last string
		)
		if err := rows.Scan(&info.ID, &importedAt, &info.Observations, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan series info: %w", err)
		}
		info.ImportedAt = time.Unix(0, importedAt)
		if first != "" {
			info.First, _ = timeseries.ParseDate(first)
			info.Last, _ = timeseries.ParseDate(last)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a series and its observations.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM series WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete series %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &timeseries.NotFoundError{Source: "sqlite:" + id}
	}
	return nil
}
