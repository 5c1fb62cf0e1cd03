// Package store provides a SQLite-backed cache for parsed CSV records.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/sdash/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed record caching keyed by source file.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// migrate adds any missing file_tracker columns to a cache written by an
// older build and clears it so every file is reparsed.
func migrate(db *sql.DB) error {
	rows, err := db.Query("SELECT name FROM pragma_table_info('file_tracker')")
	if err != nil {
		return err
	}
	have := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		have[name] = true
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	stale := false
	for _, col := range trackerColumnsAdded {
		name, _, _ := strings.Cut(col, " ")
		if have[name] {
			continue
		}
		if _, err := db.Exec("ALTER TABLE file_tracker ADD COLUMN " + col); err != nil {
			return err
		}
		stale = true
	}
	if !stale {
		return nil
	}
	if _, err := db.Exec("DELETE FROM records"); err != nil {
		return err
	}
	_, err = db.Exec("DELETE FROM file_tracker")
	return err
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// TrackedFile is the fingerprint and parse outcome recorded for a source file.
type TrackedFile struct {
	Path       string
	MtimeNs    int64
	SizeBytes  int64
	OptionsKey string // parse options the records were derived with
	Rows       int
	Rejected   int
	Duplicates int
	Warnings   []string // capped sample of rejected-row messages
}

// Matches reports whether the tracked entry is still valid for a file with
// the given mtime and size parsed under optionsKey.
func (f TrackedFile) Matches(mtimeNs, sizeBytes int64, optionsKey string) bool {
	return f.MtimeNs == mtimeNs && f.SizeBytes == sizeBytes && f.OptionsKey == optionsKey
}

// GetTrackedFiles returns a map of file_path -> TrackedFile for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]TrackedFile, error) {
	rows, err := c.db.Query(`SELECT file_path, mtime_ns, size_bytes, options_key,
		rows_read, rejected, duplicates, warnings FROM file_tracker`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]TrackedFile)
	for rows.Next() {
		var f TrackedFile
		var warnings string
		if err := rows.Scan(&f.Path, &f.MtimeNs, &f.SizeBytes, &f.OptionsKey,
			&f.Rows, &f.Rejected, &f.Duplicates, &warnings); err != nil {
			return nil, err
		}
		if warnings != "" {
			if err := json.Unmarshal([]byte(warnings), &f.Warnings); err != nil {
				return nil, fmt.Errorf("decoding warnings for %s: %w", f.Path, err)
			}
		}
		result[f.Path] = f
	}
	return result, rows.Err()
}

// SaveFile replaces every cached record of a file and its tracking entry in
// one transaction.
func (c *Cache) SaveFile(f TrackedFile, records []model.Record) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE file_path = ?", f.Path); err != nil {
		return err
	}

	var warnings string
	if len(f.Warnings) > 0 {
		b, err := json.Marshal(f.Warnings)
		if err != nil {
			return err
		}
		warnings = string(b)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker
		(file_path, mtime_ns, size_bytes, options_key, rows_read, rejected, duplicates, warnings, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Path, f.MtimeNs, f.SizeBytes, f.OptionsKey, f.Rows, f.Rejected, f.Duplicates, warnings, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records
		(file_path, seq, country, year, sex, age_group, suicides_no, population,
		 rate_per_100k, hdi_for_year, gdp_for_year, gdp_per_capita, generation, income_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		var hdi sql.NullFloat64
		if r.HDIForYear != nil {
			hdi = sql.NullFloat64{Float64: *r.HDIForYear, Valid: true}
		}
		_, err = stmt.Exec(
			f.Path, i, r.Country, r.Year, r.Sex, r.AgeGroup, r.SuicideCount, r.Population,
			r.RatePer100k, hdi, r.GDPForYear, r.GDPPerCapita, r.Generation, r.IncomeCategory,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadFile reads the cached records of one file in their original order.
func (c *Cache) LoadFile(path string) ([]model.Record, error) {
	rows, err := c.db.Query(`SELECT
		country, year, sex, age_group, suicides_no, population, rate_per_100k,
		hdi_for_year, gdp_for_year, gdp_per_capita, generation, income_category
		FROM records WHERE file_path = ? ORDER BY seq`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var r model.Record
		var hdi, gdpYear, gdpCapita sql.NullFloat64
		var generation, income sql.NullString

		err := rows.Scan(
			&r.Country, &r.Year, &r.Sex, &r.AgeGroup, &r.SuicideCount, &r.Population, &r.RatePer100k,
			&hdi, &gdpYear, &gdpCapita, &generation, &income,
		)
		if err != nil {
			return nil, err
		}

		if hdi.Valid {
			v := hdi.Float64
			r.HDIForYear = &v
		}
		r.GDPForYear = gdpYear.Float64
		r.GDPPerCapita = gdpCapita.Float64
		r.Generation = generation.String
		r.IncomeCategory = income.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteFile removes a file's tracking entry and its records.
func (c *Cache) DeleteFile(path string) error {
	if _, err := c.db.Exec("DELETE FROM records WHERE file_path = ?", path); err != nil {
		return err
	}
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// RecordCount returns the number of cached records.
func (c *Cache) RecordCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}
