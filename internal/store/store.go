// Package store persists the segment and mean-expression tables in DuckDB,
// as an alternative to the CSV files for downstream consumers that want a
// queryable copy.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/plantlab/isoviz/internal/expr"
	"github.com/plantlab/isoviz/internal/segments"
)

// Store manages a DuckDB connection holding the two tables.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS segments (
		gene_id VARCHAR,
		transcript_id VARCHAR,
		feature VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		strand VARCHAR,
		chrom VARCHAR,
		exon_number INTEGER
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS expression_mean (
		transcript_id VARCHAR,
		genotype VARCHAR,
		timepoint VARCHAR,
		mean_tpm DOUBLE,
		PRIMARY KEY (transcript_id, genotype, timepoint)
	)`)
	return err
}

// ReplaceSegments replaces the segments table contents with segs.
func (s *Store) ReplaceSegments(segs []segments.Segment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM segments`); err != nil {
		return fmt.Errorf("clear segments: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO segments VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, seg := range segs {
		var exonNum sql.NullInt32
		if seg.ExonNumber != nil {
			exonNum = sql.NullInt32{Int32: int32(*seg.ExonNumber), Valid: true}
		}
		if _, err := stmt.Exec(seg.GeneID, seg.TranscriptID, seg.Feature,
			seg.Start, seg.End, seg.Strand, seg.Chrom, exonNum); err != nil {
			return fmt.Errorf("insert segment: %w", err)
		}
	}

	return tx.Commit()
}

// ReplaceMeans replaces the expression_mean table contents with means.
func (s *Store) ReplaceMeans(means []expr.Mean) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM expression_mean`); err != nil {
		return fmt.Errorf("clear expression_mean: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO expression_mean VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range means {
		if _, err := stmt.Exec(m.TranscriptID, m.Genotype, m.Timepoint, m.MeanTPM); err != nil {
			return fmt.Errorf("insert mean: %w", err)
		}
	}

	return tx.Commit()
}

// LoadSegments returns all segments ordered by the segment table sort key.
func (s *Store) LoadSegments() ([]segments.Segment, error) {
	rows, err := s.db.Query(`SELECT gene_id, transcript_id, feature, start_pos, end_pos, strand, chrom, exon_number
		FROM segments
		ORDER BY gene_id, transcript_id, start_pos, end_pos, feature`)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segs []segments.Segment
	for rows.Next() {
		var seg segments.Segment
		var exonNum sql.NullInt32
		if err := rows.Scan(&seg.GeneID, &seg.TranscriptID, &seg.Feature,
			&seg.Start, &seg.End, &seg.Strand, &seg.Chrom, &exonNum); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if exonNum.Valid {
			n := int(exonNum.Int32)
			seg.ExonNumber = &n
		}
		segs = append(segs, seg)
	}

	return segs, rows.Err()
}

// LoadMeans returns all mean-expression rows ordered by the group key.
func (s *Store) LoadMeans() ([]expr.Mean, error) {
	rows, err := s.db.Query(`SELECT transcript_id, genotype, timepoint, mean_tpm
		FROM expression_mean
		ORDER BY transcript_id, genotype, timepoint`)
	if err != nil {
		return nil, fmt.Errorf("query expression_mean: %w", err)
	}
	defer rows.Close()

	var means []expr.Mean
	for rows.Next() {
		var m expr.Mean
		if err := rows.Scan(&m.TranscriptID, &m.Genotype, &m.Timepoint, &m.MeanTPM); err != nil {
			return nil, fmt.Errorf("scan mean: %w", err)
		}
		means = append(means, m)
	}

	return means, rows.Err()
}

// SegmentCount returns the number of segment rows in the store.
func (s *Store) SegmentCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM segments`).Scan(&count)
	return count, err
}

// MeanCount returns the number of mean-expression rows in the store.
func (s *Store) MeanCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM expression_mean`).Scan(&count)
	return count, err
}
