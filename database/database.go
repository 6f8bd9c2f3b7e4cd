package database

import (
	"database/sql"
	"fmt"
	"time"

	"imagediff/logging"
	"imagediff/types"

	_ "github.com/mattn/go-sqlite3"
)

// ComparisonRecord is one stored comparison run
type ComparisonRecord struct {
	ID              int64
	SourceA         string
	SourceB         string
	HashSize        int
	PixelSimilarity float64
	HashSimilarity  float64
	DifferingPixels int
	TotalPixels     int
	ElapsedMillis   int64
	CreatedAt       time.Time
}

// HistoryStats summarizes the stored comparisons
type HistoryStats struct {
	TotalComparisons   int
	IdenticalPixelRuns int
	AvgPixelSimilarity float64
	AvgHashSimilarity  float64
}

// InitDatabase opens dbPath and creates the comparisons table if needed
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS comparisons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_a TEXT NOT NULL,
		source_b TEXT NOT NULL,
		hash_size INTEGER NOT NULL,
		pixel_similarity REAL NOT NULL,
		hash_similarity REAL NOT NULL,
		differing_pixels INTEGER NOT NULL,
		total_pixels INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comparisons_sources ON comparisons(source_a, source_b);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create comparisons table: %w", err)
	}

	logging.DebugLog("Comparison history database ready at %s", dbPath)
	return db, nil
}

// StoreComparison records a comparison result. Fingerprints are not stored.
func StoreComparison(db *sql.DB, result *types.ComparisonResult) (int64, error) {
	stmt, err := db.Prepare(`
		INSERT INTO comparisons (
			source_a, source_b, hash_size, pixel_similarity, hash_similarity,
			differing_pixels, total_pixels, elapsed_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("cannot prepare statement: %w", err)
	}
	defer stmt.Close()

	elapsed := result.PixelElapsed + result.HashElapsed
	res, err := stmt.Exec(
		result.SourceA,
		result.SourceB,
		result.HashSize,
		result.Pixel.Score.Similarity,
		result.Hash.Similarity,
		result.Pixel.DifferingPixels,
		result.Pixel.TotalPixels,
		elapsed.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("cannot insert comparison of %s and %s: %w", result.SourceA, result.SourceB, err)
	}

	return res.LastInsertId()
}

// RecentComparisons returns up to limit records, newest first
func RecentComparisons(db *sql.DB, limit int) ([]ComparisonRecord, error) {
	rows, err := db.Query(`
		SELECT id, source_a, source_b, hash_size, pixel_similarity, hash_similarity,
		       differing_pixels, total_pixels, elapsed_ms, created_at
		FROM comparisons ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("database query error: %w", err)
	}
	defer rows.Close()

	var records []ComparisonRecord
	for rows.Next() {
		var rec ComparisonRecord
		var createdAt string
		err := rows.Scan(&rec.ID, &rec.SourceA, &rec.SourceB, &rec.HashSize,
			&rec.PixelSimilarity, &rec.HashSimilarity, &rec.DifferingPixels,
			&rec.TotalPixels, &rec.ElapsedMillis, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("cannot parse stored time for comparison %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetHistoryStats retrieves summary statistics over all stored comparisons
func GetHistoryStats(db *sql.DB) (*HistoryStats, error) {
	var stats HistoryStats
	var avgPixel, avgHash sql.NullFloat64

	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN differing_pixels = 0 THEN 1 ELSE 0 END), 0),
		       AVG(pixel_similarity),
		       AVG(hash_similarity)
		FROM comparisons`).Scan(&stats.TotalComparisons, &stats.IdenticalPixelRuns, &avgPixel, &avgHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get history stats: %w", err)
	}

	stats.AvgPixelSimilarity = avgPixel.Float64
	stats.AvgHashSimilarity = avgHash.Float64
	return &stats, nil
}
