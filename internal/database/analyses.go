package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/legalscan/legalscan/internal/model"
)

// FindAnalysis returns the cached analysis for a document URL, but only
// when its text hash matches the given fingerprint. A stored analysis
// computed from older content is a miss, not an error. Returns nil on
// miss.
func (d *DB) FindAnalysis(ctx context.Context, documentURL, textHash string) (*model.Analysis, error) {
	query := `
	SELECT id, document_id, document_url, text_hash, summary_short, summary_long,
		word_frequency, measurements, provider, created_at, updated_at
	FROM cached_analyses
	WHERE document_url = ? AND text_hash = ?
	`

	var (
		a             model.Analysis
		summaryShort  sql.NullString
		summaryLong   sql.NullString
		frequencyJSON sql.NullString
		metricsJSON   sql.NullString
		provider      sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := d.db.QueryRowContext(ctx, query, documentURL, textHash).Scan(
		&a.ID,
		&a.DocumentID,
		&a.DocumentURL,
		&a.TextHash,
		&summaryShort,
		&summaryLong,
		&frequencyJSON,
		&metricsJSON,
		&provider,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	a.SummaryShort = summaryShort.String
	a.SummaryLong = summaryLong.String
	a.Provider = provider.String
	a.CreatedAt = parseTimestamp(createdAt)
	a.UpdatedAt = parseTimestamp(updatedAt)

	if frequencyJSON.Valid && frequencyJSON.String != "" {
		if err := json.Unmarshal([]byte(frequencyJSON.String), &a.WordFrequency); err != nil {
			return nil, fmt.Errorf("failed to parse word frequency: %w", err)
		}
	}
	if metricsJSON.Valid && metricsJSON.String != "" {
		if err := json.Unmarshal([]byte(metricsJSON.String), &a.Measurements); err != nil {
			return nil, fmt.Errorf("failed to parse measurements: %w", err)
		}
	}

	return &a, nil
}

// StoreAnalysis inserts or replaces the single analysis row for
// analysis.DocumentURL and writes the row ID back into analysis.
//
// When a row already exists with the same text hash the content is left
// alone and only the timestamp is refreshed, unless forceReplace is set.
// A differing hash always replaces the content. There is never more than
// one row per document URL.
func (d *DB) StoreAnalysis(ctx context.Context, analysis *model.Analysis, forceReplace bool) error {
	frequencyJSON, err := json.Marshal(analysis.WordFrequency)
	if err != nil {
		return fmt.Errorf("failed to serialize word frequency: %w", err)
	}
	metricsJSON, err := json.Marshal(analysis.Measurements)
	if err != nil {
		return fmt.Errorf("failed to serialize measurements: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var (
		existingID   int64
		existingHash string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, text_hash FROM cached_analyses WHERE document_url = ?`,
		analysis.DocumentURL,
	).Scan(&existingID, &existingHash)

	switch {
	case err == sql.ErrNoRows:
		result, ierr := tx.ExecContext(ctx, `
		INSERT INTO cached_analyses
			(document_id, document_url, text_hash, summary_short, summary_long,
			word_frequency, measurements, provider)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			analysis.DocumentID,
			analysis.DocumentURL,
			analysis.TextHash,
			analysis.SummaryShort,
			analysis.SummaryLong,
			string(frequencyJSON),
			string(metricsJSON),
			analysis.Provider,
		)
		if ierr != nil {
			return fmt.Errorf("failed to insert analysis: %w", ierr)
		}
		analysis.ID, _ = result.LastInsertId() //nolint:errcheck // sqlite always reports the rowid

	case err != nil:
		return fmt.Errorf("failed to look up analysis: %w", err)

	case existingHash == analysis.TextHash && !forceReplace:
		if _, uerr := tx.ExecContext(ctx, `
		UPDATE cached_analyses SET updated_at = CURRENT_TIMESTAMP WHERE id = ?
		`, existingID); uerr != nil {
			return fmt.Errorf("failed to refresh analysis: %w", uerr)
		}
		analysis.ID = existingID

	default:
		if _, uerr := tx.ExecContext(ctx, `
		UPDATE cached_analyses
		SET document_id = ?, text_hash = ?, summary_short = ?, summary_long = ?,
			word_frequency = ?, measurements = ?, provider = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		`,
			analysis.DocumentID,
			analysis.TextHash,
			analysis.SummaryShort,
			analysis.SummaryLong,
			string(frequencyJSON),
			string(metricsJSON),
			analysis.Provider,
			existingID,
		); uerr != nil {
			return fmt.Errorf("failed to replace analysis: %w", uerr)
		}
		analysis.ID = existingID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis store: %w", err)
	}

	return nil
}
