package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/legalscan/legalscan/internal/model"
)

// DocumentValidityWindow is how long a fresh cache entry can serve a
// crawl without the document being re-fetched.
const DocumentValidityWindow = 30 * 24 * time.Hour

// documentColumns is the column list shared by every cached_documents
// SELECT so Scan ordering stays in one place.
const documentColumns = `id, base_url, document_url, document_type, title,
	raw_text, text_hash, word_count, version, status,
	last_fetched, created_at, updated_at`

// FindDocuments returns the valid cached documents for a site: status
// fresh and last fetched within the validity window. When types is
// non-empty only those document types are returned. Results are ordered
// by document type, then recency.
func (d *DB) FindDocuments(ctx context.Context, baseURL string, types []model.DocumentType) ([]model.CachedDocument, error) {
	query := `
	SELECT ` + documentColumns + `
	FROM cached_documents
	WHERE base_url = ?
	  AND status = ?
	  AND last_fetched > datetime('now', ?)
	`
	modifier := fmt.Sprintf("-%d seconds", int(DocumentValidityWindow.Seconds()))
	args := []any{baseURL, string(model.DocumentFresh), modifier}

	if len(types) > 0 {
		query += " AND document_type IN ("
		for i, t := range types {
			if i > 0 {
				query += ", "
			}
			query += "?"
			args = append(args, string(t))
		}
		query += ")"
	}

	query += " ORDER BY document_type, last_fetched DESC"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// GetDocument retrieves one cached document by its URL regardless of
// freshness. Returns nil when no entry exists.
func (d *DB) GetDocument(ctx context.Context, documentURL string) (*model.CachedDocument, error) {
	query := `
	SELECT ` + documentColumns + `
	FROM cached_documents
	WHERE document_url = ?
	`

	row := d.db.QueryRowContext(ctx, query, documentURL)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// StoreDocument inserts or updates the cache entry for doc.DocumentURL
// and writes the resulting ID, Version, and Status back into doc.
//
// The version rule: a new URL starts at version 1; a re-fetch with an
// unchanged text hash refreshes the timestamps only; a changed hash
// overwrites the content and increments the version. Marked-stale
// entries return to fresh on any successful store.
func (d *DB) StoreDocument(ctx context.Context, doc *model.CachedDocument) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var (
		existingID      int64
		existingHash    string
		existingVersion int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, text_hash, version FROM cached_documents WHERE document_url = ?`,
		doc.DocumentURL,
	).Scan(&existingID, &existingHash, &existingVersion)

	switch {
	case err == sql.ErrNoRows:
		result, ierr := tx.ExecContext(ctx, `
		INSERT INTO cached_documents
			(base_url, document_url, document_type, title, raw_text, text_hash, word_count, version, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)
		`,
			doc.BaseURL,
			doc.DocumentURL,
			string(doc.DocumentType),
			doc.Title,
			doc.RawText,
			doc.TextHash,
			doc.WordCount,
			string(model.DocumentFresh),
		)
		if ierr != nil {
			return fmt.Errorf("failed to insert document: %w", ierr)
		}
		doc.ID, _ = result.LastInsertId() //nolint:errcheck // sqlite always reports the rowid
		doc.Version = 1

	case err != nil:
		return fmt.Errorf("failed to look up document: %w", err)

	case existingHash == doc.TextHash:
		_, uerr := tx.ExecContext(ctx, `
		UPDATE cached_documents
		SET status = ?, last_fetched = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		`, string(model.DocumentFresh), existingID)
		if uerr != nil {
			return fmt.Errorf("failed to refresh document: %w", uerr)
		}
		doc.ID = existingID
		doc.Version = existingVersion

	default:
		_, uerr := tx.ExecContext(ctx, `
		UPDATE cached_documents
		SET document_type = ?, title = ?, raw_text = ?, text_hash = ?, word_count = ?,
			version = version + 1, status = ?,
			last_fetched = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		`,
			string(doc.DocumentType),
			doc.Title,
			doc.RawText,
			doc.TextHash,
			doc.WordCount,
			string(model.DocumentFresh),
			existingID,
		)
		if uerr != nil {
			return fmt.Errorf("failed to update document: %w", uerr)
		}
		doc.ID = existingID
		doc.Version = existingVersion + 1
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit document store: %w", err)
	}

	doc.Status = model.DocumentFresh
	return nil
}

// MarkDocumentStale flags a cache entry so it will not serve future
// crawls until re-fetched. Marking a missing or already stale entry is
// a no-op.
func (d *DB) MarkDocumentStale(ctx context.Context, documentURL string) error {
	_, err := d.db.ExecContext(ctx, `
	UPDATE cached_documents
	SET status = ?, updated_at = CURRENT_TIMESTAMP
	WHERE document_url = ?
	`, string(model.DocumentStale), documentURL)
	if err != nil {
		return fmt.Errorf("failed to mark document stale: %w", err)
	}
	return nil
}

// DeleteDocument removes a cache entry and its cached analysis. It
// reports whether a document row actually existed.
func (d *DB) DeleteDocument(ctx context.Context, documentURL string) (bool, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cached_analyses WHERE document_url = ?`, documentURL,
	); err != nil {
		return false, fmt.Errorf("failed to delete cached analysis: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM cached_documents WHERE document_url = ?`, documentURL,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit document delete: %w", err)
	}

	return affected > 0, nil
}

// SearchDocuments returns cache entries whose site, URL, or title
// contains the query, case-insensitively, ordered by most recently
// fetched. Page is 1-based. The second return value is the total match
// count across all pages.
func (d *DB) SearchDocuments(ctx context.Context, query string, page, limit int) ([]model.CachedDocument, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	pattern := "%" + query + "%"

	var total int
	err := d.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM cached_documents
	WHERE base_url LIKE ? OR document_url LIKE ? OR title LIKE ?
	`, pattern, pattern, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, `
	SELECT `+documentColumns+`
	FROM cached_documents
	WHERE base_url LIKE ? OR document_url LIKE ? OR title LIKE ?
	ORDER BY last_fetched DESC
	LIMIT ? OFFSET ?
	`, pattern, pattern, pattern, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search documents: %w", err)
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one cached_documents row in documentColumns order.
func scanDocument(row rowScanner) (*model.CachedDocument, error) {
	var (
		doc         model.CachedDocument
		docType     string
		title       sql.NullString
		status      string
		lastFetched string
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(
		&doc.ID,
		&doc.BaseURL,
		&doc.DocumentURL,
		&docType,
		&title,
		&doc.RawText,
		&doc.TextHash,
		&doc.WordCount,
		&doc.Version,
		&status,
		&lastFetched,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.DocumentType = model.DocumentType(docType)
	doc.Title = title.String
	doc.Status = model.DocumentStatus(status)
	doc.LastFetched = parseTimestamp(lastFetched)
	doc.CreatedAt = parseTimestamp(createdAt)
	doc.UpdatedAt = parseTimestamp(updatedAt)

	return &doc, nil
}

// scanDocuments drains rows using scanDocument.
func scanDocuments(rows *sql.Rows) ([]model.CachedDocument, error) {
	var docs []model.CachedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}
