package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/legalscan/legalscan/internal/model"
)

// CreateSession inserts a new session row in its initial state.
func (d *DB) CreateSession(ctx context.Context, session *model.CrawlSession) error {
	_, err := d.db.ExecContext(ctx, `
	INSERT INTO sessions (id, user_id, url, status)
	VALUES (?, ?, ?, ?)
	`,
		session.ID,
		session.UserID,
		session.URL,
		string(session.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// UpdateSessionStatus moves a session to a new state, updating the
// result counts and error message alongside it.
func (d *DB) UpdateSessionStatus(ctx context.Context, sessionID string, status model.SessionStatus, documentCount, analyzedCount int, errorMessage string) error {
	_, err := d.db.ExecContext(ctx, `
	UPDATE sessions
	SET status = ?, document_count = ?, analyzed_count = ?, error_message = ?,
		updated_at = CURRENT_TIMESTAMP
	WHERE id = ?
	`,
		string(status),
		documentCount,
		analyzedCount,
		errorMessage,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. Returns nil when no session
// exists.
func (d *DB) GetSession(ctx context.Context, sessionID string) (*model.CrawlSession, error) {
	row := d.db.QueryRowContext(ctx, `
	SELECT id, user_id, url, status, document_count, analyzed_count,
		error_message, created_at, updated_at
	FROM sessions
	WHERE id = ?
	`, sessionID)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListSessions returns a user's sessions, most recent first.
func (d *DB) ListSessions(ctx context.Context, userID string, limit int) ([]model.CrawlSession, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := d.db.QueryContext(ctx, `
	SELECT id, user_id, url, status, document_count, analyzed_count,
		error_message, created_at, updated_at
	FROM sessions
	WHERE user_id = ?
	ORDER BY created_at DESC
	LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.CrawlSession
	for rows.Next() {
		session, serr := scanSession(rows)
		if serr != nil {
			return nil, fmt.Errorf("failed to scan session: %w", serr)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// InsertSessionDocument stores a per-requester document copy and writes
// the row ID back into doc.
func (d *DB) InsertSessionDocument(ctx context.Context, doc *model.Document) error {
	result, err := d.db.ExecContext(ctx, `
	INSERT INTO session_documents
		(session_id, user_id, url, document_type, title, raw_text, text_hash, word_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		doc.SessionID,
		doc.UserID,
		doc.URL,
		string(doc.DocumentType),
		doc.Title,
		doc.RawText,
		doc.TextHash,
		doc.WordCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session document: %w", err)
	}

	doc.ID, _ = result.LastInsertId() //nolint:errcheck // sqlite always reports the rowid
	return nil
}

// InsertSessionAnalysis stores a per-requester analysis copy bound to a
// session document and writes the row ID back into res.
func (d *DB) InsertSessionAnalysis(ctx context.Context, res *model.AnalysisResult) error {
	frequencyJSON, err := json.Marshal(res.WordFrequency)
	if err != nil {
		return fmt.Errorf("failed to serialize word frequency: %w", err)
	}
	metricsJSON, err := json.Marshal(res.Measurements)
	if err != nil {
		return fmt.Errorf("failed to serialize measurements: %w", err)
	}

	result, err := d.db.ExecContext(ctx, `
	INSERT INTO session_analyses
		(document_id, user_id, summary_short, summary_long, word_frequency, measurements, provider)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		res.DocumentID,
		res.UserID,
		res.SummaryShort,
		res.SummaryLong,
		string(frequencyJSON),
		string(metricsJSON),
		res.Provider,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session analysis: %w", err)
	}

	res.ID, _ = result.LastInsertId() //nolint:errcheck // sqlite always reports the rowid
	return nil
}

// GetSessionDocuments returns a session's document copies with their
// analysis copies, in insertion order. Documents without an analysis have
// a nil entry in the second slice at the same index.
func (d *DB) GetSessionDocuments(ctx context.Context, sessionID string) ([]model.Document, []*model.AnalysisResult, error) {
	rows, err := d.db.QueryContext(ctx, `
	SELECT id, session_id, user_id, url, document_type, title,
		raw_text, text_hash, word_count, created_at
	FROM session_documents
	WHERE session_id = ?
	ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var (
			doc       model.Document
			docType   string
			title     sql.NullString
			createdAt string
		)
		if err := rows.Scan(
			&doc.ID,
			&doc.SessionID,
			&doc.UserID,
			&doc.URL,
			&docType,
			&title,
			&doc.RawText,
			&doc.TextHash,
			&doc.WordCount,
			&createdAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan session document: %w", err)
		}
		doc.DocumentType = model.DocumentType(docType)
		doc.Title = title.String
		doc.CreatedAt = parseTimestamp(createdAt)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	analyses := make([]*model.AnalysisResult, len(docs))
	for i := range docs {
		res, aerr := d.getSessionAnalysis(ctx, docs[i].ID)
		if aerr != nil {
			return nil, nil, aerr
		}
		analyses[i] = res
	}

	return docs, analyses, nil
}

// getSessionAnalysis returns the analysis copy for one session document,
// or nil when the document was stored without one.
func (d *DB) getSessionAnalysis(ctx context.Context, documentID int64) (*model.AnalysisResult, error) {
	var (
		res           model.AnalysisResult
		summaryShort  sql.NullString
		summaryLong   sql.NullString
		frequencyJSON sql.NullString
		metricsJSON   sql.NullString
		provider      sql.NullString
		createdAt     string
	)

	err := d.db.QueryRowContext(ctx, `
	SELECT id, document_id, user_id, summary_short, summary_long,
		word_frequency, measurements, provider, created_at
	FROM session_analyses
	WHERE document_id = ?
	`, documentID).Scan(
		&res.ID,
		&res.DocumentID,
		&res.UserID,
		&summaryShort,
		&summaryLong,
		&frequencyJSON,
		&metricsJSON,
		&provider,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session analysis: %w", err)
	}

	res.SummaryShort = summaryShort.String
	res.SummaryLong = summaryLong.String
	res.Provider = provider.String
	res.CreatedAt = parseTimestamp(createdAt)

	if frequencyJSON.Valid && frequencyJSON.String != "" {
		if err := json.Unmarshal([]byte(frequencyJSON.String), &res.WordFrequency); err != nil {
			return nil, fmt.Errorf("failed to parse word frequency: %w", err)
		}
	}
	if metricsJSON.Valid && metricsJSON.String != "" {
		if err := json.Unmarshal([]byte(metricsJSON.String), &res.Measurements); err != nil {
			return nil, fmt.Errorf("failed to parse measurements: %w", err)
		}
	}

	return &res, nil
}

// DeleteSession removes a session and all its per-requester copies. It
// reports whether the session existed.
func (d *DB) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `
	DELETE FROM session_analyses
	WHERE document_id IN (SELECT id FROM session_documents WHERE session_id = ?)
	`, sessionID); err != nil {
		return false, fmt.Errorf("failed to delete session analyses: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_documents WHERE session_id = ?`, sessionID,
	); err != nil {
		return false, fmt.Errorf("failed to delete session documents: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = ?`, sessionID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit session delete: %w", err)
	}

	return affected > 0, nil
}

// scanSession reads one sessions row.
func scanSession(row rowScanner) (*model.CrawlSession, error) {
	var (
		session      model.CrawlSession
		status       string
		errorMessage sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.URL,
		&status,
		&session.DocumentCount,
		&session.AnalyzedCount,
		&errorMessage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Status = model.SessionStatus(status)
	session.ErrorMessage = errorMessage.String
	session.CreatedAt = parseTimestamp(createdAt)
	session.UpdatedAt = parseTimestamp(updatedAt)

	return &session, nil
}
