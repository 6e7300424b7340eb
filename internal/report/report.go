package report

import (
	"context"

	"github.com/legalscan/legalscan/internal/database"
	"github.com/legalscan/legalscan/internal/model"
)

// SessionReport is a completed crawl session with its documents and
// analyses, assembled for rendering.
type SessionReport struct {
	// Session is the session record.
	Session *model.CrawlSession `json:"session"`

	// Documents are the session's document copies with any analyses.
	Documents []DocumentReport `json:"documents"`
}

// DocumentReport pairs one document copy with its analysis.
type DocumentReport struct {
	// Document is the per-requester document copy.
	Document model.Document `json:"document"`

	// Analysis is the per-requester analysis copy, nil when the document
	// was not analyzed.
	Analysis *model.AnalysisResult `json:"analysis,omitempty"`
}

// Build assembles the report for a session from the store.
func Build(ctx context.Context, db *database.DB, session *model.CrawlSession) (*SessionReport, error) {
	docs, analyses, err := db.GetSessionDocuments(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	r := &SessionReport{
		Session:   session,
		Documents: make([]DocumentReport, 0, len(docs)),
	}
	for i := range docs {
		r.Documents = append(r.Documents, DocumentReport{
			Document: docs[i],
			Analysis: analyses[i],
		})
	}

	return r, nil
}
