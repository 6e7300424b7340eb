package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/legalscan/legalscan/internal/analyzer"
	"github.com/legalscan/legalscan/internal/crawler"
	"github.com/legalscan/legalscan/internal/database"
	"github.com/legalscan/legalscan/internal/model"
	"github.com/legalscan/legalscan/internal/normalize"
)

// DefaultMaxPerType caps how many candidate links are fetched per
// document type in one session.
const DefaultMaxPerType = 5

// DefaultFetchConcurrency bounds parallel document fetches inside one
// session.
const DefaultFetchConcurrency = 5

// DefaultSessionTimeout bounds one session's total runtime.
const DefaultSessionTimeout = 5 * time.Minute

// Analyzer produces a document analysis. Satisfied by
// analyzer.Orchestrator.
type Analyzer interface {
	Analyze(ctx context.Context, text, documentURL string, docType model.DocumentType) (*analyzer.Analysis, error)
}

// Request describes one crawl submission.
type Request struct {
	// UserID identifies the requester.
	UserID string

	// URL is the entry page to crawl, in any user-supplied form.
	URL string

	// Types restricts which document types to return. Empty means all.
	Types []model.DocumentType

	// ForceRefresh bypasses both caches and overwrites their entries.
	// Privileged requesters only.
	ForceRefresh bool
}

// Runner executes crawl sessions.
//
// Design decision: We run each session in its own goroutine with an
// awaitable completion channel rather than a worker pool because:
//  1. Sessions are rare and long; pooling buys nothing
//  2. Submit must return before the crawl does any network work
//  3. Tests and the CLI both need to block on a specific session
type Runner struct {
	// db is the backing store for caches and sessions.
	db *database.DB

	// fetcher retrieves pages.
	fetcher *crawler.Fetcher

	// analyzer produces document analyses.
	analyzer Analyzer

	// authorizer gates force refresh.
	authorizer Authorizer

	// logger receives per-session logging.
	logger *slog.Logger

	// maxPerType caps candidate fetches per document type.
	maxPerType int

	// fetchConcurrency bounds parallel document fetches.
	fetchConcurrency int

	// timeout bounds one session's runtime.
	timeout time.Duration

	// ignorePatterns are URL path globs whose matches are skipped during
	// candidate selection.
	ignorePatterns []string

	// mu guards done.
	mu sync.Mutex

	// done maps session IDs to channels closed on completion.
	done map[string]chan struct{}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMaxPerType overrides the per-type candidate cap.
func WithMaxPerType(n int) RunnerOption {
	return func(r *Runner) {
		r.maxPerType = n
	}
}

// WithFetchConcurrency overrides the parallel fetch bound.
func WithFetchConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		r.fetchConcurrency = n
	}
}

// WithSessionTimeout overrides the per-session timeout.
func WithSessionTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithIgnorePatterns sets URL path globs to skip during candidate
// selection. Patterns are matched against the candidate URL's path.
func WithIgnorePatterns(patterns []string) RunnerOption {
	return func(r *Runner) {
		r.ignorePatterns = patterns
	}
}

// WithRunnerLogger sets a custom logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a session runner.
func NewRunner(db *database.DB, fetcher *crawler.Fetcher, an Analyzer, auth Authorizer, opts ...RunnerOption) *Runner {
	r := &Runner{
		db:               db,
		fetcher:          fetcher,
		analyzer:         an,
		authorizer:       auth,
		maxPerType:       DefaultMaxPerType,
		fetchConcurrency: DefaultFetchConcurrency,
		timeout:          DefaultSessionTimeout,
		done:             make(map[string]chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Submit validates the request, creates a pending session, and starts
// the crawl in the background. Validation and authorization failures are
// returned synchronously; everything after that lands on the session
// record instead.
func (r *Runner) Submit(ctx context.Context, req Request) (*model.CrawlSession, error) {
	entryURL, err := normalize.URL(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid crawl URL: %w", err)
	}

	if req.ForceRefresh && !r.authorizer.IsPrivileged(ctx, req.UserID) {
		return nil, ErrForceRefreshDenied
	}

	types := req.Types
	if len(types) == 0 {
		types = model.AllDocumentTypes()
	}
	for _, t := range types {
		if !t.IsValid() {
			return nil, fmt.Errorf("unknown document type %q", t)
		}
	}

	session := &model.CrawlSession{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		URL:    entryURL,
		Status: model.SessionPending,
	}
	if err := r.db.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	ch := make(chan struct{})
	r.mu.Lock()
	r.done[session.ID] = ch
	r.mu.Unlock()

	go func() {
		defer close(ch)
		r.run(session, entryURL, types, req.ForceRefresh)
	}()

	return session, nil
}

// Wait blocks until the session reaches a terminal state and returns its
// final record.
func (r *Runner) Wait(ctx context.Context, sessionID string) (*model.CrawlSession, error) {
	r.mu.Lock()
	ch, ok := r.done[sessionID]
	r.mu.Unlock()

	if ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return r.db.GetSession(ctx, sessionID)
}

// crawlResult pairs a stored cache entry with its analysis, if one was
// produced.
type crawlResult struct {
	doc      model.CachedDocument
	analysis *model.Analysis
}

// run executes one session to its terminal state. Only the entry-page
// fetch is fatal; per-document failures are logged and skipped.
func (r *Runner) run(session *model.CrawlSession, entryURL string, types []model.DocumentType, forceRefresh bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	logger := r.logger.With("session_id", session.ID, "url", entryURL)

	if err := r.db.UpdateSessionStatus(ctx, session.ID, model.SessionProcessing, 0, 0, ""); err != nil {
		logger.Error("failed to mark session processing", "error", err)
		return
	}

	baseURL, err := normalize.BaseURL(entryURL)
	if err != nil {
		r.fail(ctx, logger, session.ID, err)
		return
	}

	var results []crawlResult

	if !forceRefresh {
		cached, cerr := r.db.FindDocuments(ctx, baseURL, types)
		if cerr != nil {
			logger.Warn("document cache lookup failed, crawling instead", "error", cerr)
		} else if len(cached) > 0 {
			logger.Info("serving session from document cache", "documents", len(cached))
			for _, doc := range cached {
				results = append(results, crawlResult{doc: doc})
			}
		}
	}

	if len(results) == 0 {
		results, err = r.crawl(ctx, logger, baseURL, entryURL, types)
		if err != nil {
			r.fail(ctx, logger, session.ID, err)
			return
		}
	}

	r.analyze(ctx, logger, results, forceRefresh)

	analyzed := 0
	for i := range results {
		doc := model.Document{
			SessionID:    session.ID,
			UserID:       session.UserID,
			URL:          results[i].doc.DocumentURL,
			DocumentType: results[i].doc.DocumentType,
			Title:        results[i].doc.Title,
			RawText:      results[i].doc.RawText,
			TextHash:     results[i].doc.TextHash,
			WordCount:    results[i].doc.WordCount,
		}
		if err := r.db.InsertSessionDocument(ctx, &doc); err != nil {
			logger.Error("failed to store session document copy", "error", err, "document_url", doc.URL)
			continue
		}

		if a := results[i].analysis; a != nil {
			copyRes := model.AnalysisResult{
				DocumentID:    doc.ID,
				UserID:        session.UserID,
				SummaryShort:  a.SummaryShort,
				SummaryLong:   a.SummaryLong,
				WordFrequency: a.WordFrequency,
				Measurements:  a.Measurements,
				Provider:      a.Provider,
			}
			if err := r.db.InsertSessionAnalysis(ctx, &copyRes); err != nil {
				logger.Error("failed to store session analysis copy", "error", err, "document_url", doc.URL)
				continue
			}
			analyzed++
		}
	}

	if err := r.db.UpdateSessionStatus(ctx, session.ID, model.SessionCompleted, len(results), analyzed, ""); err != nil {
		logger.Error("failed to mark session completed", "error", err)
		return
	}

	logger.Info("session completed", "documents", len(results), "analyzed", analyzed)
}

// fail moves a session to FAILED with a truncated error message.
func (r *Runner) fail(ctx context.Context, logger *slog.Logger, sessionID string, cause error) {
	logger.Warn("session failed", "error", cause)
	msg := model.TruncateError(cause.Error())
	if err := r.db.UpdateSessionStatus(ctx, sessionID, model.SessionFailed, 0, 0, msg); err != nil {
		logger.Error("failed to mark session failed", "error", err)
	}
}

// crawl fetches the entry page, classifies its links, and fetches,
// validates, and caches the candidate documents.
func (r *Runner) crawl(ctx context.Context, logger *slog.Logger, baseURL, entryURL string, types []model.DocumentType) ([]crawlResult, error) {
	page, err := r.fetcher.Fetch(ctx, entryURL)
	if err != nil {
		return nil, fmt.Errorf("entry page fetch failed: %w", err)
	}
	if !page.IsHTML() {
		return nil, fmt.Errorf("entry page is not HTML (%s)", page.ContentType)
	}

	parser, err := crawler.NewParser(entryURL)
	if err != nil {
		return nil, fmt.Errorf("entry page URL rejected: %w", err)
	}
	parsed, err := parser.Parse(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("entry page parse failed: %w", err)
	}

	classified := crawler.Classify(parsed.Links)

	wanted := make(map[model.DocumentType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var mu sync.Mutex
	var results []crawlResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fetchConcurrency)

	for docType, candidates := range classified {
		if !wanted[docType] {
			continue
		}
		if len(r.ignorePatterns) > 0 {
			candidates = r.filterIgnored(logger, candidates)
		}
		if len(candidates) > r.maxPerType {
			candidates = candidates[:r.maxPerType]
		}

		for _, candidate := range candidates {
			g.Go(func() error {
				doc, derr := r.fetchDocument(gctx, logger, baseURL, docType, candidate)
				if derr != nil {
					// Per-document failures never fail the session.
					logger.Debug("candidate skipped",
						"document_url", candidate.URL,
						"error", derr,
					)
					return nil
				}

				mu.Lock()
				results = append(results, crawlResult{doc: *doc})
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// filterIgnored drops candidates whose URL path matches an ignore glob.
func (r *Runner) filterIgnored(logger *slog.Logger, candidates []crawler.Candidate) []crawler.Candidate {
	kept := candidates[:0:0]
	for _, candidate := range candidates {
		parsed, err := url.Parse(candidate.URL)
		if err != nil {
			continue
		}
		ignored := false
		for _, pattern := range r.ignorePatterns {
			if ok, _ := path.Match(pattern, parsed.Path); ok {
				ignored = true
				break
			}
		}
		if ignored {
			logger.Debug("candidate ignored by pattern", "document_url", candidate.URL)
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// fetchDocument retrieves one candidate, extracts and validates its
// text, and stores it in the shared document cache. A cache write
// failure is logged and the in-memory document still flows to the
// session, so a read-only database degrades service rather than
// breaking it.
func (r *Runner) fetchDocument(ctx context.Context, logger *slog.Logger, baseURL string, docType model.DocumentType, candidate crawler.Candidate) (*model.CachedDocument, error) {
	page, err := r.fetcher.Fetch(ctx, candidate.URL)
	if err != nil {
		return nil, err
	}
	if !page.IsHTML() {
		return nil, fmt.Errorf("not an HTML page (%s)", page.ContentType)
	}

	extraction, err := crawler.ExtractText(page.HTML, candidate.URL)
	if err != nil {
		return nil, err
	}
	if !normalize.ValidText(extraction.Text) {
		return nil, fmt.Errorf("extracted text failed validation")
	}

	docURL, err := normalize.URL(candidate.URL)
	if err != nil {
		return nil, err
	}

	doc := &model.CachedDocument{
		BaseURL:      baseURL,
		DocumentURL:  docURL,
		DocumentType: docType,
		Title:        extraction.Title,
		RawText:      extraction.Text,
		TextHash:     normalize.Fingerprint(extraction.Text),
		WordCount:    normalize.WordCount(extraction.Text),
	}

	if err := r.db.StoreDocument(ctx, doc); err != nil {
		logger.Error("document cache write failed", "error", err, "document_url", docURL)
	}

	return doc, nil
}

// analyze fills each result's analysis, consulting the analysis cache
// first unless forceRefresh demands recomputation. Analysis failures
// leave the document unanalyzed; the session still completes.
func (r *Runner) analyze(ctx context.Context, logger *slog.Logger, results []crawlResult, forceRefresh bool) {
	for i := range results {
		doc := &results[i].doc

		if !forceRefresh {
			cached, err := r.db.FindAnalysis(ctx, doc.DocumentURL, doc.TextHash)
			if err != nil {
				logger.Warn("analysis cache lookup failed", "error", err, "document_url", doc.DocumentURL)
			} else if cached != nil {
				results[i].analysis = cached
				continue
			}
		}

		produced, err := r.analyzer.Analyze(ctx, doc.RawText, doc.DocumentURL, doc.DocumentType)
		if err != nil {
			logger.Warn("analysis failed", "error", err, "document_url", doc.DocumentURL)
			continue
		}

		analysis := &model.Analysis{
			DocumentID:    doc.ID,
			DocumentURL:   doc.DocumentURL,
			TextHash:      doc.TextHash,
			SummaryShort:  produced.SummaryShort,
			SummaryLong:   produced.SummaryLong,
			WordFrequency: produced.WordFrequency,
			Measurements:  produced.Measurements,
			Provider:      produced.Provider,
		}
		if err := r.db.StoreAnalysis(ctx, analysis, forceRefresh); err != nil {
			logger.Error("analysis cache write failed", "error", err, "document_url", doc.DocumentURL)
		}

		results[i].analysis = analysis
	}
}
