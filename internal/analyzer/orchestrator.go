package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/legalscan/legalscan/internal/model"
)

// Analysis is an orchestrated provider result labeled with the provider
// that produced it.
type Analysis struct {
	// Result is the parsed provider output.
	*Result

	// Provider names the provider that produced the result.
	Provider string
}

// Orchestrator runs the primary provider with bounded fallback to the
// secondary.
//
// Fallback rules: only transient primary failures (rate limited,
// unavailable, timeout) are eligible; the secondary must be configured;
// and a daily quota caps secondary use. Every path that does not end in
// a secondary success returns the ORIGINAL primary error, so callers
// always see why the primary failed rather than a cascade of fallback
// noise.
type Orchestrator struct {
	// primary is tried first for every analysis.
	primary Provider

	// secondary is the fallback provider. May be unconfigured.
	secondary Provider

	// quota gates secondary use.
	quota *FallbackQuota

	// logger receives fallback decision logging.
	logger *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over a primary and secondary
// provider sharing one fallback quota.
func NewOrchestrator(primary, secondary Provider, quota *FallbackQuota, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		primary:   primary,
		secondary: secondary,
		quota:     quota,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Analyze runs the analysis with fallback.
func (o *Orchestrator) Analyze(ctx context.Context, text, documentURL string, docType model.DocumentType) (*Analysis, error) {
	result, primaryErr := o.primary.Analyze(ctx, text, documentURL, docType)
	if primaryErr == nil {
		return &Analysis{Result: result, Provider: o.primary.Name()}, nil
	}

	var provErr *ProviderError
	if !errors.As(primaryErr, &provErr) || !provErr.Eligible() {
		return nil, primaryErr
	}

	if !o.secondary.Configured() {
		o.logger.Debug("fallback skipped: secondary not configured",
			"url", documentURL,
			"primary_error", provErr.Class,
		)
		return nil, primaryErr
	}

	if !o.quota.TryAcquire() {
		o.logger.Warn("fallback skipped: daily quota exhausted",
			"url", documentURL,
			"primary_error", provErr.Class,
		)
		return nil, primaryErr
	}

	o.logger.Info("falling back to secondary provider",
		"url", documentURL,
		"primary_error", provErr.Class,
		"fallbacks_used", o.quota.Used(),
	)

	result, secondaryErr := o.secondary.Analyze(ctx, text, documentURL, docType)
	if secondaryErr != nil {
		o.quota.Release()
		o.logger.Warn("secondary provider also failed",
			"url", documentURL,
			"secondary_error", secondaryErr,
		)
		return nil, primaryErr
	}

	return &Analysis{Result: result, Provider: o.secondary.Name()}, nil
}
