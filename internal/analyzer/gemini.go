package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/legalscan/legalscan/internal/model"
)

// DefaultGeminiBaseURL is the production Gemini API endpoint root.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// DefaultGeminiModel is the Gemini model used for analysis.
const DefaultGeminiModel = "gemini-flash-latest"

// GeminiProvider is the primary analysis provider, speaking the Gemini
// generateContent API.
type GeminiProvider struct {
	// client performs the HTTP requests.
	client *http.Client

	// apiKey authenticates requests. Empty means unconfigured.
	apiKey string

	// baseURL is the API endpoint root.
	baseURL string

	// model is the Gemini model name.
	model string

	// logger receives per-call debug logging.
	logger *slog.Logger
}

// GeminiOption configures a GeminiProvider.
type GeminiOption func(*GeminiProvider)

// WithGeminiBaseURL overrides the API endpoint root.
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(g *GeminiProvider) {
		g.baseURL = baseURL
	}
}

// WithGeminiModel overrides the model name.
func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiProvider) {
		g.model = model
	}
}

// WithGeminiLogger sets a custom logger.
func WithGeminiLogger(logger *slog.Logger) GeminiOption {
	return func(g *GeminiProvider) {
		g.logger = logger
	}
}

// NewGeminiProvider creates the Gemini provider. An empty API key
// produces an unconfigured provider whose Analyze always fails.
func NewGeminiProvider(client *http.Client, apiKey string, opts ...GeminiOption) *GeminiProvider {
	g := &GeminiProvider{
		client:  client,
		apiKey:  apiKey,
		baseURL: DefaultGeminiBaseURL,
		model:   DefaultGeminiModel,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	return g
}

// Name implements Provider.
func (g *GeminiProvider) Name() string {
	return "gemini"
}

// Configured implements Provider.
func (g *GeminiProvider) Configured() bool {
	return g.apiKey != ""
}

// geminiRequest is the generateContent request payload.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the generateContent response payload.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze implements Provider.
func (g *GeminiProvider) Analyze(ctx context.Context, text, documentURL string, docType model.DocumentType) (*Result, error) {
	if !g.Configured() {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: fmt.Errorf("api key not configured")}
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(text, documentURL, docType)}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: classifyTransportErr(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassUnavailable, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Debug("gemini call failed",
			"status", resp.StatusCode,
			"url", documentURL,
		)
		return nil, &ProviderError{
			Provider:   g.Name(),
			Class:      classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: err}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: fmt.Errorf("empty response")}
	}

	result := ParseResponse(parsed.Candidates[0].Content.Parts[0].Text, text)
	if result.Degraded {
		g.logger.Warn("gemini returned non-JSON output, using degraded extraction", "url", documentURL)
	}
	return result, nil
}
