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

// DefaultGroqBaseURL is the production Groq API endpoint root.
const DefaultGroqBaseURL = "https://api.groq.com"

// DefaultGroqModel is the Groq-hosted model used for analysis.
const DefaultGroqModel = "meta-llama/llama-4-scout-17b-16e-instruct"

// groqSystemPrompt steers the model toward strict JSON output.
const groqSystemPrompt = "You are a legal document analyst. Always respond with valid JSON only, no markdown formatting."

// GroqProvider is the secondary analysis provider, speaking the
// OpenAI-compatible Groq chat completions API.
type GroqProvider struct {
	// client performs the HTTP requests.
	client *http.Client

	// apiKey authenticates requests. Empty means unconfigured.
	apiKey string

	// baseURL is the API endpoint root.
	baseURL string

	// model is the hosted model name.
	model string

	// logger receives per-call debug logging.
	logger *slog.Logger
}

// GroqOption configures a GroqProvider.
type GroqOption func(*GroqProvider)

// WithGroqBaseURL overrides the API endpoint root.
func WithGroqBaseURL(baseURL string) GroqOption {
	return func(g *GroqProvider) {
		g.baseURL = baseURL
	}
}

// WithGroqModel overrides the model name.
func WithGroqModel(model string) GroqOption {
	return func(g *GroqProvider) {
		g.model = model
	}
}

// WithGroqLogger sets a custom logger.
func WithGroqLogger(logger *slog.Logger) GroqOption {
	return func(g *GroqProvider) {
		g.logger = logger
	}
}

// NewGroqProvider creates the Groq provider. An empty API key produces
// an unconfigured provider; the orchestrator checks Configured before
// attempting fallback.
func NewGroqProvider(client *http.Client, apiKey string, opts ...GroqOption) *GroqProvider {
	g := &GroqProvider{
		client:  client,
		apiKey:  apiKey,
		baseURL: DefaultGroqBaseURL,
		model:   DefaultGroqModel,
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
func (g *GroqProvider) Name() string {
	return "groq"
}

// Configured implements Provider.
func (g *GroqProvider) Configured() bool {
	return g.apiKey != ""
}

// groqRequest is the chat completions request payload.
type groqRequest struct {
	Model          string              `json:"model"`
	Messages       []groqMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens"`
	ResponseFormat *groqResponseFormat `json:"response_format,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponseFormat struct {
	Type string `json:"type"`
}

// groqResponse is the chat completions response payload.
type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze implements Provider.
func (g *GroqProvider) Analyze(ctx context.Context, text, documentURL string, docType model.DocumentType) (*Result, error) {
	if !g.Configured() {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: fmt.Errorf("api key not configured")}
	}

	payload := groqRequest{
		Model: g.model,
		Messages: []groqMessage{
			{Role: "system", Content: groqSystemPrompt},
			{Role: "user", Content: buildPrompt(text, documentURL, docType)},
		},
		Temperature:    0.3,
		MaxTokens:      2000,
		ResponseFormat: &groqResponseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/openai/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

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
		g.logger.Debug("groq call failed",
			"status", resp.StatusCode,
			"url", documentURL,
		)
		return nil, &ProviderError{
			Provider:   g.Name(),
			Class:      classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	var parsed groqResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, &ProviderError{Provider: g.Name(), Class: ClassOther, Err: fmt.Errorf("empty response")}
	}

	result := ParseResponse(parsed.Choices[0].Message.Content, text)
	if result.Degraded {
		g.logger.Warn("groq returned non-JSON output, using degraded extraction", "url", documentURL)
	}
	return result, nil
}
