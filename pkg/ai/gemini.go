package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, client *http.Client, cfg Config, apiKey string) (*GeminiClient, error) {
	cfg = cfg.WithDefaults()

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}

	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, NewPermanentError(err)
	}
	return &GeminiClient{cli: cli, model: cfg.Model}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req commit.CompletionRequest) (string, error) {
	ctx, span := telemetry.Start(ctx, "ai.Complete",
		attribute.String("ai.provider", ProviderGemini),
		attribute.String("ai.model", g.model))
	defer span.End()

	temperature := req.Temperature
	gc := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		gc.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		gc,
	)
	if err != nil {
		span.RecordError(err)
		return "", geminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", commit.ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	otelzap.Ctx(ctx).Debug("Completion received",
		zap.String("provider", ProviderGemini),
		zap.Int("candidates", len(resp.Candidates)))
	if sb.Len() == 0 {
		return "", commit.ErrEmptyCompletion
	}
	return sb.String(), nil
}

// geminiError marks SDK client errors other than rate limiting as permanent.
func geminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code = apiErrPtr.Code
	}
	wrapped := providerError(ProviderGemini, err)
	if isPermanentStatus(code) {
		return NewPermanentError(wrapped)
	}
	return wrapped
}
