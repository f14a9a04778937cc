package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// AnthropicVersion is sent as the anthropic-version header.
const AnthropicVersion = "2023-06-01"

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	http    *http.Client
	url     string
	headers map[string]string
	model   string
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Temperature float32       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func NewAnthropicClient(client *http.Client, cfg Config, apiKey string) *AnthropicClient {
	cfg = cfg.WithDefaults()
	return &AnthropicClient{
		http: client,
		url:  strings.TrimRight(cfg.BaseURL, "/") + "/messages",
		headers: map[string]string{
			"x-api-key":         apiKey,
			"anthropic-version": AnthropicVersion,
		},
		model: cfg.Model,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req commit.CompletionRequest) (string, error) {
	ctx, span := telemetry.Start(ctx, "ai.Complete",
		attribute.String("ai.provider", ProviderAnthropic),
		attribute.String("ai.model", c.model))
	defer span.End()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = commit.DefaultMaxTokens
	}

	body := anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
	}

	var resp anthropicResponse
	if err := httpclient.PostJSON(ctx, c.http, c.url, c.headers, body, &resp); err != nil {
		span.RecordError(err)
		return "", providerError(ProviderAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	otelzap.Ctx(ctx).Debug("Completion received",
		zap.String("provider", ProviderAnthropic),
		zap.String("stop_reason", resp.StopReason))
	if sb.Len() == 0 {
		return "", commit.ErrEmptyCompletion
	}
	return sb.String(), nil
}
