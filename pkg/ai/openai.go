package ai

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// OpenAIClient calls the chat completions API of OpenAI or of an Azure
// OpenAI deployment.
type OpenAIClient struct {
	http     *http.Client
	provider string
	url      string
	headers  map[string]string
	model    string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient targets {base_url}/chat/completions with bearer auth.
func NewOpenAIClient(client *http.Client, cfg Config, apiKey string) *OpenAIClient {
	cfg = cfg.WithDefaults()
	return &OpenAIClient{
		http:     client,
		provider: ProviderOpenAI,
		url:      strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		headers:  map[string]string{"Authorization": "Bearer " + apiKey},
		model:    cfg.Model,
	}
}

// NewAzureOpenAIClient targets the deployment's chat completions endpoint
// with api-key auth. The deployment selects the model.
func NewAzureOpenAIClient(client *http.Client, cfg Config, apiKey string) (*OpenAIClient, error) {
	cfg = cfg.WithDefaults()
	if cfg.AzureEndpoint == "" || cfg.AzureDeployment == "" {
		return nil, cerr.New("azure-openai requires azure_endpoint and azure_deployment")
	}
	endpoint := strings.TrimRight(cfg.AzureEndpoint, "/") +
		"/openai/deployments/" + url.PathEscape(cfg.AzureDeployment) +
		"/chat/completions?api-version=" + url.QueryEscape(cfg.AzureAPIVersion)
	return &OpenAIClient{
		http:     client,
		provider: ProviderAzureOpenAI,
		url:      endpoint,
		headers:  map[string]string{"api-key": apiKey},
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, req commit.CompletionRequest) (string, error) {
	ctx, span := telemetry.Start(ctx, "ai.Complete",
		attribute.String("ai.provider", c.provider),
		attribute.String("ai.model", c.model))
	defer span.End()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	var resp chatResponse
	if err := httpclient.PostJSON(ctx, c.http, c.url, c.headers, body, &resp); err != nil {
		span.RecordError(err)
		return "", providerError(c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", commit.ErrEmptyCompletion
	}

	otelzap.Ctx(ctx).Debug("Completion received",
		zap.String("provider", c.provider),
		zap.Int("choices", len(resp.Choices)))
	return resp.Choices[0].Message.Content, nil
}
