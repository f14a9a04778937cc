package ai

import (
	"context"
	"net/http"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
)

const (
	// DefaultMaxAttempts bounds provider calls per message.
	DefaultMaxAttempts = 2
	// DefaultRetryDelay is the first backoff delay.
	DefaultRetryDelay = 500 * time.Millisecond
)

// NewGenerator builds the generator for cfg.Provider, wrapped in Retry.
// An empty apiKey yields ErrNoAPIKey so callers can fall back to
// heuristics.
func NewGenerator(ctx context.Context, cfg Config, apiKey string) (commit.Generator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	var gen commit.Generator
	switch cfg.Provider {
	case ProviderOpenAI:
		gen = NewOpenAIClient(client, cfg, apiKey)
	case ProviderAzureOpenAI:
		azure, err := NewAzureOpenAIClient(client, cfg, apiKey)
		if err != nil {
			return nil, scribe_err.NewConfigError("invalid Azure OpenAI configuration", err)
		}
		gen = azure
	case ProviderAnthropic:
		gen = NewAnthropicClient(client, cfg, apiKey)
	case ProviderGemini:
		gemini, err := NewGeminiClient(ctx, client, cfg, apiKey)
		if err != nil {
			return nil, scribe_err.NewConfigError("failed to create Gemini client", err)
		}
		gen = gemini
	default:
		return nil, scribe_err.NewValidationError("unsupported AI provider: "+cfg.Provider,
			"Use one of: openai, azure-openai, anthropic, gemini")
	}

	otelzap.Ctx(ctx).Debug("AI generator ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))
	return Retry(gen, DefaultMaxAttempts, DefaultRetryDelay), nil
}

// FromConfigManager resolves the API key and builds a generator. A missing
// key returns ErrNoAPIKey.
func FromConfigManager(ctx context.Context, cm *ConfigManager) (commit.Generator, error) {
	key, err := cm.GetAPIKey(ctx)
	if err != nil {
		return nil, err
	}
	return NewGenerator(ctx, *cm.GetConfig(), key)
}

func newHTTPClient(cfg Config) (*http.Client, error) {
	hc := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		hc.Timeout = time.Duration(cfg.Timeout) * time.Second
	}
	client, err := httpclient.NewClient(hc)
	if err != nil {
		return nil, cerr.Wrap(err, "create HTTP client")
	}
	return client, nil
}
