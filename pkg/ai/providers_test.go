package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
)

func sampleRequest() commit.CompletionRequest {
	return commit.CompletionRequest{
		System:      commit.SystemInstruction,
		Prompt:      "Changes:\n- added: Added a.go",
		MaxTokens:   commit.DefaultMaxTokens,
		Temperature: commit.DefaultTemperature,
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	ctx := setupLogger(t)

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"feat: add a"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.Client(), Config{Provider: ProviderOpenAI, BaseURL: srv.URL + "/v1/"}, "sk-test")
	out, err := c.Complete(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "feat: add a", out)

	assert.Equal(t, "gpt-3.5-turbo", got["model"])
	assert.EqualValues(t, commit.DefaultMaxTokens, got["max_tokens"])
	assert.InDelta(t, 0.3, got["temperature"], 1e-6)
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, commit.SystemInstruction, msgs[0].(map[string]any)["content"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenAIClientNoChoices(t *testing.T) {
	ctx := setupLogger(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(srv.Client(), Config{BaseURL: srv.URL}, "k")
	_, err := c.Complete(ctx, sampleRequest())
	assert.ErrorIs(t, err, commit.ErrEmptyCompletion)
}

func TestAzureOpenAIClient(t *testing.T) {
	ctx := setupLogger(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/my-gpt/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-02-15-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "azure-key", r.Header.Get("api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"fix: patch"}}]}`))
	}))
	defer srv.Close()

	c, err := NewAzureOpenAIClient(srv.Client(), Config{
		Provider:        ProviderAzureOpenAI,
		AzureEndpoint:   srv.URL,
		AzureDeployment: "my-gpt",
	}, "azure-key")
	require.NoError(t, err)

	out, err := c.Complete(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "fix: patch", out)

	_, err = NewAzureOpenAIClient(srv.Client(), Config{Provider: ProviderAzureOpenAI}, "k")
	assert.Error(t, err)
}

func TestAnthropicClientComplete(t *testing.T) {
	ctx := setupLogger(t)

	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ant-key", r.Header.Get("x-api-key"))
		assert.Equal(t, AnthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"docs: "},{"type":"text","text":"update readme"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient(srv.Client(), Config{Provider: ProviderAnthropic, BaseURL: srv.URL + "/v1"}, "ant-key")
	out, err := c.Complete(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "docs: update readme", out)

	assert.Equal(t, "claude-3-sonnet-20240229", got.Model)
	assert.Equal(t, commit.SystemInstruction, got.System)
	assert.Equal(t, commit.DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestAnthropicClientDefaultsMaxTokens(t *testing.T) {
	ctx := setupLogger(t)

	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	req := sampleRequest()
	req.MaxTokens = 0
	_, err := NewAnthropicClient(srv.Client(), Config{BaseURL: srv.URL}, "k").Complete(ctx, req)
	assert.ErrorIs(t, err, commit.ErrEmptyCompletion)
	assert.Equal(t, commit.DefaultMaxTokens, got.MaxTokens)
}

func TestProviderErrorsClassified(t *testing.T) {
	ctx := setupLogger(t)

	tests := []struct {
		status    int
		permanent bool
	}{
		{http.StatusUnauthorized, true},
		{http.StatusBadRequest, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusServiceUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"invalid request"}}`, tt.status)
			}))
			defer srv.Close()

			_, err := NewOpenAIClient(srv.Client(), Config{BaseURL: srv.URL}, "k").Complete(ctx, sampleRequest())
			require.Error(t, err)
			assert.Equal(t, tt.permanent, IsPermanent(err))
			assert.Equal(t, scribe_err.CategoryNetwork, scribe_err.GetCategory(err))
		})
	}
}

func TestRetry(t *testing.T) {
	ctx := setupLogger(t)
	transient := errors.New("connection reset")

	t.Run("succeeds after transient failure", func(t *testing.T) {
		var calls int32
		gen := commit.GeneratorFunc(func(context.Context, commit.CompletionRequest) (string, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return "", transient
			}
			return "feat: ok", nil
		})
		out, err := Retry(gen, 3, time.Millisecond).Complete(ctx, sampleRequest())
		require.NoError(t, err)
		assert.Equal(t, "feat: ok", out)
		assert.EqualValues(t, 2, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var calls int32
		gen := commit.GeneratorFunc(func(context.Context, commit.CompletionRequest) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "", transient
		})
		_, err := Retry(gen, 3, time.Millisecond).Complete(ctx, sampleRequest())
		assert.ErrorIs(t, err, transient)
		assert.EqualValues(t, 3, calls)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		var calls int32
		gen := commit.GeneratorFunc(func(context.Context, commit.CompletionRequest) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "", NewPermanentError(errors.New("bad key"))
		})
		_, err := Retry(gen, 5, time.Millisecond).Complete(ctx, sampleRequest())
		assert.True(t, IsPermanent(err))
		assert.EqualValues(t, 1, calls)
	})

	t.Run("cancelled context stops backoff", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		gen := commit.GeneratorFunc(func(context.Context, commit.CompletionRequest) (string, error) {
			cancel()
			return "", transient
		})
		_, err := Retry(gen, 5, time.Hour).Complete(cctx, sampleRequest())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("clamps attempts", func(t *testing.T) {
		var calls int32
		gen := commit.GeneratorFunc(func(context.Context, commit.CompletionRequest) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "", transient
		})
		_, err := Retry(gen, 0, 0).Complete(ctx, sampleRequest())
		assert.Error(t, err)
		assert.EqualValues(t, 1, calls)
	})
}

func TestNewGenerator(t *testing.T) {
	ctx := setupLogger(t)

	_, err := NewGenerator(ctx, Config{Provider: ProviderOpenAI}, "")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = NewGenerator(ctx, Config{Provider: "cohere"}, "k")
	require.Error(t, err)
	assert.Equal(t, scribe_err.CategoryConfig, scribe_err.GetCategory(err))

	_, err = NewGenerator(ctx, Config{Provider: ProviderAzureOpenAI}, "k")
	assert.Error(t, err)

	for _, p := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		gen, err := NewGenerator(ctx, Config{Provider: p}, "k")
		require.NoError(t, err, p)
		assert.NotNil(t, gen, p)
	}
}

func TestGeneratorDrivesSynthesizer(t *testing.T) {
	ctx := setupLogger(t)
	records := []changes.Record{changes.NewRecord("parser/lexer.go", changes.KindModified)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, commit.BuildPrompt(records), req.Messages[1].Content)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  refactor(go): split parser  "}}]}`))
	}))
	defer srv.Close()

	gen, err := NewGenerator(ctx, Config{Provider: ProviderOpenAI, BaseURL: srv.URL}, "k")
	require.NoError(t, err)

	msg, source := commit.NewSynthesizer(gen).GenerateWithSource(ctx, records)
	assert.Equal(t, "refactor(go): split parser", msg)
	assert.Equal(t, commit.SourceAI, source)
}

func TestGeneratorFailureFallsBackToHeuristic(t *testing.T) {
	ctx := setupLogger(t)
	records := []changes.Record{changes.NewRecord("parser/lexer.go", changes.KindModified)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	gen, err := NewGenerator(ctx, Config{Provider: ProviderOpenAI, BaseURL: srv.URL}, "k")
	require.NoError(t, err)

	msg, source := commit.NewSynthesizer(gen).GenerateWithSource(ctx, records)
	assert.Equal(t, "fix(go): update lexer", msg)
	assert.Equal(t, commit.SourceHeuristic, source)
}

func TestFromConfigManager(t *testing.T) {
	ctx := setupLogger(t)
	clearKeyEnv(t)

	cm := NewConfigManager(t.TempDir() + "/ai-config.yaml")
	_, err := FromConfigManager(ctx, cm)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	t.Setenv("OPENAI_API_KEY", "sk-env")
	gen, err := FromConfigManager(ctx, cm)
	require.NoError(t, err)
	assert.NotNil(t, gen)
}

func TestGeminiClientComplete(t *testing.T) {
	ctx := setupLogger(t)

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"chore: "},{"text":"bump deps"}]}}]}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(ctx, srv.Client(), Config{Provider: ProviderGemini, BaseURL: srv.URL}, "g-key")
	require.NoError(t, err)

	out, err := c.Complete(ctx, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "chore: bump deps", out)
	assert.Contains(t, got, "systemInstruction")
	assert.Contains(t, got, "generationConfig")
}
