// pkg/httpclient/httpclient_test.go
package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "nil config uses default", config: nil},
		{name: "invalid timeout", config: &Config{Timeout: -1 * time.Second}, wantErr: true},
		{name: "without pool config", config: &Config{Timeout: time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timeout")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.PoolConfig.DialTimeout = -time.Second
	var cfgErr *ConfigError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "PoolConfig.DialTimeout", cfgErr.Field)
}

func TestInsecureTLSFromEnv(t *testing.T) {
	t.Setenv("SCRIBE_INSECURE_TLS", "true")
	assert.True(t, getTLSConfig(nil).InsecureSkipVerify)

	t.Setenv("SCRIBE_INSECURE_TLS", "")
	assert.False(t, getTLSConfig(&TLSConfig{}).InsecureSkipVerify)
}

func TestDefaultClientOverride(t *testing.T) {
	orig := DefaultClient()
	t.Cleanup(func() { SetDefaultClient(orig) })

	custom := &http.Client{Timeout: time.Second}
	SetDefaultClient(custom)
	assert.Same(t, custom, DefaultClient())
}

func TestPostJSON(t *testing.T) {
	var gotUA, gotAuth, gotType string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"feat: add parser"}`))
	}))
	defer srv.Close()

	client, err := NewClient(DefaultConfig())
	require.NoError(t, err)

	var out struct {
		Message string `json:"message"`
	}
	err = PostJSON(context.Background(), client, srv.URL,
		map[string]string{"Authorization": "Bearer k"},
		map[string]string{"model": "m"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "feat: add parser", out.Message)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "m", gotBody["model"])
}

func TestPostJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := PostJSON(context.Background(), srv.Client(), srv.URL, nil, map[string]string{}, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "invalid api key")
}

func TestPostJSONContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client gives up; otherwise srv.Close blocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := PostJSON(ctx, srv.Client(), srv.URL, nil, map[string]string{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPostJSONBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out map[string]any
	err := PostJSON(context.Background(), srv.Client(), srv.URL, nil, map[string]string{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
