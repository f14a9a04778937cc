// pkg/httpclient/httpclient.go

package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"

	cerr "github.com/cockroachdb/errors"
)

// maxErrorBody bounds how much of a failed response is kept for errors.
const maxErrorBody = 4 << 10

var (
	mu            sync.RWMutex
	defaultClient *http.Client
)

// DefaultClient returns a preconfigured HTTP client used across scribe
func DefaultClient() *http.Client {
	mu.RLock()
	c := defaultClient
	mu.RUnlock()
	if c != nil {
		return c
	}

	mu.Lock()
	defer mu.Unlock()
	if defaultClient == nil {
		defaultClient, _ = NewClient(DefaultConfig())
	}
	return defaultClient
}

// SetDefaultClient allows replacing the default client for testing purposes
func SetDefaultClient(client *http.Client) {
	mu.Lock()
	defaultClient = client
	mu.Unlock()
}

// NewClient builds an http.Client from cfg. A nil cfg uses DefaultConfig.
func NewClient(cfg *Config) (*http.Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeout or pool settings: %w", err)
	}

	pool := cfg.PoolConfig
	if pool == nil {
		pool = DefaultConfig().PoolConfig
	}

	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: getTLSConfig(cfg.TLSConfig),
		DialContext: (&net.Dialer{
			Timeout:   pool.DialTimeout,
			KeepAlive: pool.KeepAlive,
		}).DialContext,
		MaxIdleConns:        pool.MaxIdleConns,
		MaxIdleConnsPerHost: pool.MaxIdleConnsPerHost,
		IdleConnTimeout:     pool.IdleConnTimeout,
	}

	var rt http.RoundTripper = transport
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{next: transport, agent: cfg.UserAgent}
	}

	return &http.Client{Timeout: cfg.Timeout, Transport: rt}, nil
}

// getTLSConfig returns TLS configuration with proper security settings.
// SCRIBE_INSECURE_TLS=true disables verification for local proxies.
func getTLSConfig(c *TLSConfig) *tls.Config {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if c != nil {
		if c.MinVersion != 0 {
			cfg.MinVersion = c.MinVersion
		}
		cfg.InsecureSkipVerify = c.InsecureSkipVerify
	}
	if os.Getenv("SCRIBE_INSECURE_TLS") == "true" {
		cfg.InsecureSkipVerify = true
	}
	return cfg
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(clone)
}

// StatusError is returned by PostJSON for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// PostJSON sends in as a JSON body to url and decodes a 2xx response into
// out. Non-2xx responses yield a *StatusError carrying a bounded body.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, in, out any) error {
	if client == nil {
		client = DefaultClient()
	}

	body, err := json.Marshal(in)
	if err != nil {
		return cerr.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return cerr.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return cerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return cerr.Wrap(err, "decode response")
	}
	return nil
}
