package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-lounge/pkg/lounge"
)

const (
	// DefaultBaseURL is the public lounge API endpoint.
	DefaultBaseURL = "https://www.mk8dx-lounge.com/api"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// Config controls how the transport reaches the upstream API.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
	// MaxRetries bounds the automatic retries on connection errors and 5xx
	// responses. Negative disables retrying.
	MaxRetries int
	// HTTPClient overrides the built-in retrying client, mainly for tests.
	HTTPClient *http.Client
}

// Client issues GET requests against the fixed base endpoint and decodes
// the JSON responses into semi-structured values. It is stateless beyond
// the pooled connections it holds, and is owned exclusively by one client
// session.
type Client struct {
	baseURL   string
	token     string
	http      *http.Client
	logger    zerolog.Logger
	closeOnce sync.Once
}

// New constructs a transport from the given configuration, resolving
// defaults for anything unset.
func New(cfg *Config, logger zerolog.Logger) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newRetryingClient(cfg, logger)
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   cfg.APIToken,
		http:    httpClient,
		logger:  logger.With().Str("component", "Transport").Logger(),
	}, nil
}

// Get requests one endpoint and decodes its JSON body. A 404 maps to
// lounge.ErrNotFound; any other failure maps to lounge.TransportError with
// the cause preserved.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(endpoint, params), nil)
	if err != nil {
		return nil, &lounge.TransportError{Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("request_id", requestID).Str("endpoint", endpoint).Msg("Issuing API request.")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &lounge.TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", endpoint, lounge.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &lounge.TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", endpoint, strings.TrimSpace(string(snippet))),
		}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &lounge.DecodeError{Entity: "response", Reason: fmt.Sprintf("malformed JSON body: %v", err)}
	}
	return payload, nil
}

// Close releases idle connections. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.logger.Debug().Msg("Closing transport connections.")
		c.http.CloseIdleConnections()
	})
	return nil
}

func (c *Client) requestURL(endpoint string, params url.Values) string {
	u := c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// newRetryingClient builds an http.Client that retries connection errors
// and 5xx responses with backoff, logging intermediate failures at WARN.
func newRetryingClient(cfg *Config, logger zerolog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	if cfg.MaxRetries == 0 {
		retryClient.RetryMax = defaultMaxRetries
	} else if cfg.MaxRetries < 0 {
		retryClient.RetryMax = 0
	}
	retryClient.Logger = retryablehttp.LeveledLogger(leveledZerolog{logger.With().Str("component", "RetryingHTTP").Logger()})
	// Hand the final response back once retries are exhausted so Get can
	// map its status; the default handler discards it.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := retryClient.StandardClient()
	client.Timeout = cfg.Timeout
	if cfg.Timeout <= 0 {
		client.Timeout = defaultTimeout
	}
	return client
}

// leveledZerolog adapts zerolog to retryablehttp's leveled logger. Client
// ERROR is rewritten to WARN because failures are retried.
type leveledZerolog struct {
	logger zerolog.Logger
}

func (l leveledZerolog) Error(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

func (l leveledZerolog) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

func (l leveledZerolog) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledZerolog) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}
