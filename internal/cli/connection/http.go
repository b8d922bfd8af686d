package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/securenotes-go/internal/telemetry/logger"
	"github.com/yndnr/securenotes-go/internal/telemetry/metric"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a rejection body is kept.
const maxErrorBody = 64 << 10

// TokenStore is the credential source consulted at send time.
type TokenStore interface {
	Get() (string, bool)
	Clear()
}

// Options configures an HTTPClient. Zero values select defaults.
type Options struct {
	Timeout   time.Duration
	TLSConfig *tls.Config
	UserAgent string
	Notifier  *Notifier
	Metrics   *metric.Registry
	Logger    logger.Logger
	// Transport overrides the HTTP transport; TLSConfig is then ignored.
	Transport http.RoundTripper
}

// HTTPClient dispatches requests to the notes API.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	tokens    TokenStore
	notifier  *Notifier
	metrics   *metric.Registry
	logger    logger.Logger
	userAgent string
}

// NormalizeBaseURL adds http:// when server has no scheme and strips
// trailing slashes. A foreign scheme is left alone for CheckBaseURL to
// reject.
func NormalizeBaseURL(server string) string {
	baseURL := strings.TrimSpace(server)
	if baseURL != "" && !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// CheckBaseURL reports whether server, once normalized, is an http or
// https URL with a host.
func CheckBaseURL(server string) error {
	u, err := url.Parse(NormalizeBaseURL(server))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBadBaseURL, server)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q: scheme must be http or https", ErrBadBaseURL, server)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q: missing host", ErrBadBaseURL, server)
	}
	return nil
}

// NewHTTPClient creates a client for server. tokens may be nil, in which
// case requests are sent without credentials.
func NewHTTPClient(server string, tokens TokenStore, opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := opts.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if opts.TLSConfig != nil {
			t.TLSClientConfig = opts.TLSConfig
		}
		transport = t
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = &Notifier{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "securenotes-cli"
	}

	return &HTTPClient{
		baseURL:   NormalizeBaseURL(server),
		client:    &http.Client{Timeout: timeout, Transport: transport},
		tokens:    tokens,
		notifier:  notifier,
		metrics:   opts.Metrics,
		logger:    log,
		userAgent: ua,
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *HTTPClient) Timeout() time.Duration {
	return c.client.Timeout
}

// Notifier returns the unauthorized-response notifier.
func (c *HTTPClient) Notifier() *Notifier {
	return c.notifier
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request.
//
// A 2xx response is returned as-is and the caller must close its body.
// Any other status yields a *StatusError with the body already consumed;
// a 401 first clears the token store and fires the notifier. A request
// that never got a response yields a *TransportError.
func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if !logger.HasLogger(ctx) {
		ctx = logger.WithLogger(ctx, c.logger)
	}
	reqID := ulid.Make().String()
	ctx = logger.WithRequestID(ctx, reqID)
	log := logger.L(ctx).With("component", "dispatcher", "method", method, "path", path)

	c.addHeaders(req, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		kind := classifyTransport(err)
		c.metrics.ObserveTransportError(method, kind, elapsed)
		log.Debug("request failed", "kind", kind, "error", err, "duration", elapsed)
		return nil, &TransportError{Method: method, Path: path, Kind: kind, Err: err}
	}

	c.metrics.ObserveResponse(method, resp.StatusCode, elapsed)
	log.Debug("response received", "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    extractMessage(data),
		Body:       data,
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.rejectCredential(log)
	}
	return nil, statusErr
}

// rejectCredential clears the session before anyone is told about it, so
// the notifier always observes an empty store.
func (c *HTTPClient) rejectCredential(log logger.Logger) {
	c.metrics.ObserveUnauthorized()
	if c.tokens != nil {
		c.tokens.Clear()
	}
	fired := c.notifier.Fire()
	log.Info("credential rejected, session cleared", "notified", fired)
}

// addHeaders attaches the credential and common headers. The credential is
// read here, at send time, never when the request is first described.
func (c *HTTPClient) addHeaders(req *http.Request, reqID string) {
	if c.tokens != nil {
		if tok, ok := c.tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)
}

// ParseResponse decodes a 2xx JSON response into target and closes the
// body. An empty body leaves target untouched.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
