package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhc-marketplace/storefront/pkg/config"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/metrics"
	"github.com/nhc-marketplace/storefront/pkg/types"
)

const maxErrorBody = 4 << 10

// TokenSource yields the bearer token for the current session, or "" when anonymous.
type TokenSource func(ctx context.Context) string

// Options configures a Client.
type Options struct {
	Config     config.APIConfig
	HTTPClient *http.Client
	Metrics    *metrics.APIMetrics
	Logger     *logger.Logger
}

// Client calls the marketplace REST API. A Client is safe for concurrent use;
// WithToken returns a copy bound to one session's credentials.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	token     TokenSource
	metrics   *metrics.APIMetrics
	logg      *logger.Logger
}

// New validates the configuration and builds an anonymous client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.Config.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Config.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{
		http:      httpClient,
		baseURL:   base,
		userAgent: opts.Config.UserAgent,
		metrics:   opts.Metrics,
		logg:      logg,
	}, nil
}

// WithToken returns a client that authenticates every call with the token source.
func (c *Client) WithToken(source TokenSource) *Client {
	clone := *c
	clone.token = source
	return &clone
}

// call performs one request and decodes a {success,message,data} envelope into T.
func call[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (T, error) {
	var env types.Envelope[T]
	if err := c.do(ctx, op, method, path, query, body, &env); err != nil {
		var zero T
		return zero, err
	}
	if !env.Success {
		var zero T
		return zero, c.business(ctx, op, env.Message)
	}
	return env.Data, nil
}

// callPaged is call for endpoints that return a pagination block.
func callPaged[T any](ctx context.Context, c *Client, op, path string, query url.Values) (types.Page[T], error) {
	var env types.PagedEnvelope[T]
	if err := c.do(ctx, op, http.MethodGet, path, query, nil, &env); err != nil {
		return types.Page[T]{}, err
	}
	if !env.Success {
		return types.Page[T]{}, c.business(ctx, op, env.Message)
	}
	items := env.Data
	if items == nil {
		items = []T{}
	}
	return types.Page[T]{Items: items, Pagination: env.Pagination}, nil
}

func (c *Client) business(ctx context.Context, op, message string) error {
	c.metrics.IncFailure(op, string(pkgerrors.CodeBusiness))
	c.logg.Info(c.logg.WithFields(ctx, map[string]any{"operation": op, "message": message}), "api.business_error")
	return pkgerrors.New(pkgerrors.CodeBusiness, message).WithDetails(map[string]any{"operation": op})
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	started := time.Now()
	err := c.roundTrip(ctx, method, path, query, body, out)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.metrics.IncFailure(op, string(pkgerrors.CodeOf(err)))
		if ctx.Err() == nil {
			c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
				"operation": op,
				"method":    method,
				"path":      path,
				"error":     err.Error(),
			}), "api.request_failed")
		}
	}
	c.metrics.Observe(op, outcome, time.Since(started))
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s %s", method, path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(method, path, resp.StatusCode, snippet)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.New(pkgerrors.CodeTransport, fmt.Sprintf("%s %s: empty response", method, path))
		}
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s %s: decode response", method, path))
	}
	return nil
}

func statusError(method, path string, status int, body []byte) error {
	details := map[string]any{"status": status}
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) == nil && env.Message != "" {
		details["message"] = env.Message
	}
	msg := fmt.Sprintf("%s %s: status %d", method, path, status)
	code := pkgerrors.CodeTransport
	switch status {
	case http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	}
	return pkgerrors.New(code, msg).WithDetails(details)
}
