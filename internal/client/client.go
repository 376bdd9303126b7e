// Package client talks to the historical-pattern analytics service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"histpattern/internal/logging"
	"histpattern/internal/ratelimit"
	"histpattern/pkg/model"
)

// Operation names, used for rate limiting, metrics and error messages
const (
	OpQuery   = "query"
	OpSuggest = "suggest"
	OpTickers = "tickers"
	OpETF     = "etf"
	OpPrices  = "prices"
	OpHealth  = "health"
)

// API is the analytics service surface used by the rest of the application
type API interface {
	Query(ctx context.Context, req model.QueryRequest) (*model.QueryResponse, error)
	Suggest(ctx context.Context, q string) ([]model.TickerSuggestion, error)
	Tickers(ctx context.Context) (*model.TickerListResponse, error)
	ETFConstituents(ctx context.Context, symbol string) (*model.ETFConstituents, error)
	Prices(ctx context.Context, ticker string) (*model.PriceHistory, error)
	Health(ctx context.Context) (*model.HealthStatus, error)
}

// Recorder receives per-call metrics
type Recorder interface {
	RecordAPICall(op string, status int, seconds float64)
	RecordRateLimited(op string)
}

// Options configures a Client
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RateLimits map[string]int // requests per minute by operation; <= 0 means unlimited
	Logger     zerolog.Logger
	Recorder   Recorder
}

// Client is the resty-backed API implementation
type Client struct {
	http     *resty.Client
	limiters *ratelimit.MultiLimiter
	logger   zerolog.Logger
	recorder Recorder
}

var _ API = (*Client)(nil)

// New creates a client for the service at opts.BaseURL
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		rc.SetHeader("X-API-Key", opts.APIKey)
	}

	limiters := ratelimit.NewMultiLimiter()
	for _, op := range []string{OpQuery, OpSuggest, OpTickers, OpETF, OpPrices, OpHealth} {
		limiters.Add(op, opts.RateLimits[op])
	}

	return &Client{
		http:     rc,
		limiters: limiters,
		logger:   opts.Logger,
		recorder: opts.Recorder,
	}
}

// Limiters exposes the per-operation limiters
func (c *Client) Limiters() *ratelimit.MultiLimiter {
	return c.limiters
}

// Query runs a pattern search
func (c *Client) Query(ctx context.Context, req model.QueryRequest) (*model.QueryResponse, error) {
	var out model.QueryResponse
	err := c.do(ctx, OpQuery, http.MethodPost, "/api/query", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(req)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Suggest returns autocomplete candidates for a partial ticker or name
func (c *Client) Suggest(ctx context.Context, q string) ([]model.TickerSuggestion, error) {
	var out model.SuggestResponse
	err := c.do(ctx, OpSuggest, http.MethodGet, "/api/tickers/suggest", func(r *resty.Request) {
		r.SetQueryParam("q", q)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Tickers returns the service's supported ticker groups
func (c *Client) Tickers(ctx context.Context) (*model.TickerListResponse, error) {
	var out model.TickerListResponse
	if err := c.do(ctx, OpTickers, http.MethodGet, "/api/tickers", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ETFConstituents returns the holdings of a sector ETF
func (c *Client) ETFConstituents(ctx context.Context, symbol string) (*model.ETFConstituents, error) {
	var out model.ETFConstituents
	err := c.do(ctx, OpETF, http.MethodGet, "/api/tickers/etf/{symbol}", func(r *resty.Request) {
		r.SetPathParam("symbol", strings.ToUpper(strings.TrimSpace(symbol)))
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Prices returns the daily price history for a ticker
func (c *Client) Prices(ctx context.Context, ticker string) (*model.PriceHistory, error) {
	var out model.PriceHistory
	err := c.do(ctx, OpPrices, http.MethodGet, "/api/prices/{ticker}", func(r *resty.Request) {
		r.SetPathParam("ticker", strings.ToUpper(strings.TrimSpace(ticker)))
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks service liveness
func (c *Client) Health(ctx context.Context) (*model.HealthStatus, error) {
	var out model.HealthStatus
	if err := c.do(ctx, OpHealth, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do runs one throttled request and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, op, method, path string, prepare func(*resty.Request), out any) error {
	if err := c.limiters.Wait(ctx, op); err != nil {
		return &APIError{Op: op, Kind: KindNetwork, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req := c.http.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		c.finish(ctx, op, method, path, 0, elapsed, err)
		return &APIError{Op: op, Kind: KindNetwork, Err: err}
	}

	status := resp.StatusCode()
	if status == http.StatusTooManyRequests {
		c.limiters.SignalRateLimited(op, retryAfter(resp.Header().Get("Retry-After")))
		if c.recorder != nil {
			c.recorder.RecordRateLimited(op)
		}
	}

	if resp.IsError() || status < 200 || status > 299 {
		apiErr := &APIError{
			Op:     op,
			Kind:   KindService,
			Status: status,
			Detail: parseDetail(resp.Body()),
		}
		c.finish(ctx, op, method, path, status, elapsed, apiErr)
		return apiErr
	}

	c.limiters.ResetBackoff(op)

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		decodeErr := &APIError{Op: op, Kind: KindService, Status: status, Err: fmt.Errorf("decoding response: %w", err)}
		c.finish(ctx, op, method, path, status, elapsed, decodeErr)
		return decodeErr
	}

	c.finish(ctx, op, method, path, status, elapsed, nil)
	return nil
}

// finish logs through the caller's context logger when one is attached
func (c *Client) finish(ctx context.Context, op, method, path string, status int, elapsed time.Duration, err error) {
	logging.LogAPICall(logging.FromContext(ctx, c.logger), method, path, status, elapsed, err)
	if c.recorder != nil {
		c.recorder.RecordAPICall(op, status, elapsed.Seconds())
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date
func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// AsAPIError unwraps err into an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
