// Package session owns the lifecycle of the main query and the price chart.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"histpattern/internal/client"
	"histpattern/internal/logging"
	"histpattern/internal/presenter"
	"histpattern/internal/query"
	"histpattern/pkg/model"
)

// ErrSuperseded is returned to a submission replaced by a newer one
var ErrSuperseded = errors.New("query superseded by a newer submission")

// API is the subset of the analytics client a session needs
type API interface {
	Query(ctx context.Context, req model.QueryRequest) (*model.QueryResponse, error)
	Prices(ctx context.Context, ticker string) (*model.PriceHistory, error)
}

// Recorder receives query outcomes
type Recorder interface {
	RecordSuperseded()
	RecordQuery(outcome string)
}

// Status of the displayed results
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Snapshot is an immutable picture of the displayed results.
// Response is nil unless Status is ready.
type Snapshot struct {
	ID         string
	Seq        uint64
	Request    model.QueryRequest
	Status     Status
	Response   *model.QueryResponse
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Message is the user-facing text for a failed snapshot
func (s *Snapshot) Message() string {
	if s == nil || s.Err == nil {
		return ""
	}
	if apiErr, ok := client.AsAPIError(s.Err); ok {
		return apiErr.UserMessage()
	}
	return s.Err.Error()
}

// ChartView is the price chart or the error that replaced it.
// Chart errors never affect the main results.
type ChartView struct {
	Ticker  string
	Chart   presenter.Chart
	Err     error
	Message string
}

// Options configures a Coordinator
type Options struct {
	ChartWindow int
	Logger      zerolog.Logger
	Recorder    Recorder
}

// Coordinator runs submissions so that only the latest one is displayed
type Coordinator struct {
	api         API
	logger      zerolog.Logger
	recorder    Recorder
	chartWindow int

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc

	snapshot atomic.Pointer[Snapshot]
}

// New creates an idle coordinator
func New(api API, opts Options) *Coordinator {
	c := &Coordinator{
		api:         api,
		logger:      opts.Logger,
		recorder:    opts.Recorder,
		chartWindow: opts.ChartWindow,
	}
	c.snapshot.Store(&Snapshot{Status: StatusIdle})
	return c
}

// Snapshot returns the displayed state
func (c *Coordinator) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Submit normalizes in and runs it. Validation errors leave the displayed
// state untouched and never reach the network.
func (c *Coordinator) Submit(ctx context.Context, in query.Input) (*Snapshot, error) {
	req, err := query.Normalize(in)
	if err != nil {
		c.record("invalid")
		return nil, err
	}
	return c.SubmitRequest(ctx, req)
}

// SubmitRequest runs an already normalized request. Starting it cancels the
// previous submission and clears the displayed results.
func (c *Coordinator) SubmitRequest(ctx context.Context, req model.QueryRequest) (*Snapshot, error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	qctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	loading := &Snapshot{
		ID:        uuid.NewString(),
		Seq:       seq,
		Request:   req,
		Status:    StatusLoading,
		StartedAt: time.Now(),
	}
	c.snapshot.Store(loading)
	c.mu.Unlock()

	logger := logging.WithTicker(c.logger, req.Ticker).With().Str("submission", loading.ID).Logger()
	qctx = logging.WithLogger(qctx, logger)
	logger.Debug().
		Str("condition_type", string(req.ConditionType)).
		Str("operator", string(req.Operator)).
		Float64("threshold", req.Threshold).
		Msg("Submitting query")

	resp, err := c.api.Query(qctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	cancel()

	if seq != c.seq {
		logger.Debug().Msg("Query superseded")
		if c.recorder != nil {
			c.recorder.RecordSuperseded()
		}
		return nil, ErrSuperseded
	}
	c.cancel = nil

	done := *loading
	done.FinishedAt = time.Now()
	if err != nil {
		done.Status = StatusFailed
		done.Err = err
		c.snapshot.Store(&done)
		logger.Warn().Err(err).Msg("Query failed")
		c.record("failed")
		return &done, err
	}

	done.Status = StatusReady
	done.Response = resp
	c.snapshot.Store(&done)
	logger.Info().
		Int("instances", len(resp.Instances)).
		Dur("duration", done.FinishedAt.Sub(done.StartedAt)).
		Msg("Query completed")
	c.record("ok")
	return &done, nil
}

// Clear cancels any running submission and returns to idle
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.snapshot.Store(&Snapshot{Status: StatusIdle, Seq: c.seq})
}

// Chart loads the price chart for ticker, marking the displayed result's
// matched dates when the tickers agree.
func (c *Coordinator) Chart(ctx context.Context, ticker string) ChartView {
	view := ChartView{Ticker: ticker}

	history, err := c.api.Prices(ctx, ticker)
	if err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Price history failed")
		view.Err = err
		view.Message = "Failed to load price data"
		if apiErr, ok := client.AsAPIError(err); ok {
			view.Message = apiErr.UserMessage()
		}
		return view
	}

	var dates []string
	if snap := c.Snapshot(); snap.Response != nil && snap.Response.Ticker == history.Ticker {
		dates = presenter.OccurrenceDates(snap.Response)
	}
	view.Chart = presenter.ChartSeries(history, dates, c.chartWindow)
	return view
}

func (c *Coordinator) record(outcome string) {
	if c.recorder != nil {
		c.recorder.RecordQuery(outcome)
	}
}
