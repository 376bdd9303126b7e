// Package suggest resolves ticker autocomplete lookups with debouncing
// and newest-result-wins ordering.
package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"histpattern/internal/assetclass"
	"histpattern/pkg/model"
)

// Outcomes reported to the Recorder
const (
	OutcomeApplied   = "applied"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
)

// Lookup is the service call behind a suggestion request
type Lookup interface {
	Suggest(ctx context.Context, q string) ([]model.TickerSuggestion, error)
}

// Recorder receives suggestion outcomes
type Recorder interface {
	RecordSuggestion(outcome string)
}

// Options configures a Suggester
type Options struct {
	Delay    time.Duration
	MinChars int
	Logger   zerolog.Logger
	Recorder Recorder
	// OnUpdate is called with every list that becomes current, in order
	OnUpdate func([]model.TickerSuggestion)
}

// Suggester turns keystrokes into a filtered suggestion list
type Suggester struct {
	api      Lookup
	registry *assetclass.Registry
	debounce *Debouncer
	seq      Sequencer
	minChars int
	logger   zerolog.Logger
	recorder Recorder
	onUpdate func([]model.TickerSuggestion)

	ctx    context.Context
	cancel context.CancelFunc

	deliverMu sync.Mutex
	mu        sync.Mutex
	class     model.AssetClass
	current   []model.TickerSuggestion
}

// New creates a Suggester for the given asset class
func New(api Lookup, registry *assetclass.Registry, class model.AssetClass, opts Options) *Suggester {
	if registry == nil {
		registry = assetclass.Default()
	}
	minChars := opts.MinChars
	if minChars < 1 {
		minChars = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Suggester{
		api:      api,
		registry: registry,
		debounce: NewDebouncer(opts.Delay),
		minChars: minChars,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		onUpdate: opts.OnUpdate,
		ctx:      ctx,
		cancel:   cancel,
		class:    class,
	}
}

// Type records new input text and schedules a lookup
func (s *Suggester) Type(text string) {
	text = strings.TrimSpace(text)
	if len(text) < s.minChars {
		s.debounce.Cancel()
		s.seq.Invalidate()
		s.deliver(nil)
		return
	}
	// the token is taken now so a later clear or class switch makes it stale
	s.mu.Lock()
	token := s.seq.Issue()
	class := s.class
	s.mu.Unlock()

	s.debounce.Trigger(func() { s.lookup(text, token, class) })
}

// SetAssetClass switches the active class, dropping pending and in-flight lookups
func (s *Suggester) SetAssetClass(class model.AssetClass) {
	s.debounce.Cancel()
	s.seq.Invalidate()
	s.mu.Lock()
	s.class = class
	s.mu.Unlock()
	s.deliver(nil)
}

// AssetClass returns the active class
func (s *Suggester) AssetClass() model.AssetClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.class
}

// Current returns a copy of the displayed suggestions
func (s *Suggester) Current() []model.TickerSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.TickerSuggestion, len(s.current))
	copy(out, s.current)
	return out
}

// Close cancels the pending timer and any in-flight lookup
func (s *Suggester) Close() {
	s.debounce.Stop()
	s.seq.Invalidate()
	s.cancel()
}

func (s *Suggester) lookup(text string, token uint64, class model.AssetClass) {
	results, err := s.api.Suggest(s.ctx, text)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Str("q", text).Msg("Suggestion lookup failed")
		s.record(OutcomeFailed)
		s.apply(token, class, nil)
		return
	}

	filtered := Filter(s.registry, class, results)
	if s.apply(token, class, filtered) {
		s.record(OutcomeApplied)
	} else {
		s.logger.Debug().Str("q", text).Uint64("token", token).Msg("Discarded stale suggestions")
		s.record(OutcomeDiscarded)
	}
}

// apply makes list current when token is still the newest and the
// class it was filtered for is still active
func (s *Suggester) apply(token uint64, class model.AssetClass, list []model.TickerSuggestion) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if class != s.class || !s.seq.Accept(token) {
		s.mu.Unlock()
		return false
	}
	s.current = list
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(list)
	}
	return true
}

// deliver clears or replaces the list without a token check
func (s *Suggester) deliver(list []model.TickerSuggestion) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	s.current = list
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(list)
	}
}

func (s *Suggester) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordSuggestion(outcome)
	}
}

// Filter keeps the suggestions whose ticker belongs to class
func Filter(registry *assetclass.Registry, class model.AssetClass, list []model.TickerSuggestion) []model.TickerSuggestion {
	out := make([]model.TickerSuggestion, 0, len(list))
	for _, s := range list {
		if registry.Classify(s.Ticker) == class {
			out = append(out, s)
		}
	}
	return out
}
