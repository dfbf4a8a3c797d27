package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jordanlanch/landing/pkg/cache"
	"github.com/jordanlanch/landing/pkg/logger"
)

const quoteKeyPrefix = "pricing:quote:v1:"

// QuoteCache memoizes quotes. *cache.Client satisfies it.
type QuoteCache interface {
	GetJSON(ctx context.Context, key string, v interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, expiration time.Duration) error
	SetMulti(ctx context.Context, pairs map[string]interface{}, expiration time.Duration) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// Recorder receives pricing metrics. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordQuote(plan, billingCycle string)
	RecordContactSales()
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
}

// Quote is what the pricing page renders: the recommendation plus every plan
// card priced for the same query.
type Quote struct {
	Result Result      `json:"result"`
	Plans  []PlanQuote `json:"plans"`
}

// Service serves quotes from the engine, memoized in Redis when configured.
type Service struct {
	engine   *Engine
	cache    QuoteCache
	ttl      time.Duration
	recorder Recorder
	log      logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the quote memo.
func WithCache(c QuoteCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService creates a new pricing service
func NewService(engine *Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Quote prices q, reading through the memo when one is configured.
func (s *Service) Quote(ctx context.Context, q Query) (*Quote, error) {
	if !q.BillingCycle.Valid() {
		_, err := s.engine.Quote(q)
		return nil, err
	}

	teamCount, contactSales := ClampTeamCount(q.TeamCount, s.engine.MaxTeamCount())
	q.TeamCount = teamCount

	if contactSales {
		if s.recorder != nil {
			s.recorder.RecordContactSales()
		}
		return s.compute(q)
	}

	key := quoteKey(q)
	if s.cache != nil {
		var cached Quote
		err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err == nil:
			s.recordCache(true)
			s.recordQuote(cached.Result)
			return &cached, nil
		case errors.Is(err, cache.ErrMiss):
			s.recordCache(false)
		default:
			// Memo errors are non-fatal.
			s.log.Warn("quote cache read failed", "key", key, "error", err)
		}
	}

	quote, err := s.compute(q)
	if err != nil {
		return nil, err
	}
	s.recordQuote(quote.Result)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, quote, s.ttl); err != nil {
			s.log.Warn("quote cache write failed", "key", key, "error", err)
		}
	}
	return quote, nil
}

// Warm precomputes every quotable team size for both cycles into the memo and
// returns how many entries were written.
func (s *Service) Warm(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	pairs := make(map[string]interface{}, s.engine.MaxTeamCount()*len(BillingCycles))
	for _, cycle := range BillingCycles {
		for n := 1; n <= s.engine.MaxTeamCount(); n++ {
			q := Query{TeamCount: n, BillingCycle: cycle}
			quote, err := s.compute(q)
			if err != nil {
				return 0, err
			}
			data, err := json.Marshal(quote)
			if err != nil {
				return 0, fmt.Errorf("failed to encode quote: %w", err)
			}
			pairs[quoteKey(q)] = data
		}
	}

	if err := s.cache.SetMulti(ctx, pairs, s.ttl); err != nil {
		return 0, fmt.Errorf("failed to warm quote cache: %w", err)
	}
	s.log.Info("quote cache warmed", "entries", len(pairs))
	return len(pairs), nil
}

// Invalidate drops every memoized quote.
func (s *Service) Invalidate(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.DeletePattern(ctx, quoteKeyPrefix+"*")
}

func (s *Service) compute(q Query) (*Quote, error) {
	res, err := s.engine.Quote(q)
	if err != nil {
		return nil, err
	}
	plans, err := s.engine.QuoteAll(q)
	if err != nil {
		return nil, err
	}
	return &Quote{Result: res, Plans: plans}, nil
}

func (s *Service) recordQuote(res Result) {
	if s.recorder == nil || res.ContactSales {
		return
	}
	s.recorder.RecordQuote(res.Plan.ID, string(res.BillingCycle))
}

func (s *Service) recordCache(hit bool) {
	if s.recorder == nil {
		return
	}
	if hit {
		s.recorder.RecordCacheHit("redis")
	} else {
		s.recorder.RecordCacheMiss("redis")
	}
}

func quoteKey(q Query) string {
	return fmt.Sprintf("%s%s:%d", quoteKeyPrefix, q.BillingCycle, q.TeamCount)
}
