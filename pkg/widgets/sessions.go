package widgets

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/jordanlanch/landing/pkg/domain"
	"github.com/jordanlanch/landing/pkg/logger"
)

// Session ids travel in this header, or in the cookie for same-origin pages.
const (
	SessionHeader = "X-Widget-Session"
	SessionCookie = "widget_session"
)

const (
	maxSessionIDLen    = 64
	minSweepInterval   = time.Second
	DefaultSessionTTL  = 15 * time.Minute
	DefaultMaxSessions = 1000
)

// Sessions gives every page view its own Registry, so one visitor's
// visibility signals never start or stop another visitor's widgets. Sessions
// idle for longer than the TTL are closed by a background sweep.
type Sessions struct {
	cfg         Config
	opts        []Option
	clock       clockwork.Clock
	ttl         time.Duration
	maxSessions int
	log         logger.Logger

	mu       sync.Mutex
	sessions map[string]*session

	done     chan struct{}
	stopOnce sync.Once
}

type session struct {
	registry *Registry
	lastSeen time.Time
}

// NewSessions validates cfg and starts the idle sweep. opts apply to every
// Registry the store mounts; Close stops the sweep and closes every session.
func NewSessions(cfg Config, ttl time.Duration, maxSessions int, opts ...Option) (*Sessions, error) {
	if ttl <= 0 {
		return nil, domain.NewValidationError("session ttl must be positive")
	}
	if maxSessions < 1 {
		return nil, domain.NewValidationError("max sessions must be at least 1")
	}

	check, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	check.Close()

	// The store logs through the same logger its registries use.
	settings := &Registry{log: logger.Discard()}
	for _, opt := range opts {
		opt(settings)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &Sessions{
		cfg:         cfg,
		opts:        opts,
		clock:       clock,
		ttl:         ttl,
		maxSessions: maxSessions,
		log:         settings.log,
		sessions:    make(map[string]*session),
		done:        make(chan struct{}),
	}

	go s.sweepLoop(max(ttl/2, minSweepInterval))

	return s, nil
}

// Open returns the registry for id, mounting a fresh one on first use. An
// empty id starts a new session; the id actually used is returned.
func (s *Sessions) Open(id string) (string, *Registry, error) {
	if id == "" {
		id = uuid.NewString()
	} else if !validSessionID(id) {
		return "", nil, domain.NewValidationError("invalid widget session id")
	}

	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.clock.Now()
		s.mu.Unlock()
		return id, sess.registry, nil
	}
	full := len(s.sessions) >= s.maxSessions
	s.mu.Unlock()

	if full {
		s.Sweep()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have opened the same id while the lock was released.
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.clock.Now()
		return id, sess.registry, nil
	}
	if len(s.sessions) >= s.maxSessions {
		return "", nil, domain.NewUnavailableError("too many widget sessions, try again later")
	}

	reg, err := NewRegistry(s.cfg, s.opts...)
	if err != nil {
		return "", nil, err
	}
	s.sessions[id] = &session{registry: reg, lastSeen: s.clock.Now()}
	s.log.Debug("widget session opened", "sessions", len(s.sessions))

	return id, reg, nil
}

// End closes the session and every widget it mounted.
func (s *Sessions) End(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.registry.Close()
	}
	return ok
}

// Len reports how many sessions are open.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// PendingTimers sums the timers held across every session.
func (s *Sessions) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sess := range s.sessions {
		n += sess.registry.PendingTimers()
	}
	return n
}

// Sweep closes sessions idle for at least the TTL and returns how many it
// closed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	var idle []*Registry
	for id, sess := range s.sessions {
		if s.clock.Since(sess.lastSeen) >= s.ttl {
			idle = append(idle, sess.registry)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, reg := range idle {
		reg.Close()
	}
	if len(idle) > 0 {
		s.log.Info("idle widget sessions closed", "closed", len(idle))
	}
	return len(idle)
}

// Close stops the sweep and closes every session.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.registry.Close()
	}
}

func (s *Sessions) sweepLoop(interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

func validSessionID(id string) bool {
	if len(id) > maxSessionIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
