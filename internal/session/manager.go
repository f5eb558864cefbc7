// Package session keeps one draw engine per visitor and series in memory.
// Nothing is persisted: a restart or an idle timeout starts the visitor over.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
)

// Key identifies a session.
type Key struct {
	ID     string // anonymous visitor id
	Series string
}

// Session is one visitor's engine for one series.
type Session struct {
	mu       sync.Mutex
	engine   *gacha.Engine
	resolved game.Resolved
	lastUsed time.Time
}

// Manager is a registry of sessions. Draws within one session are serialized;
// different sessions proceed in parallel.
type Manager struct {
	store  catalog.Store
	rules  game.Resolver
	newRNG func() gacha.RandomSource
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger

	mu       sync.Mutex
	sessions map[Key]*Session
}

type Option func(*Manager)

// WithRNG sets the random source factory used for every new engine.
func WithRNG(f func() gacha.RandomSource) Option {
	return func(m *Manager) { m.newRNG = f }
}

// WithTTL sets how long an untouched session survives. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store catalog.Store, rules game.Resolver, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		rules:    rules,
		newRNG:   gacha.DefaultRNG,
		ttl:      2 * time.Hour,
		now:      time.Now,
		log:      slog.Default(),
		sessions: make(map[Key]*Session),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Do runs fn with exclusive use of the session's engine, building the engine
// on first use. Build failures (unknown series, empty catalog, bad rules) are
// returned as is and leave no session behind.
func (m *Manager) Do(ctx context.Context, key Key, fn func(e *gacha.Engine, res game.Resolved) error) error {
	s := m.acquire(key)
	defer s.mu.Unlock()

	if s.engine == nil {
		e, res, err := m.build(ctx, key.Series)
		if err != nil {
			m.drop(key, s)
			return err
		}
		s.engine, s.resolved = e, res
		m.log.Debug("session started", "id", key.ID, "series", key.Series, "cards", e.CatalogSize())
	}
	s.lastUsed = m.now()
	return fn(s.engine, s.resolved)
}

// acquire returns the key's live session, locked. A session swept or reset
// while we waited for its lock is no longer in the map, so we start over.
func (m *Manager) acquire(key Key) *Session {
	for {
		s := m.get(key)
		s.mu.Lock()
		if m.live(key, s) {
			return s
		}
		s.mu.Unlock()
	}
}

func (m *Manager) live(key Key, s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[key] == s
}

func (m *Manager) lookup(key Key) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok
}

func (m *Manager) get(key Key) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		s = &Session{lastUsed: m.now()}
		m.sessions[key] = s
	}
	return s
}

func (m *Manager) drop(key Key, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[key] == s {
		delete(m.sessions, key)
	}
}

// build loads the catalog before the rules, so unknown series never reach
// the rule loader's cache.
func (m *Manager) build(ctx context.Context, series string) (*gacha.Engine, game.Resolved, error) {
	if err := game.CheckSeries(series); err != nil {
		return nil, game.Resolved{}, err
	}
	cards, err := m.store.Cards(ctx, series)
	if err != nil {
		return nil, game.Resolved{}, fmt.Errorf("load catalog %q: %w", series, err)
	}
	res, err := m.rules.Resolve(series)
	if err != nil {
		return nil, game.Resolved{}, err
	}
	e, err := gacha.NewEngine(cards, res.Rules, m.newRNG())
	if err != nil {
		return nil, game.Resolved{}, fmt.Errorf("series %q: %w", series, err)
	}
	return e, res, nil
}

// Reset discards a session; the next draw starts a fresh one. It reports
// whether a session existed.
func (m *Manager) Reset(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[key]
	delete(m.sessions, key)
	return ok
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// went. Sessions busy with a draw are skipped.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.lastUsed.Before(cutoff) {
			delete(m.sessions, key)
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Run sweeps idle sessions periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}
	every := m.ttl / 4
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				m.log.Info("expired idle sessions", "count", n, "live", m.Len())
			}
		}
	}
}
