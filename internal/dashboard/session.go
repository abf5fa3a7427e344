package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/spectre/internal/document"
	"github.com/raysh454/spectre/internal/logging"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrFormNotBound    = errors.New("form not bound on this page")
)

// SessionConfig bounds how many bootstrapped pages are kept alive.
type SessionConfig struct {
	// TTL evicts a session that has not been touched for this long.
	TTL time.Duration
	// MaxSessions evicts the least recently used sessions beyond this count.
	MaxSessions int
	Bindings    []Binding
}

// DefaultSessionConfig returns the limits used by the server.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:         30 * time.Minute,
		MaxSessions: 256,
		Bindings:    DefaultBindings(),
	}
}

type session struct {
	id       string
	page     *Page
	lastSeen time.Time
}

// Sessions holds one bootstrapped Page per page load.
type Sessions struct {
	cfg    SessionConfig
	deps   Deps
	logger logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(cfg SessionConfig, deps Deps) *Sessions {
	if cfg.Bindings == nil {
		cfg.Bindings = DefaultBindings()
	}
	return &Sessions{
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger.With(logging.Field{Key: "component", Value: "sessions"}),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// NewID returns a fresh session id. Pages embed it in their markup before
// being handed to Open.
func NewID() string { return uuid.NewString() }

// Open parses markup, bootstraps it and registers the result under id. An
// empty id is replaced by a fresh one.
func (s *Sessions) Open(ctx context.Context, id string, markup []byte) (string, *Page, error) {
	if id == "" {
		id = NewID()
	}
	s.mu.Lock()
	_, taken := s.sessions[id]
	s.mu.Unlock()
	if taken {
		return "", nil, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}

	doc, err := document.Parse(bytes.NewReader(markup))
	if err != nil {
		return "", nil, fmt.Errorf("parse page: %w", err)
	}
	deps := s.deps
	deps.Logger = s.deps.Logger.With(logging.Field{Key: "session", Value: id})
	page := Bootstrap(ctx, doc, s.cfg.Bindings, deps)

	s.mu.Lock()
	if _, taken := s.sessions[id]; taken {
		s.mu.Unlock()
		page.Close()
		return "", nil, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	s.sessions[id] = &session{id: id, page: page, lastSeen: s.now()}
	evicted := s.pruneLocked()
	s.mu.Unlock()

	s.closeAll(evicted)
	return id, page, nil
}

// Get returns the page of session id and marks it as used.
func (s *Sessions) Get(id string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.page, nil
}

// Controller resolves a form controller of a session.
func (s *Sessions) Controller(id, formID string) (*Controller, error) {
	page, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	c, ok := page.Controller(formID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormNotBound, formID)
	}
	return c, nil
}

// Prune evicts idle sessions and returns how many were removed.
func (s *Sessions) Prune() int {
	s.mu.Lock()
	evicted := s.pruneLocked()
	s.mu.Unlock()
	s.closeAll(evicted)
	return len(evicted)
}

// Run prunes every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				s.logger.Debug("pruned sessions", logging.Field{Key: "count", Value: n})
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close evicts every session.
func (s *Sessions) Close() {
	s.mu.Lock()
	all := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		all = append(all, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	s.closeAll(all)
}

func (s *Sessions) pruneLocked() []*session {
	var evicted []*session
	now := s.now()
	if s.cfg.TTL > 0 {
		for id, sess := range s.sessions {
			if now.Sub(sess.lastSeen) > s.cfg.TTL {
				evicted = append(evicted, sess)
				delete(s.sessions, id)
			}
		}
	}
	if s.cfg.MaxSessions > 0 && len(s.sessions) > s.cfg.MaxSessions {
		rest := make([]*session, 0, len(s.sessions))
		for _, sess := range s.sessions {
			rest = append(rest, sess)
		}
		sort.Slice(rest, func(i, j int) bool { return rest[i].lastSeen.Before(rest[j].lastSeen) })
		for _, sess := range rest[:len(rest)-s.cfg.MaxSessions] {
			evicted = append(evicted, sess)
			delete(s.sessions, sess.id)
		}
	}
	return evicted
}

func (s *Sessions) closeAll(list []*session) {
	for _, sess := range list {
		sess.page.Close()
	}
}
