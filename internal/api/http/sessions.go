package http

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/storage"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is one engine driven over HTTP.
type Session struct {
	ID        string
	Profile   string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *engine.Engine
	lastSeen time.Time
}

// SessionManager keeps sessions in memory and mirrors their progress to the
// store when one is configured.
type SessionManager struct {
	catalog *levels.Catalog
	store   *storage.Store
	logger  *log.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a manager. store and logger may be nil.
func NewSessionManager(catalog *levels.Catalog, store *storage.Store, logger *log.Logger) *SessionManager {
	if catalog == nil {
		catalog = levels.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SessionManager{
		catalog:  catalog,
		store:    store,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the levels every session plays.
func (m *SessionManager) Catalog() *levels.Catalog { return m.catalog }

// Create starts a session for profile. Saved progress is restored and the
// session starts on the furthest unlocked level. A zero seed is time-based.
func (m *SessionManager) Create(profile string, seed int64) (*Session, engine.Snapshot, error) {
	if profile == "" {
		profile = "player"
	}
	if seed == 0 {
		seed = m.now().UnixNano()
	}

	eng := engine.New(m.catalog, engine.WithSeed(seed))
	if m.store != nil {
		p, found, err := m.store.LoadProgress(profile, m.catalog.Len())
		if err != nil {
			return nil, engine.Snapshot{}, err
		}
		if found {
			eng.RestoreProgress(p)
			start := 0
			for i, u := range eng.Unlocked() {
				if u {
					start = i
				}
			}
			if err := eng.SetLevel(start); err != nil {
				return nil, engine.Snapshot{}, err
			}
		}
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Profile:   profile,
		CreatedAt: now,
		engine:    eng,
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session", s.ID, "profile", profile, "level", eng.LevelIndex())
	return s, eng.Snapshot(), nil
}

func (m *SessionManager) get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Snapshot returns the current state of a session.
func (m *SessionManager) Snapshot(id string) (*Session, engine.Snapshot, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, engine.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.now()
	return s, s.engine.Snapshot(), nil
}

// Do runs fn on the session's engine under its lock. Progress is saved and a
// newly won level is recorded before the snapshot is taken. The snapshot is
// returned even when fn fails, so callers can report the state next to the
// error.
func (m *SessionManager) Do(id string, fn func(*engine.Engine) error) (*Session, engine.Snapshot, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, engine.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.now()

	wasWon := s.engine.Won()
	before := s.engine.Progress()
	fnErr := fn(s.engine)

	if !wasWon && s.engine.Won() {
		m.recordWin(s)
	}
	if !sameProgress(before, s.engine.Progress()) {
		m.saveProgress(s)
	}
	return s, s.engine.Snapshot(), fnErr
}

func (m *SessionManager) recordWin(s *Session) {
	level := s.engine.LevelIndex()
	m.logger.Info("level won", "session", s.ID, "profile", s.Profile, "level", level, "wins", s.engine.Wins(level))
	if m.store == nil {
		return
	}
	if _, err := m.store.RecordWin(s.Profile, s.ID, level, string(s.engine.Level().Piece)); err != nil {
		m.logger.Error("could not record win", "session", s.ID, "err", err)
	}
}

func (m *SessionManager) saveProgress(s *Session) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveProgress(s.Profile, s.engine.Progress()); err != nil {
		m.logger.Error("could not save progress", "session", s.ID, "err", err)
	}
}

func sameProgress(a, b engine.Progress) bool {
	if len(a.Wins) != len(b.Wins) || len(a.Unlocked) != len(b.Unlocked) {
		return false
	}
	for i := range a.Wins {
		if a.Wins[i] != b.Wins[i] {
			return false
		}
	}
	for i := range a.Unlocked {
		if a.Unlocked[i] != b.Unlocked[i] {
			return false
		}
	}
	return true
}

// Delete ends a session.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session deleted", "session", id)
	return nil
}

// IDs lists the open sessions, oldest first.
func (m *SessionManager) IDs() []string {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *SessionManager) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("expired idle sessions", "count", removed)
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *SessionManager) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(maxIdle)
		}
	}
}
