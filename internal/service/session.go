package service

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"poli-assistant/internal/model"

	"go.uber.org/zap"
)

// SessionState is the dialogue state derived from a session's fields
type SessionState int

const (
	StateIdle SessionState = iota
	StateAwaitingBuilding
	StateAwaitingNavigation
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingBuilding:
		return "awaiting_building_confirmation"
	case StateAwaitingNavigation:
		return "awaiting_navigation_confirmation"
	default:
		return "idle"
	}
}

// Session is the per-conversation dialogue state. It is only touched while the
// store's per-session lock is held.
type Session struct {
	ID               string
	History          string
	LastResolvedRoom *model.RoomRecord
	PendingRoom      string
}

// State reports where the conversation is. A resolved room waiting for confirmation
// takes precedence over a pending building question.
func (s *Session) State() SessionState {
	switch {
	case s.LastResolvedRoom != nil:
		return StateAwaitingNavigation
	case s.PendingRoom != "":
		return StateAwaitingBuilding
	default:
		return StateIdle
	}
}

// Clear drops the confirmation state and the history
func (s *Session) Clear() {
	s.LastResolvedRoom = nil
	s.PendingRoom = ""
	s.History = ""
}

// TruncateHistory keeps the longest run of trailing complete lines of history whose
// length in characters is at most budget. Lines are never split, so a final line longer
// than budget leaves nothing.
func TruncateHistory(history string, budget int) string {
	if utf8.RuneCountInString(history) <= budget {
		return history
	}

	lines := strings.Split(history, "\n")
	kept := 0
	size := 0
	for i := len(lines) - 1; i >= 0; i-- {
		n := utf8.RuneCountInString(lines[i])
		if kept > 0 {
			n++ // separator
		}
		if size+n > budget {
			break
		}
		size += n
		kept++
	}

	return strings.Join(lines[len(lines)-kept:], "\n")
}

type sessionEntry struct {
	mu           sync.Mutex
	session      *Session
	lastActivity time.Time
	elem         *list.Element
}

// SessionStore holds conversation sessions in memory. Turns for one session id are
// serialised; distinct ids proceed concurrently. Idle sessions expire after the TTL and
// the least recently used session is dropped when the store is full.
type SessionStore struct {
	mu          sync.Mutex
	entries     map[string]*sessionEntry
	lru         *list.List // front is most recently used; values are session ids
	ttl         time.Duration
	maxSessions int
	interval    time.Duration
	logger      *zap.Logger
	now         func() time.Time

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSessionStore creates a store. ttl <= 0 disables expiry and maxSessions <= 0 disables
// the capacity bound.
func NewSessionStore(ttl time.Duration, maxSessions int, cleanupInterval time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &SessionStore{
		entries:     make(map[string]*sessionEntry),
		lru:         list.New(),
		ttl:         ttl,
		maxSessions: maxSessions,
		interval:    cleanupInterval,
		logger:      logger,
		now:         time.Now,
	}
}

// Acquire returns the session for id, creating it on first use, and locks it for the
// caller. release must be called exactly once when the turn is done.
func (s *SessionStore) Acquire(id string) (*Session, func()) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if !ok {
		if s.maxSessions > 0 && len(s.entries) >= s.maxSessions {
			s.evictOldestLocked()
		}
		entry = &sessionEntry{session: &Session{ID: id}}
		entry.elem = s.lru.PushFront(id)
		s.entries[id] = entry
		sessionsActive.Set(float64(len(s.entries)))
	} else {
		s.lru.MoveToFront(entry.elem)
	}
	entry.lastActivity = s.now()
	s.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			entry.lastActivity = s.now()
			// no-op when the entry was reset mid-turn
			s.lru.MoveToFront(entry.elem)
			s.mu.Unlock()
			entry.mu.Unlock()
		})
	}
	return entry.session, release
}

// evictOldestLocked drops the least recently used session that is not mid-turn.
// s.mu must be held.
func (s *SessionStore) evictOldestLocked() {
	for elem := s.lru.Back(); elem != nil; elem = elem.Prev() {
		id := elem.Value.(string)
		entry := s.entries[id]
		if !entry.mu.TryLock() {
			continue
		}
		s.removeLocked(id, entry)
		entry.mu.Unlock()
		sessionsEvicted.WithLabelValues("capacity").Inc()
		s.logger.Debug("Session evicted", zap.String("session_id", id), zap.String("reason", "capacity"))
		return
	}
}

func (s *SessionStore) removeLocked(id string, entry *sessionEntry) {
	s.lru.Remove(entry.elem)
	delete(s.entries, id)
	sessionsActive.Set(float64(len(s.entries)))
}

// CleanupExpired removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions in the middle of a turn are left alone.
func (s *SessionStore) CleanupExpired() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for elem := s.lru.Back(); elem != nil; {
		prev := elem.Prev()
		id := elem.Value.(string)
		entry := s.entries[id]
		if !entry.lastActivity.Before(cutoff) {
			// everything closer to the front is more recent
			break
		}
		if entry.mu.TryLock() {
			s.removeLocked(id, entry)
			entry.mu.Unlock()
			removed++
		}
		elem = prev
	}

	if removed > 0 {
		sessionsEvicted.WithLabelValues("ttl").Add(float64(removed))
		s.logger.Info("Expired sessions removed", zap.Int("count", removed))
	}
	return removed
}

// Start launches the background janitor. It stops when ctx is done or Stop is called.
func (s *SessionStore) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()

	s.logger.Info("Session janitor started",
		zap.Duration("ttl", s.ttl),
		zap.Duration("interval", s.interval),
		zap.Int("max_sessions", s.maxSessions))
}

// Stop halts the janitor and waits for it to exit. It is safe to call more than once.
func (s *SessionStore) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// Count returns the number of sessions held
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Reset forgets a session. It reports whether the session existed.
func (s *SessionStore) Reset(id string) bool {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok {
		s.removeLocked(id, entry)
	}
	s.mu.Unlock()
	return ok
}

// Snapshot returns a copy of the session's state without touching its activity time
func (s *SessionStore) Snapshot(id string) (model.SessionSnapshot, bool) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return model.SessionSnapshot{}, false
	}
	lastActivity := entry.lastActivity
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	sess := entry.session
	snap := model.SessionSnapshot{
		SessionID:    sess.ID,
		State:        sess.State().String(),
		PendingRoom:  sess.PendingRoom,
		History:      sess.History,
		LastActivity: lastActivity,
	}
	if sess.LastResolvedRoom != nil {
		room := *sess.LastResolvedRoom
		snap.LastRoom = &room
	}
	return snap, true
}
