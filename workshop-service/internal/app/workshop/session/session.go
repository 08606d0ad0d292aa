package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"odilusta/pkg/metrics"
	"odilusta/workshop-service/internal/app/workshop/entity"
	"odilusta/workshop-service/internal/app/workshop/state"
)

// Session - состояние одного клиента: корзина, навигация и черновик
type Session struct {
	ID   string
	Cart *state.CartState
	Nav  *state.NavigationState

	draftMu sync.RWMutex
	draft   entity.Draft

	lastSeenMu sync.Mutex
	lastSeen   time.Time
}

// Draft возвращает текущий черновик сессии или nil
func (s *Session) Draft() entity.Draft {
	s.draftMu.RLock()
	defer s.draftMu.RUnlock()
	return s.draft
}

// SetDraft заменяет черновик сессии; nil сбрасывает его
func (s *Session) SetDraft(d entity.Draft) {
	s.draftMu.Lock()
	defer s.draftMu.Unlock()
	s.draft = d
}

func (s *Session) touch(now time.Time) {
	s.lastSeenMu.Lock()
	s.lastSeen = now
	s.lastSeenMu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.lastSeenMu.Lock()
	defer s.lastSeenMu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager хранит живые сессии по идентификатору
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
}

func NewManager(idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
	}
}

// Create регистрирует новую сессию со свежим состоянием
func (m *Manager) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		Cart:     state.NewCartState(),
		Nav:      state.NewNavigationState(),
		lastSeen: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	return sess
}

// Get возвращает сессию по идентификатору и продлевает ее жизнь
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		sess.touch(time.Now())
	}
	return sess, ok
}

// ForEach вызывает fn для каждой живой сессии
// Используется для сквозных операций вроде чистки корзин
func (m *Manager) ForEach(fn func(*Session)) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		fn(s)
	}
}

// Len возвращает число живых сессий
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep удаляет сессии, простаивающие дольше idleTTL
// Возвращает число удаленных сессий
func (m *Manager) Sweep() int {
	now := time.Now()

	m.mu.Lock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
			removed++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	return removed
}
