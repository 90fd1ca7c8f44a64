package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Session struct {
	ID        string
	ClientID  string
	StartTime time.Time
	EndTime   time.Time
}

// Manager tracks connected clients and the courses each one follows.
type Manager struct {
	sessions      map[string]*Session
	subscriptions map[string]map[uuid.UUID]struct{}
	mu            sync.RWMutex
	logger        *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		sessions:      make(map[string]*Session),
		subscriptions: make(map[string]map[uuid.UUID]struct{}),
		logger:        logger,
	}
}

func (m *Manager) CreateSession(clientID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &Session{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		StartTime: time.Now(),
	}

	m.sessions[session.ID] = session
	m.subscriptions[session.ID] = make(map[uuid.UUID]struct{})
	m.logger.Info("Created new session", zap.String("sessionID", session.ID), zap.String("clientID", clientID))

	return session
}

func (m *Manager) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	return session, ok
}

func (m *Manager) EndSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[sessionID]; ok {
		session.EndTime = time.Now()
		m.logger.Info("Ended session",
			zap.String("sessionID", sessionID),
			zap.String("clientID", session.ClientID),
			zap.Duration("duration", session.EndTime.Sub(session.StartTime)))
		delete(m.sessions, sessionID)
		delete(m.subscriptions, sessionID)
	}
}

// Subscribe registers interest in updates of a course. It returns false for
// unknown sessions.
func (m *Manager) Subscribe(sessionID string, courseID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.subscriptions[sessionID]
	if !ok {
		return false
	}
	subs[courseID] = struct{}{}
	m.logger.Debug("Subscribed to course", zap.String("sessionID", sessionID), zap.Stringer("courseID", courseID))
	return true
}

func (m *Manager) Unsubscribe(sessionID string, courseID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.subscriptions[sessionID]
	if !ok {
		return false
	}
	if _, ok := subs[courseID]; !ok {
		return false
	}
	delete(subs, courseID)
	return true
}

func (m *Manager) IsSubscribed(sessionID string, courseID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.subscriptions[sessionID][courseID]
	return ok
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
