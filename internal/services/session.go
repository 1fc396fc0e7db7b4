package services

import (
	"sync"

	"github.com/Kim2783/Kidstodolist/internal/models"
	"github.com/google/uuid"
)

// Session is one household checklist session: a fixed roster of children and
// the catalog currently in force. Completion flags, watermarks, and earnings
// live in the repositories under the session id; nothing here survives a
// restart.
type Session struct {
	ID       string
	Children []models.Child

	mu      sync.Mutex
	catalog models.Catalog
}

func NewSession(children []models.Child, catalog models.Catalog) *Session {
	return &Session{
		ID:       uuid.New().String(),
		Children: children,
		catalog:  catalog,
	}
}

func (session *Session) Catalog() models.Catalog {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.catalog
}

func (session *Session) setCatalog(catalog models.Catalog) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.catalog = catalog
}

func (session *Session) hasChild(child models.Child) bool {
	for _, c := range session.Children {
		if c == child {
			return true
		}
	}
	return false
}

// SessionManager hands out isolated sessions. Every new session starts from
// the same roster and the catalog the process booted with.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	children []models.Child
	catalog  models.Catalog
}

func NewSessionManager(children []models.Child, catalog models.Catalog) *SessionManager {
	return &SessionManager{
		sessions: map[string]*Session{},
		children: children,
		catalog:  catalog,
	}
}

func (manager *SessionManager) Create() *Session {
	session := NewSession(manager.children, manager.catalog)
	manager.mu.Lock()
	manager.sessions[session.ID] = session
	manager.mu.Unlock()
	return session
}

func (manager *SessionManager) Find(id string) (*Session, bool) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	session, ok := manager.sessions[id]
	return session, ok
}
