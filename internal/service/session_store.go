package service

import (
	"errors"
	"strings"
	"sync"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore registra las sesiones de chat vivas del proceso. No hay capa
// de persistencia: el estado muere con el proceso.
type SessionStore interface {
	Put(sess *ChatSession) error
	Get(id string) (*ChatSession, error)
	Delete(id string)
}

type memorySessionStore struct {
	mu    sync.RWMutex
	items map[string]*ChatSession
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		items: make(map[string]*ChatSession),
	}
}

func (s *memorySessionStore) Put(sess *ChatSession) error {
	if sess == nil || strings.TrimSpace(sess.ID) == "" {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.ID] = sess
	return nil
}

func (s *memorySessionStore) Get(id string) (*ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *memorySessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}
