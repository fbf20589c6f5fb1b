package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemorySessionStore is the in-process default SessionStore, used by
// cmd/server when no DASHQL_DATABASE_DSN is configured (see
// SPEC_FULL.md §2.3) and by tests that want no Postgres dependency.
type MemorySessionStore struct {
	mu      sync.RWMutex
	scripts map[uuid.UUID]string
	audit   []AuditEventModel
}

// NewMemorySessionStore returns an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{scripts: make(map[uuid.UUID]string)}
}

func (s *MemorySessionStore) SaveScript(ctx context.Context, sessionID uuid.UUID, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[sessionID] = script
	return nil
}

func (s *MemorySessionStore) LoadScript(ctx context.Context, sessionID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	script, ok := s.scripts[sessionID]
	if !ok {
		return "", fmt.Errorf("session %s not found", sessionID)
	}
	return script, nil
}

func (s *MemorySessionStore) RecordTaskStatus(ctx context.Context, sessionID uuid.UUID, taskID int, status, errKind, errDetail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, AuditEventModel{
		SessionID:   sessionID,
		TaskID:      taskID,
		Status:      status,
		ErrorKind:   errKind,
		ErrorDetail: errDetail,
		RecordedAt:  time.Now(),
	})
	return nil
}

// AuditLog returns every recorded audit event for sessionID, in recording
// order.
func (s *MemorySessionStore) AuditLog(sessionID uuid.UUID) []AuditEventModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AuditEventModel
	for _, e := range s.audit {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}
