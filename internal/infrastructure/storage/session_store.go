package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// SessionModel persists a session's script text across restarts. It does
// not persist live TaskGraphExecutionState, and nothing in this codebase
// restores a session's graph from the stored script.
type SessionModel struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID         uuid.UUID `bun:"id,pk"`
	ScriptText string    `bun:"script_text"`
	CreatedAt  time.Time `bun:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at"`
}

// AuditEventModel is one scheduler transition recorded for a session, used
// to answer "what happened" after the fact without needing the live
// in-memory TaskGraphExecutionState.
type AuditEventModel struct {
	bun.BaseModel `bun:"table:session_audit_events,alias:a"`

	ID          int64     `bun:"id,pk,autoincrement"`
	SessionID   uuid.UUID `bun:"session_id"`
	TaskID      int       `bun:"task_id"`
	Status      string    `bun:"status"`
	ErrorKind   string    `bun:"error_kind"`
	ErrorDetail string    `bun:"error_detail"`
	RecordedAt  time.Time `bun:"recorded_at"`
}

// SessionStore persists session script text and a scheduler audit trail
// to Postgres via bun, mirroring BunStore's model-per-table layout
// (internal/infrastructure/storage/bun_store.go) scaled down to this
// project's two tables.
type SessionStore struct {
	db *bun.DB
}

// NewSessionStore opens a bun.DB against dsn using pgdriver, the same
// construction BunStore uses.
func NewSessionStore(dsn string) *SessionStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &SessionStore{db: db}
}

// InitSchema creates the session tables if they don't already exist.
func (s *SessionStore) InitSchema(ctx context.Context) error {
	models := []interface{}{
		(*SessionModel)(nil),
		(*AuditEventModel)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SaveScript upserts a session's script text.
func (s *SessionStore) SaveScript(ctx context.Context, sessionID uuid.UUID, script string) error {
	now := time.Now()
	model := &SessionModel{
		ID:         sessionID,
		ScriptText: script,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := s.db.NewInsert().
		Model(model).
		On("CONFLICT (id) DO UPDATE").
		Set("script_text = EXCLUDED.script_text, updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// LoadScript returns the last saved script text for a session.
func (s *SessionStore) LoadScript(ctx context.Context, sessionID uuid.UUID) (string, error) {
	model := new(SessionModel)
	err := s.db.NewSelect().Model(model).Where("id = ?", sessionID).Scan(ctx)
	if err != nil {
		return "", err
	}
	return model.ScriptText, nil
}

// RecordTaskStatus appends one audit event for a task transition.
func (s *SessionStore) RecordTaskStatus(ctx context.Context, sessionID uuid.UUID, taskID int, status, errKind, errDetail string) error {
	event := &AuditEventModel{
		SessionID:   sessionID,
		TaskID:      taskID,
		Status:      status,
		ErrorKind:   errKind,
		ErrorDetail: errDetail,
		RecordedAt:  time.Now(),
	}
	_, err := s.db.NewInsert().Model(event).Exec(ctx)
	return err
}

// Close closes the underlying connection pool.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
