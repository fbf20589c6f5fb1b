// Package workflow is the public session-scoped API: create_session,
// release_session, update_program and update_input_value from SPEC_FULL.md
// §6, wiring analyzer → planner → scheduler → frontend for one session at
// a time.
package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dashql/dashql/internal/application/analyzer"
	"github.com/dashql/dashql/internal/application/operators"
	"github.com/dashql/dashql/internal/application/planner"
	"github.com/dashql/dashql/internal/application/scheduler"
	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// Parser turns script text into a Program. The real grammar is out of
// scope (see internal/infrastructure/adapters.ParseProgram); this is the
// seam a generated-grammar parser would plug into later.
type Parser func(script string) (*domain.Program, error)

// session holds everything the API needs to replan and re-execute a
// single dashboard script: its current program, instance, task graph and
// named_values (the DECLARE inputs referenced by update_input_value).
type session struct {
	mu sync.Mutex

	id       uuid.UUID
	frontend domain.Frontend

	program  *domain.Program
	instance *domain.ProgramInstance
	graph    *domain.TaskGraph

	namedValues map[string]evalexpr.Value

	cancel context.CancelFunc
}

// API is the session registry mbflow's executor/REST layer is replaced
// by: one API instance is shared by every connected client, each client
// owning one or more sessions.
type API struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	parser   Parser
	database domain.Database
	runtime  domain.Runtime
	registry *operators.Registry
	log      zerolog.Logger

	maxParallel int
}

// NewAPI returns an API wired to database/runtime/registry, the
// collaborators every session's scheduler shares.
func NewAPI(parser Parser, database domain.Database, runtime domain.Runtime, registry *operators.Registry, log zerolog.Logger, maxParallel int) *API {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &API{
		sessions:    make(map[uuid.UUID]*session),
		parser:      parser,
		database:    database,
		runtime:     runtime,
		registry:    registry,
		log:         log,
		maxParallel: maxParallel,
	}
}

// CreateSession registers a new session publishing to frontend and
// returns its ID. The session starts with an empty program; call
// UpdateProgram to give it a script.
func (a *API) CreateSession(frontend domain.Frontend) uuid.UUID {
	id := uuid.New()
	s := &session{
		id:          id,
		frontend:    frontend,
		namedValues: make(map[string]evalexpr.Value),
	}
	a.mu.Lock()
	a.sessions[id] = s
	a.mu.Unlock()
	a.log.Info().Str("session_id", id.String()).Msg("session created")
	return id
}

// ReleaseSession cancels any in-flight scheduler run and forgets the
// session.
func (a *API) ReleaseSession(sessionID uuid.UUID) {
	a.mu.Lock()
	s, ok := a.sessions[sessionID]
	delete(a.sessions, sessionID)
	a.mu.Unlock()
	if !ok {
		return
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	a.log.Info().Str("session_id", sessionID.String()).Msg("session released")
}

// UpdateProgram replaces sessionID's script: parse, analyze, plan against
// the previous task graph (so retired artifacts synthesize drop tasks),
// cancel any still-running scheduler pass, then run and publish the new
// one. Analyzer diagnostics never abort planning (SPEC_FULL.md §6's
// propagation policy); parse, analyze and plan failures are returned as
// errors, as is any error from connecting or running the scheduler.
func (a *API) UpdateProgram(ctx context.Context, sessionID uuid.UUID, scriptText string) error {
	s, err := a.session(sessionID)
	if err != nil {
		return err
	}

	program, err := a.parser(scriptText)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	instance, err := analyzer.Analyze(program)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	s.mu.Lock()
	previousGraph := s.graph
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	graph, err := planner.Plan(instance, previousGraph)
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}

	s.mu.Lock()
	s.program = program
	s.instance = instance
	s.graph = graph
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.frontend.BeginBatchUpdate(ctx, sessionID.String())
	s.frontend.UpdateProgram(ctx, sessionID.String(), program)
	s.frontend.UpdateTaskGraph(ctx, sessionID.String(), graph)
	s.frontend.EndBatchUpdate(ctx, sessionID.String())

	return a.runScheduler(runCtx, s, graph)
}

// UpdateInputValue pins a DECLARE statement's value in the session's
// named_values, publishes the new input state, and runs the scheduler
// again over the session's current task graph. The graph is not re-planned
// and no task is reset: tasks that already completed stay Completed and
// are not executed again with the new value.
func (a *API) UpdateInputValue(ctx context.Context, sessionID uuid.UUID, stmtID domain.StatementID, value evalexpr.Value) error {
	s, err := a.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	program := s.program
	if program == nil {
		s.mu.Unlock()
		return fmt.Errorf("session %s has no program", sessionID)
	}
	stmt := program.Statement(stmtID)
	if stmt.Kind != domain.StatementDeclare {
		s.mu.Unlock()
		return fmt.Errorf("statement %d is not a DECLARE", stmtID)
	}
	key := stmt.Name.Key()
	s.namedValues[key] = value
	graph := s.graph
	s.mu.Unlock()

	s.frontend.UpdateInputState(ctx, sessionID.String(), stmtID, value.String())

	if graph == nil {
		return nil
	}
	return a.runScheduler(ctx, s, graph)
}

func (a *API) session(sessionID uuid.UUID) (*session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("unknown session %s", sessionID)
	}
	return s, nil
}

func (a *API) runScheduler(ctx context.Context, s *session, graph *domain.TaskGraph) error {
	conn, err := a.database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}

	s.mu.Lock()
	inputs := make(map[string]evalexpr.Value, len(s.namedValues))
	for k, v := range s.namedValues {
		inputs[k] = v
	}
	instance := s.instance
	sessionID := s.id
	s.mu.Unlock()

	ec := &operators.ExecutionContext{
		Database: a.database,
		Runtime:  a.runtime,
		Program:  instance,
		Conn:     conn,
		Inputs:   inputs,
	}

	sched := scheduler.New(graph, a.registry, ec, s.frontend, sessionID.String(), a.log, a.maxParallel)
	defer conn.Close(ctx)
	return sched.Run(ctx)
}
