// Package planner builds a domain.TaskGraph from an analyzed
// domain.ProgramInstance, and diffs two consecutive graphs to synthesize
// Drop tasks for artifacts a script edit retired (spec.md §4.4).
package planner

import (
	"github.com/google/uuid"

	"github.com/dashql/dashql/internal/domain"
)

// Plan builds a fresh TaskGraph from a live ProgramInstance. Dead
// statements (pi.IsLive == false) produce no task at all — they simply
// don't appear in the graph, matching spec.md's "dead statements are
// never scheduled" invariant. previous, if non-nil, is diffed against the
// new graph to synthesize Drop tasks for names the new program no longer
// publishes (internal/application/planner/drop.go... folded in below).
func Plan(pi *domain.ProgramInstance, previous *domain.TaskGraph) (*domain.TaskGraph, error) {
	graph := &domain.TaskGraph{ID: newGraphID(), TaskByStatement: map[domain.StatementID]domain.TaskID{}}

	nextID := domain.TaskID(0)
	nextDataID := 0
	if previous != nil {
		nextDataID = previous.NextDataID
	}

	for _, stmt := range pi.Program.Statements {
		if !pi.IsLive(stmt.ID) {
			continue
		}
		taskType, ok := taskTypeFor(stmt)
		if !ok {
			continue
		}

		task := domain.Task{
			ID:     nextID,
			Type:   taskType,
			Status: domain.TaskPending,
			Data:   taskDataFor(stmt),
			DataID: nextDataID,
		}
		graph.Tasks = append(graph.Tasks, task)
		graph.TaskByStatement[stmt.ID] = nextID
		nextID++
		nextDataID++
	}

	// Wire DependsOn/RequiredFor from the analyzer's statement-level
	// dependency edges, restricted to pairs that both produced a task
	// (dead statements produce no task and are simply skipped as a
	// dependency hop).
	for stmtID, taskID := range graph.TaskByStatement {
		for _, depStmt := range pi.Dependencies[stmtID] {
			depTask, ok := graph.TaskByStatement[depStmt]
			if !ok {
				continue
			}
			addDependency(graph, taskID, depTask)
		}
	}

	if previous != nil {
		appendDropTasks(graph, pi, previous, &nextID)
	}

	graph.NextDataID = nextDataID
	return graph, nil
}

func addDependency(graph *domain.TaskGraph, task, dependsOn domain.TaskID) {
	t := graph.Task(task)
	t.DependsOn = append(t.DependsOn, dependsOn)
	d := graph.Task(dependsOn)
	d.RequiredFor = append(d.RequiredFor, task)
}

// taskTypeFor maps a statement kind to the task family the scheduler
// drives for it. Select statements materialize like a CreateTable (spec.md
// §4.4's "ad-hoc query" case): a Select with dependents becomes a
// temporary table just like a named Create would.
func taskTypeFor(stmt domain.Statement) (domain.TaskType, bool) {
	switch stmt.Kind {
	case domain.StatementDeclare:
		return domain.TaskDeclare, true
	case domain.StatementImport:
		return domain.TaskImport, true
	case domain.StatementLoad:
		return domain.TaskLoad, true
	case domain.StatementCreate, domain.StatementCreateAs, domain.StatementCreateView, domain.StatementSelect:
		return domain.TaskCreateTable, true
	case domain.StatementViz:
		return domain.TaskCreateViz, true
	case domain.StatementSet:
		return domain.TaskSet, true
	default:
		return 0, false
	}
}

func taskDataFor(stmt domain.Statement) domain.TaskData {
	data := domain.TaskData{
		StatementID: stmt.ID,
		Name:        []string(stmt.Name),
		Target:      []string(stmt.Target),
		SQLText:     stmt.SQLText,
		LoadMethod:  stmt.LoadMethod,
		IsView:      stmt.IsView || stmt.Kind == domain.StatementCreateView,
	}
	// FromURI/ImportMethod are resolved by the import operator directly
	// from the statement's FromURI expression (spec.md §4.5 requires it be
	// a constant expression, checked by the import operator's Prepare)
	// rather than re-derived here.
	return data
}

func newGraphID() uuid.UUID {
	return uuid.New()
}
