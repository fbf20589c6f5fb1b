package planner

import "github.com/dashql/dashql/internal/domain"

// appendDropTasks compares previous's completed task set against
// the statements the new analysis kept, and appends one Drop task for
// every artifact the new program no longer publishes: a retired
// Create/CreateAs/CreateView becomes DropTable, a retired Viz becomes
// DropViz, a retired Declare becomes DropInput, and a retired Import
// becomes DropImport (the fourth drop variant, supplemented from
// original_source/ — see SPEC_FULL.md §5). Drop tasks carry no
// dependencies of their own; the scheduler runs them opportunistically
// since nothing in the new graph can reference an artifact the new
// program doesn't name. Each drop task keeps the retired task's DataID
// so its delete_task_data(data_id) call retracts the right artifact.
func appendDropTasks(graph *domain.TaskGraph, pi *domain.ProgramInstance, previous *domain.TaskGraph, nextID *domain.TaskID) {
	kept := map[string]struct{}{}
	for _, t := range graph.Tasks {
		key := artifactKey(t)
		if key == "" {
			continue
		}
		kept[key] = struct{}{}
	}

	for _, prevTask := range previous.Tasks {
		dropType, ok := dropTypeFor(prevTask.Type)
		if !ok {
			continue
		}
		if prevTask.Status != domain.TaskCompleted {
			continue
		}
		key := artifactKey(prevTask)
		if _, stillPresent := kept[key]; stillPresent {
			continue
		}
		name := prevTask.Data.Name
		if prevTask.Type == domain.TaskCreateViz {
			name = prevTask.Data.Target
		}

		graph.Tasks = append(graph.Tasks, domain.Task{
			ID:     *nextID,
			Type:   dropType,
			Status: domain.TaskPending,
			Data:   domain.TaskData{Name: name},
			DataID: prevTask.DataID,
		})
		*nextID++
	}
}

func dropTypeFor(t domain.TaskType) (domain.TaskType, bool) {
	switch t {
	case domain.TaskCreateTable:
		return domain.TaskDropTable, true
	case domain.TaskCreateViz:
		return domain.TaskDropViz, true
	case domain.TaskDeclare:
		return domain.TaskDropInput, true
	case domain.TaskImport:
		return domain.TaskDropImport, true
	default:
		return 0, false
	}
}

// artifactKey identifies the artifact a task publishes: its output name,
// or for a Viz (which has no output name) the relation it visualizes.
func artifactKey(t domain.Task) string {
	if t.Type == domain.TaskCreateViz {
		return "viz:" + joinKey(t.Data.Target)
	}
	return joinKey(t.Data.Name)
}

func joinKey(path []string) string {
	s := ""
	for i, c := range path {
		if i > 0 {
			s += "."
		}
		s += c
	}
	return s
}
