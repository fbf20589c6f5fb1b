package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/application/operators"
	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
	"github.com/dashql/dashql/internal/infrastructure/adapters"
)

// recordingFrontend captures every task status transition published
// during a run, so tests can assert on the published sequence without a
// real websocket hub.
type recordingFrontend struct {
	domain.NoopFrontend
	mu       sync.Mutex
	statuses map[domain.TaskID]domain.TaskStatus
}

func newRecordingFrontend() *recordingFrontend {
	return &recordingFrontend{statuses: map[domain.TaskID]domain.TaskStatus{}}
}

func (f *recordingFrontend) UpdateTaskStatus(ctx context.Context, sessionID string, taskID domain.TaskID, status domain.TaskStatus, err *domain.NodeError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[taskID] = status
}

func (f *recordingFrontend) all() map[domain.TaskID]domain.TaskStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[domain.TaskID]domain.TaskStatus, len(f.statuses))
	for k, v := range f.statuses {
		out[k] = v
	}
	return out
}

func newTestAPI() *API {
	ops := operators.NewRegistry(
		&operators.CreateTableOperator{},
		&operators.ImportOperator{},
		&operators.LoadOperator{},
		&operators.DeclareOperator{},
		&operators.SetOperator{},
		operators.NewDropTableOperator(),
		operators.NewDropVizOperator(),
		operators.NewDropInputOperator(),
		operators.NewDropImportOperator(),
		&operators.VizOperator{},
	)
	return NewAPI(adapters.ParseProgram, adapters.NewMemoryDatabase(), adapters.NewLocalRuntime(), ops, zerolog.Nop(), 4)
}

func TestAPI_UpdateProgramRunsToCompletion(t *testing.T) {
	api := newTestAPI()
	fe := newRecordingFrontend()
	sessionID := api.CreateSession(fe)

	err := api.UpdateProgram(context.Background(), sessionID, `
		CREATE sales AS SELECT * FROM raw;
		VIZ sales USING sales;
	`)
	require.NoError(t, err)

	for _, status := range fe.all() {
		assert.Equal(t, domain.TaskCompleted, status)
	}
	assert.Len(t, fe.all(), 2)
}

func TestAPI_UpdateProgramDropsRetiredArtifactOnReplace(t *testing.T) {
	api := newTestAPI()
	fe := newRecordingFrontend()
	sessionID := api.CreateSession(fe)

	require.NoError(t, api.UpdateProgram(context.Background(), sessionID, `
		CREATE sales AS SELECT * FROM raw;
		VIZ sales USING sales;
	`))

	// Replacing the script with one that no longer declares sales/viz
	// should synthesize drop tasks for both retired artifacts.
	require.NoError(t, api.UpdateProgram(context.Background(), sessionID, `SET noop = 1`))

	var sawDropTable, sawDropViz bool
	s, err := api.session(sessionID)
	require.NoError(t, err)
	for _, task := range s.graph.Tasks {
		switch task.Type {
		case domain.TaskDropTable:
			sawDropTable = true
		case domain.TaskDropViz:
			sawDropViz = true
		}
	}
	assert.True(t, sawDropTable)
	assert.True(t, sawDropViz)
}

func TestAPI_UpdateInputValueRequiresDeclareStatement(t *testing.T) {
	api := newTestAPI()
	fe := newRecordingFrontend()
	sessionID := api.CreateSession(fe)

	require.NoError(t, api.UpdateProgram(context.Background(), sessionID, `CREATE sales AS SELECT * FROM raw`))

	err := api.UpdateInputValue(context.Background(), sessionID, 0, evalexpr.Int64Value(5))
	assert.Error(t, err)
}

func TestAPI_UpdateProgramUnknownSessionErrors(t *testing.T) {
	api := newTestAPI()
	err := api.UpdateProgram(context.Background(), uuid.New(), "SET a = 1")
	assert.Error(t, err)
}

func TestAPI_ReleaseSessionForgetsSession(t *testing.T) {
	api := newTestAPI()
	fe := newRecordingFrontend()
	sessionID := api.CreateSession(fe)
	api.ReleaseSession(sessionID)

	err := api.UpdateProgram(context.Background(), sessionID, "SET a = 1")
	assert.Error(t, err)
}
