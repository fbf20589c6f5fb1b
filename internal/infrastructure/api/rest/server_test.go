package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/application/operators"
	"github.com/dashql/dashql/internal/infrastructure/adapters"
	"github.com/dashql/dashql/internal/infrastructure/frontend/ws"
	"github.com/dashql/dashql/pkg/workflow"
)

func newTestServer(t *testing.T, cfg ServerConfig) *Server {
	t.Helper()
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
	api := workflow.NewAPI(adapters.ParseProgram, adapters.NewMemoryDatabase(), adapters.NewLocalRuntime(), ops, zerolog.Nop(), 4)
	hub := ws.NewHub(zerolog.Nop())
	go hub.Run()

	return NewServer(api, hub, http.NotFoundHandler(), nil, nil, zerolog.Nop(), cfg)
}

func TestServer_HealthReturnsOK(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_CreateSessionThenUpdateProgram(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)
	assert.Empty(t, created.Token, "no token is issued without a configured JWTAuth")

	body, _ := json.Marshal(updateProgramRequest{Script: "CREATE sales AS SELECT * FROM raw; VIZ sales USING sales;"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/program", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestServer_UpdateProgramRejectsUnknownSession(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	body, _ := json.Marshal(updateProgramRequest{Script: "SET a = 1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/00000000-0000-0000-0000-000000000000/program", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_UpdateProgramRejectsInvalidSessionID(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/not-a-uuid/program", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_ReleaseSessionReturnsNoContent(t *testing.T) {
	s := newTestServer(t, ServerConfig{})

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	var created createSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+created.SessionID, nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestServer_RequiresAPIKeyWhenConfigured(t *testing.T) {
	s := newTestServer(t, ServerConfig{APIKeys: []string{"secret-key"}})

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	req.Header.Set("X-API-Key", "secret-key")
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestServer_IssuesTokenWhenJWTAuthConfigured(t *testing.T) {
	s := newTestServer(t, ServerConfig{})
	s.auth = ws.NewJWTAuth("test-secret")

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
}

func TestServer_CORSRespondsToPreflight(t *testing.T) {
	s := newTestServer(t, ServerConfig{EnableCORS: true})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
