package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dashql/dashql/internal/domain/evalexpr"
)

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token,omitempty"`
}

// handleCreateSession registers a new session and, when JWT auth is
// configured, issues a bearer token scoped to it for the websocket
// upgrade.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := s.api.CreateSession(s.frontendFor())

	resp := createSessionResponse{SessionID: sessionID.String()}
	if s.auth != nil {
		token, err := s.auth.GenerateToken(sessionID.String(), tokenExpiry())
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to issue session token")
		} else {
			resp.Token = token
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

type updateProgramRequest struct {
	Script string `json:"script"`
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	var req updateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.api.UpdateProgram(r.Context(), sessionID, req.Script); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID.String()).Msg("update_program failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type updateInputRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleUpdateInputValue(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	stmtID, err := strconv.Atoi(r.PathValue("stmt"))
	if err != nil {
		http.Error(w, "invalid statement id", http.StatusBadRequest)
		return
	}

	var req updateInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	value := evalexpr.VarcharValue(req.Value)
	if err := s.api.UpdateInputValue(r.Context(), sessionID, domainStatementID(stmtID), value); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID.String()).Msg("update_input_value failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleReleaseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	s.api.ReleaseSession(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
