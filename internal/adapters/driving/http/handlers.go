package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ReadyResponse lists the result of every readiness check
// @Description Readiness check results
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks"`
}

// SessionResponse is a search session snapshot, with the search error when
// the last backend call failed
// @Description Search session snapshot
type SessionResponse struct {
	domain.Snapshot
	Error string `json:"error,omitempty"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks the repository and the configured stores
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	status := http.StatusOK

	for _, name := range s.checkNames() {
		if err := s.checks[name].Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Repository login
// @Description  Log in to the repository; the bearer token is kept server side
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.Credentials  true  "Login credentials"
// @Success      200      {object}  domain.AuthSession
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Failure      502      {object}  ErrorResponse  "Repository unavailable"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.authService.Login(r.Context(), ensureClientKey(w, r), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.logger.Error("login failed", "error", err)
			writeError(w, http.StatusBadGateway, "login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// handleLogout godoc
// @Summary      Repository logout
// @Description  Invalidate and forget the calling client's bearer token
// @Tags         Authentication
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	key, ok := clientKey(r)
	if !ok {
		writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
		return
	}
	if err := s.authService.Logout(r.Context(), key); err != nil {
		s.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleRegister godoc
// @Summary      Request an account
// @Description  Ask the repository to email an account activation link
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RegistrationRequest  true  "Email address"
// @Success      202      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse  "Invalid email"
// @Failure      502      {object}  ErrorResponse  "Repository unavailable"
// @Router       /auth/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.authService.Register(r.Context(), ensureClientKey(w, r), req); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}
		s.logger.Error("registration failed", "error", err)
		writeError(w, http.StatusBadGateway, "registration failed")
		return
	}

	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "registration email requested"})
}

// handleGetMe godoc
// @Summary      Current repository user
// @Tags         Authentication
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  ErrorResponse  "Not logged in"
// @Router       /auth/me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Search session endpoints

// handleCreateSession godoc
// @Summary      Create a search session
// @Description  Starts a search view and runs the initial unfiltered search
// @Tags         Search
// @Produce      json
// @Success      201  {object}  SessionResponse
// @Failure      502  {object}  SessionResponse  "Initial search failed"
// @Router       /sessions [post]
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.registry.Create(r.Context())
	if session == nil {
		s.logger.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+session.ID())
	s.writeSession(w, http.StatusCreated, session, err)
}

// handleGetSession godoc
// @Summary      Get a search session
// @Tags         Search
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /sessions/{id} [get]
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.writeSession(w, http.StatusOK, session, nil)
}

// handleDeleteSession godoc
// @Summary      Close a search session
// @Tags         Search
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Router       /sessions/{id} [delete]
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.registry.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleSearch godoc
// @Summary      Re-run the search
// @Description  Re-issues the query for the current filter state
// @Tags         Search
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  SessionResponse  "Search failed, previous results kept"
// @Router       /sessions/{id}/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	_, err := session.Search(r.Context())
	s.writeSession(w, http.StatusOK, session, err)
}

// handleCommand godoc
// @Summary      Apply a command
// @Description  Toggles a facet, sets the term or has-file filter, pages or switches view
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Session ID"
// @Param        request  body      domain.CommandRequest  true  "Command"
// @Success      200      {object}  SessionResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      502      {object}  SessionResponse  "Search failed, previous results kept"
// @Router       /sessions/{id}/commands [post]
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req domain.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd, err := req.Command()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = session.Apply(r.Context(), cmd)
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrUnknownDimension) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeSession(w, http.StatusOK, session, err)
}

// handleListEvents godoc
// @Summary      List search events
// @Description  Returns the backend calls issued by a session, newest first
// @Tags         Search
// @Produce      json
// @Param        id     path      string  true   "Session ID"
// @Param        limit  query     int     false  "Maximum events (default 50)"
// @Success      200    {array}   domain.SearchEvent
// @Failure      404    {object}  ErrorResponse
// @Router       /sessions/{id}/events [get]
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := s.registry.Events(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("failed to list search events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list search events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// Helper functions

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (driving.SearchSession, bool) {
	session, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

// writeSession writes the session snapshot. A failed search still returns
// the snapshot, which keeps the last good results, with status 502. A stale
// response means a newer search already won, so it is not an error here.
func (s *Server) writeSession(w http.ResponseWriter, status int, session driving.SearchSession, err error) {
	resp := SessionResponse{Snapshot: session.Snapshot()}
	switch {
	case err == nil, errors.Is(err, domain.ErrStaleResponse):
	case errors.Is(err, domain.ErrSearchFailed):
		resp.Error = err.Error()
		status = http.StatusBadGateway
	default:
		s.logger.Error("search session error", "session_id", session.ID(), "error", err)
		resp.Error = err.Error()
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
