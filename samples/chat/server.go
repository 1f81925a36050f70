// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jochenvw/cloudservicepipe/pipe"
)

// askRequest is the JSON body for POST /ask.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the JSON body returned from POST /ask.
type askResponse struct {
	RunID    string `json:"runId"`
	Answer   string `json:"answer"`
	Rounds   int    `json:"rounds"`
	Function string `json:"function,omitempty"`
}

// server answers questions over HTTP, one orchestration per request.
type server struct {
	orch   *pipe.Orchestrator
	apiKey string
	logger *slog.Logger
	mux    *http.ServeMux
}

// newServer creates a server. If apiKey is empty, /ask is unauthenticated.
func newServer(orch *pipe.Orchestrator, apiKey string, logger *slog.Logger) *server {
	s := &server{
		orch:   orch,
		apiKey: apiKey,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /ask", s.handleAsk)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
	s.mux.ServeHTTP(w, r)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" && extractBearer(r) != s.apiKey {
		s.logger.Warn("unauthorized ask", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	out, err := s.orch.Run(r.Context(), req.Question)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, pipe.ErrCancelled) {
			// Client went away; nobody reads this.
			status = http.StatusServiceUnavailable
		}
		s.logger.Error("ask failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "orchestration failed"})
		return
	}

	resp := askResponse{
		RunID:  out.RunID,
		Answer: out.Answer,
		Rounds: out.Rounds,
	}
	if out.FunctionCall != nil {
		resp.Function = out.FunctionCall.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

func extractBearer(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
