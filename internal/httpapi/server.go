// Package httpapi exposes the harness as a JSON API over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/sysinfo"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/expect"
	"github.com/aretw0/espalier/pkg/shell"
	"github.com/go-chi/chi/v5"
)

// RunRequest is the body of POST /v1/runs.
type RunRequest struct {
	Command string        `json:"command"`
	Actions domain.Script `json:"actions"`
	// TimeoutSeconds overrides the harness default for this run.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// CommandRequest is the body of POST /v1/commands.
type CommandRequest struct {
	Command string `json:"command"`
	Workdir string `json:"workdir,omitempty"`
	Stdin   string `json:"stdin,omitempty"`
}

// Server holds the HTTP handlers around the harness.
type Server struct {
	Harness *espalier.Harness
}

// NewHandler creates the HTTP handler for the harness.
func NewHandler(harness *espalier.Harness) http.Handler {
	server := &Server{Harness: harness}
	r := chi.NewRouter()

	r.Post("/v1/runs", server.CreateRun)
	r.Get("/v1/runs", server.ListRuns)
	r.Get("/v1/runs/{id}", server.GetRun)
	r.Delete("/v1/runs/{id}", server.DeleteRun)
	r.Post("/v1/commands", server.ExecCommand)
	r.Get("/v1/system-info", server.GetSystemInfo)
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Method("GET", "/metrics", harness.MetricsHandler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateRun handles the POST /v1/runs request.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("CreateRun: Invalid request body", "error", err)
		return
	}

	if strings.TrimSpace(body.Command) == "" {
		http.Error(w, "command is required", http.StatusBadRequest)
		return
	}

	var extra []expect.Option
	if body.TimeoutSeconds > 0 {
		extra = append(extra, expect.WithTimeout(time.Duration(body.TimeoutSeconds)*time.Second))
	}

	transcript, err := s.Harness.RunScript(r.Context(), body.Command, body.Actions, extra...)
	if err != nil {
		var spawnErr *expect.SpawnError
		switch {
		case errors.Is(err, domain.ErrUnknownAction) || errors.Is(err, domain.ErrEmptyActionText):
			http.Error(w, fmt.Sprintf("Invalid script: %v", err), http.StatusBadRequest)
		case errors.Is(err, shell.ErrCommandTooLarge) || errors.Is(err, shell.ErrInvalidUTF8):
			http.Error(w, fmt.Sprintf("Invalid command: %v", err), http.StatusBadRequest)
		case errors.As(err, &spawnErr):
			http.Error(w, fmt.Sprintf("Spawn failed: %v", err), http.StatusUnprocessableEntity)
		default:
			http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
			slog.Error("CreateRun failed", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, transcript)
}

// ListRuns handles the GET /v1/runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Harness.Transcripts().List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		slog.Error("ListRuns failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetRun handles the GET /v1/runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transcript, err := s.Harness.Transcripts().Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTranscriptNotFound) {
			http.Error(w, "Transcript not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		slog.Error("GetRun failed", "error", err, "id", id)
		return
	}

	writeJSON(w, http.StatusOK, transcript)
}

// DeleteRun handles the DELETE /v1/runs/{id} request.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Harness.Transcripts().Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		slog.Error("DeleteRun failed", "error", err, "id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExecCommand handles the POST /v1/commands request.
func (s *Server) ExecCommand(w http.ResponseWriter, r *http.Request) {
	var body CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("ExecCommand: Invalid request body", "error", err)
		return
	}

	if strings.TrimSpace(body.Command) == "" {
		http.Error(w, "command is required", http.StatusBadRequest)
		return
	}

	var opts []shell.ExecOption
	if body.Workdir != "" {
		opts = append(opts, shell.WithDir(body.Workdir))
	}
	if body.Stdin != "" {
		opts = append(opts, shell.WithStdin(body.Stdin))
	}

	result, err := s.Harness.ExecCommand(r.Context(), body.Command, opts...)
	if errors.Is(err, shell.ErrCommandBlocked) {
		writeJSON(w, http.StatusForbidden, result)
		return
	}
	if errors.Is(err, shell.ErrCommandTooLarge) || errors.Is(err, shell.ErrInvalidUTF8) {
		http.Error(w, fmt.Sprintf("Invalid command: %v", err), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Exec error: %v", err), http.StatusInternalServerError)
		slog.Error("ExecCommand failed", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetSystemInfo handles the GET /v1/system-info request.
func (s *Server) GetSystemInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sysinfo.Collect())
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "espalier-http",
		"version": strings.TrimSpace(espalier.Version),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
