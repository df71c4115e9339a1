package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"jobradar/internal/model"
	"jobradar/internal/pipeline"
)

// Server is the thin HTTP adapter around the pipeline. All run parameters
// are configuration-driven; requests carry nothing.
type Server struct {
	orch   *pipeline.Orchestrator
	runs   model.RunRecorder
	logger *slog.Logger
}

// New returns a server for the given orchestrator and run log.
func New(orch *pipeline.Orchestrator, runs model.RunRecorder, logger *slog.Logger) *Server {
	return &Server{orch: orch, runs: runs, logger: logger}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  s.handleRun, // cron services trigger with GET
		http.MethodPost: s.handleRun,
	}))
	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: s.handleRuns,
	}))
	mux.HandleFunc("/healthz", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: s.handleHealthz,
	}))

	return mux
}

// errorResponse is the fatal-failure shape: success false, an error string,
// no jobs or summary.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleRun executes one pipeline run. The caller always receives well-formed
// JSON; an unexpected panic becomes a 500 with an error string, never a stack
// trace or an empty body.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("pipeline run panicked", "panic", rec)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Success: false,
				Error:   fmt.Sprintf("internal error: %v", rec),
			})
		}
	}()

	s.logger.Info("pipeline run triggered", "remote", r.RemoteAddr)
	res := s.orch.Run(r.Context())
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.Recent(20)
	if err != nil {
		s.logger.Error("run log read failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Success: false, Error: "run log unavailable"})
		return
	}
	if runs == nil {
		runs = []model.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
