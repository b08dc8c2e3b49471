package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/sim"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	g := s.engine.Snapshot()
	s.writeJSON(w, http.StatusOK, SnapshotResponse{
		RunID:       s.engine.RunID(),
		ProcessType: s.engine.ProcessType(),
		Nodes:       g.Nodes,
		Connections: g.Connections,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ticks, steps := s.engine.Stats()
	s.writeJSON(w, http.StatusOK, StatusResponse{
		RunID:       s.engine.RunID(),
		ProcessType: s.engine.ProcessType(),
		Paused:      s.engine.IsPaused(),
		Speed:       s.engine.Speed(),
		Ticks:       ticks,
		Steps:       steps,
		Uptime:      time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.engine.SetPaused(req.Paused)
	s.writeJSON(w, http.StatusOK, map[string]bool{"paused": req.Paused})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SpeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.engine.SetSpeed(req.Speed); err != nil {
		if errors.Is(err, sim.ErrInvalidSpeed) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "set speed failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"speed": req.Speed})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.engine.Reset(req.ProcessType); err != nil {
		if errors.Is(err, flow.ErrUnknownProcessType) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"process_type": string(req.ProcessType)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
