package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/pubsub"
	"github.com/dd0wney/cluso-flowsim/pkg/sim"
)

// handleEvents streams simulation events as server-sent events. One
// "step" event per applied step, one "transition" event per individual
// state change, one "reset" event per graph rebuild. The stream ends
// when the client disconnects or the bus shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	stepSub := s.bus.Subscribe(r.Context(), pubsub.TopicStep)
	transitionSub := s.bus.Subscribe(r.Context(), pubsub.TopicTransition)
	resetSub := s.bus.Subscribe(r.Context(), pubsub.TopicReset)
	if stepSub == nil || transitionSub == nil || resetSub == nil {
		s.writeError(w, http.StatusServiceUnavailable, "event bus is shut down")
		return
	}
	defer stepSub.Unsubscribe()
	defer transitionSub.Unsubscribe()
	defer resetSub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.log.Debug("event stream opened")
	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-stepSub.Channel():
			if !ok {
				return
			}
			if step, isStep := ev.(sim.StepEvent); isStep {
				if err := writeSSE(w, "step", step); err != nil {
					s.log.Debug("event stream closed", logging.Error(err))
					return
				}
				flusher.Flush()
			}
		case ev, ok := <-transitionSub.Channel():
			if !ok {
				return
			}
			if tr, isTr := ev.(sim.Transition); isTr {
				if err := writeSSE(w, "transition", tr); err != nil {
					s.log.Debug("event stream closed", logging.Error(err))
					return
				}
				flusher.Flush()
			}
		case ev, ok := <-resetSub.Channel():
			if !ok {
				return
			}
			if reset, isReset := ev.(sim.ResetEvent); isReset {
				if err := writeSSE(w, "reset", reset); err != nil {
					s.log.Debug("event stream closed", logging.Error(err))
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
