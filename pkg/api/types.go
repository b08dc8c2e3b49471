package api

import (
	"github.com/dd0wney/cluso-flowsim/pkg/flow"
)

// SnapshotResponse is the rendered view of the graph at one moment
type SnapshotResponse struct {
	RunID       string             `json:"run_id"`
	ProcessType flow.ProcessType   `json:"process_type"`
	Nodes       []*flow.Node       `json:"nodes"`
	Connections []*flow.Connection `json:"connections"`
}

// StatusResponse reports playback state and counters
type StatusResponse struct {
	RunID       string           `json:"run_id"`
	ProcessType flow.ProcessType `json:"process_type"`
	Paused      bool             `json:"paused"`
	Speed       int              `json:"speed"`
	Ticks       int64            `json:"ticks"`
	Steps       int64            `json:"steps"`
	Uptime      float64          `json:"uptime_seconds"`
}

// PauseRequest toggles the step loop
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// SpeedRequest changes the playback multiplier
type SpeedRequest struct {
	Speed int `json:"speed"`
}

// ResetRequest rebuilds the graph for a process type
type ResetRequest struct {
	ProcessType flow.ProcessType `json:"process_type"`
}

// ErrorResponse carries a user-safe error message
type ErrorResponse struct {
	Error string `json:"error"`
}
