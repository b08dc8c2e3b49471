package sim

import (
	"time"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
)

// TransitionKind says whether a transition touched a node or a
// connection
type TransitionKind string

const (
	KindNode       TransitionKind = "node"
	KindConnection TransitionKind = "connection"
)

// Transition records one state change applied during a step
type Transition struct {
	Kind TransitionKind `json:"kind"`
	ID   string         `json:"id"`
	From string         `json:"from"`
	To   string         `json:"to"`
}

// StepEvent is published on TopicStep after every applied step
type StepEvent struct {
	RunID       string       `json:"run_id"`
	Tick        int64        `json:"tick"`
	Step        int64        `json:"step"`
	Transitions []Transition `json:"transitions"`
	At          time.Time    `json:"at"`
}

// ResetEvent is published on TopicReset when the graph is rebuilt
type ResetEvent struct {
	RunID       string           `json:"run_id"`
	ProcessType flow.ProcessType `json:"process_type"`
	At          time.Time        `json:"at"`
}
