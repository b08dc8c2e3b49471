package sim

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
)

// fixedRand always returns the same value. 0.2 passes the connection
// (0.3) and node (0.5) gates but fails respawn (0.1), which makes
// every advance deterministic without ever re-arming a chain.
type fixedRand struct {
	v float64
}

func (f fixedRand) Float64() float64 { return f.v }
func (f fixedRand) Intn(n int) int   { return 0 }

// seqRand returns scripted values in order, then repeats the last
// one. Intn always picks the first candidate.
type seqRand struct {
	values []float64
	pos    int
}

func (s *seqRand) Float64() float64 {
	if s.pos >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

func (s *seqRand) Intn(n int) int { return 0 }

func newTestEngine(t *testing.T, cfg Config) (*Engine, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	cfg.Clock = mock
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.ProcessType == "" && cfg.Template == nil {
		cfg.ProcessType = flow.ProcessMaintenance
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e, mock
}

// stepOnce advances the mock clock past the throttle window and
// applies one tick
func stepOnce(t *testing.T, e *Engine, mock *clock.Mock) {
	t.Helper()
	mock.Add(2 * time.Second)
	if !e.Tick() {
		t.Fatal("tick did not apply a step")
	}
}

// graphStates flattens node and connection states for comparison
func graphStates(g *flow.Graph) map[string]string {
	states := make(map[string]string, len(g.Nodes)+len(g.Connections))
	for _, n := range g.Nodes {
		states[n.ID] = string(n.State)
	}
	for _, c := range g.Connections {
		states[c.ID] = string(c.State)
	}
	return states
}

func nodeState(t *testing.T, g *flow.Graph, id string) flow.NodeState {
	t.Helper()
	n := g.NodeByID(id)
	if n == nil {
		t.Fatalf("node %s not found", id)
	}
	return n.State
}

func connState(t *testing.T, g *flow.Graph, id string) flow.ConnectionState {
	t.Helper()
	for _, c := range g.Connections {
		if c.ID == id {
			return c.State
		}
	}
	t.Fatalf("connection %s not found", id)
	return ""
}
