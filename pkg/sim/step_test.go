package sim

import (
	"testing"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
)

// TestRespawnRearmsEntryNode scripts the keep-alive rule: once the
// entry node has completed, a successful respawn roll re-activates
// it and resets its outgoing connections to pending.
func TestRespawnRearmsEntryNode(t *testing.T) {
	e, mock := newTestEngine(t, Config{
		ProcessType: flow.ProcessMaintenance,
		ChainCount:  1,
		Rand: &seqRand{values: []float64{
			0.2, 0.9, // step 1: wo completes, respawn roll fails
			0.9, 0.05, // step 2: edge stalls, respawn roll passes
		}},
	})

	stepOnce(t, e, mock)
	g := e.Snapshot()
	if got := nodeState(t, g, "chain-0-wo"); got != flow.NodeCompleted {
		t.Fatalf("setup: wo should be completed, got %s", got)
	}
	if got := connState(t, g, "chain-0-wo->chain-0-review"); got != flow.ConnActive {
		t.Fatalf("setup: wo->review should be active, got %s", got)
	}

	stepOnce(t, e, mock)
	g = e.Snapshot()
	if got := nodeState(t, g, "chain-0-wo"); got != flow.NodeActive {
		t.Errorf("respawn should re-activate the entry node, got %s", got)
	}
	if got := connState(t, g, "chain-0-wo->chain-0-review"); got != flow.ConnPending {
		t.Errorf("respawn should reset outgoing connections to pending, got %s", got)
	}
	if got := nodeState(t, g, "chain-0-review"); got != flow.NodeNeutral {
		t.Errorf("respawn must not touch downstream nodes, got %s", got)
	}
}

// TestRespawnEntryStageOnly: a completed node past the entry stage
// is never a respawn target
func TestRespawnEntryStageOnly(t *testing.T) {
	e, mock := newTestEngine(t, Config{
		ProcessType: flow.ProcessMaintenance,
		ChainCount:  1,
		Rand: &seqRand{values: []float64{
			0.2, 0.9, // step 1: wo completes
			0.2, 0.9, // step 2: wo->review delivers, review activates
			0.2, 0.9, // step 3: review completes
			0.9, 0.05, // step 4: respawn roll passes
		}},
	})

	for i := 0; i < 4; i++ {
		stepOnce(t, e, mock)
	}

	g := e.Snapshot()
	if got := nodeState(t, g, "chain-0-wo"); got != flow.NodeActive {
		t.Errorf("entry node should have respawned, got %s", got)
	}
	if got := nodeState(t, g, "chain-0-review"); got != flow.NodeCompleted {
		t.Errorf("completed mid-chain node must stay completed, got %s", got)
	}
	if got := connState(t, g, "chain-0-review->chain-0-wip"); got != flow.ConnActive {
		t.Errorf("downstream connection must keep its state, got %s", got)
	}
}

// TestDanglingConnectionTolerated: a connection whose target does
// not exist advances normally and never panics
func TestDanglingConnectionTolerated(t *testing.T) {
	tmpl := &flow.TemplateSpec{
		Name: "dangling",
		Stages: []flow.StageSpec{
			{ID: "a", Label: "A", X: 0},
			{ID: "b", Label: "B", X: 1},
		},
		Connections: []flow.ConnSpec{
			{From: "a", To: "b"},
			{From: "a", To: "ghost"},
		},
	}

	e, mock := newTestEngine(t, Config{
		Template:   tmpl,
		ChainCount: 1,
		Rand:       fixedRand{v: 0.2},
	})

	// Step 1 completes a and arms both edges; step 2 delivers both,
	// one of them into nothing
	stepOnce(t, e, mock)
	stepOnce(t, e, mock)

	g := e.Snapshot()
	if got := nodeState(t, g, "chain-0-b"); got != flow.NodeActive {
		t.Errorf("real target should have activated, got %s", got)
	}
	if got := connState(t, g, "chain-0-a->chain-0-ghost"); got != flow.ConnCompleted {
		t.Errorf("dangling connection should still complete, got %s", got)
	}
}

// TestPerturbation scripts the optional blocked-state flips: an
// active node gets forced to blocked, then restored
func TestPerturbation(t *testing.T) {
	e, mock := newTestEngine(t, Config{
		ProcessType:  flow.ProcessMaintenance,
		ChainCount:   1,
		Perturbation: true,
		Rand: &seqRand{values: []float64{
			0.9, 0.9, 0.01, 0.9, // step 1: advances fail, block roll hits wo
			0.9, 0.9, 0.1, // step 2: block roll misses, unblock roll hits
		}},
	})

	stepOnce(t, e, mock)
	g := e.Snapshot()
	if got := nodeState(t, g, "chain-0-wo"); got != flow.NodeBlocked {
		t.Fatalf("active node should have been forced to blocked, got %s", got)
	}

	stepOnce(t, e, mock)
	g = e.Snapshot()
	if got := nodeState(t, g, "chain-0-wo"); got != flow.NodeActive {
		t.Errorf("blocked node should have been restored to active, got %s", got)
	}
}

// TestPerturbationDisabled: without the flag, the blocked state is
// unreachable
func TestPerturbationDisabled(t *testing.T) {
	e, mock := newTestEngine(t, Config{
		ProcessType: flow.ProcessSupplyChain,
		ChainCount:  3,
		Rand:        fixedRand{v: 0.2},
	})

	for i := 0; i < 20; i++ {
		stepOnce(t, e, mock)
	}
	for _, n := range e.Snapshot().Nodes {
		if n.State == flow.NodeBlocked {
			t.Fatalf("node %s is blocked with perturbation disabled", n.ID)
		}
	}
}
