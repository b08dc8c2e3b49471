package flow

import (
	"strings"
	"testing"

	"errors"
)

func TestBuiltinTemplates(t *testing.T) {
	for _, pt := range ProcessTypes() {
		spec, err := Template(pt)
		if err != nil {
			t.Fatalf("Template(%s) failed: %v", pt, err)
		}
		if len(spec.Stages) < 2 {
			t.Errorf("%s: too few stages (%d)", pt, len(spec.Stages))
		}
		if err := ValidateTemplate(spec); err != nil {
			t.Errorf("%s: built-in template invalid: %v", pt, err)
		}

		// Every connection endpoint references a declared stage
		stages := make(map[string]bool)
		for _, st := range spec.Stages {
			stages[st.ID] = true
		}
		for _, c := range spec.Connections {
			if !stages[c.From] {
				t.Errorf("%s: connection references unknown stage %q", pt, c.From)
			}
			if !stages[c.To] {
				t.Errorf("%s: connection references unknown stage %q", pt, c.To)
			}
		}
	}
}

func TestTemplateUnknownProcessType(t *testing.T) {
	_, err := Template(ProcessType("dishwashing"))
	if err == nil {
		t.Fatal("expected error for unknown process type")
	}
	if !errors.Is(err, ErrUnknownProcessType) {
		t.Errorf("expected ErrUnknownProcessType, got %v", err)
	}
}

func TestBuildGraphInitialState(t *testing.T) {
	for _, pt := range ProcessTypes() {
		spec, err := Template(pt)
		if err != nil {
			t.Fatalf("Template(%s) failed: %v", pt, err)
		}

		g := BuildGraph(spec, 3)

		if len(g.Nodes) != 3*len(spec.Stages) {
			t.Errorf("%s: expected %d nodes, got %d", pt, 3*len(spec.Stages), len(g.Nodes))
		}
		if len(g.Connections) != 3*len(spec.Connections) {
			t.Errorf("%s: expected %d connections, got %d", pt, 3*len(spec.Connections), len(g.Connections))
		}

		for _, n := range g.Nodes {
			if n.EntryStage() {
				if n.State != NodeActive {
					t.Errorf("%s: entry node %s should start active, got %s", pt, n.ID, n.State)
				}
			} else if n.State != NodeNeutral {
				t.Errorf("%s: node %s should start neutral, got %s", pt, n.ID, n.State)
			}
		}
		for _, c := range g.Connections {
			if c.State != ConnPending {
				t.Errorf("%s: connection %s should start pending, got %s", pt, c.ID, c.State)
			}
		}
	}
}

func TestBuildGraphChainScopedIDs(t *testing.T) {
	spec, err := Template(ProcessMaintenance)
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}

	g := BuildGraph(spec, 2)

	for _, id := range []string{"chain-0-wo", "chain-0-close", "chain-1-wo", "chain-1-close"} {
		if g.NodeByID(id) == nil {
			t.Errorf("missing node %s", id)
		}
	}
	if c := g.NodeByID("chain-2-wo"); c != nil {
		t.Error("chain-2 should not exist with chain count 2")
	}
}

func TestBuildGraphLanes(t *testing.T) {
	spec, err := Template(ProcessSupplyChain)
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}

	g := BuildGraph(spec, 3)

	// Chain index sets the lane; branch stages carry an offset
	for _, n := range g.Nodes {
		base := float64(n.Chain)
		diff := n.Position.Y - base
		if diff < -0.5 || diff > 0.5 {
			t.Errorf("node %s lane %f too far from chain lane %f", n.ID, n.Position.Y, base)
		}
	}
}

func TestConnectionID(t *testing.T) {
	id := ConnectionID("chain-0-wo", "chain-0-review")
	if id != "chain-0-wo->chain-0-review" {
		t.Errorf("unexpected connection id %q", id)
	}
	if !strings.Contains(id, "->") {
		t.Error("connection id should encode direction")
	}
}
