package flow

import (
	"testing"
)

func testGraph(t *testing.T) *Graph {
	t.Helper()
	spec, err := Template(ProcessMaintenance)
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}
	return BuildGraph(spec, 1)
}

func TestNodeByIDUnknown(t *testing.T) {
	g := testGraph(t)
	if n := g.NodeByID("chain-9-ghost"); n != nil {
		t.Errorf("expected nil for unknown id, got %v", n)
	}
}

func TestOutgoing(t *testing.T) {
	g := testGraph(t)

	out := g.Outgoing("chain-0-wo")
	if len(out) != 1 {
		t.Fatalf("expected 1 outgoing connection, got %d", len(out))
	}
	if out[0].TargetID != "chain-0-review" {
		t.Errorf("unexpected target %s", out[0].TargetID)
	}

	if out := g.Outgoing("chain-0-close"); len(out) != 0 {
		t.Errorf("terminal node should have no outgoing connections, got %d", len(out))
	}
}

func TestEntryNodes(t *testing.T) {
	spec, err := Template(ProcessSupplyChain)
	if err != nil {
		t.Fatalf("Template failed: %v", err)
	}
	g := BuildGraph(spec, 3)

	entries := g.EntryNodes()
	if len(entries) != 3 {
		t.Fatalf("expected one entry per chain, got %d", len(entries))
	}
	for _, n := range entries {
		if n.Position.X != 0 {
			t.Errorf("entry node %s not at stage 0", n.ID)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	g := testGraph(t)
	snap := g.Snapshot()

	// Mutating the snapshot must not leak back
	snap.Nodes[0].State = NodeBlocked
	snap.Connections[0].State = ConnCompleted

	if g.Nodes[0].State == NodeBlocked {
		t.Error("snapshot node mutation leaked into source graph")
	}
	if g.Connections[0].State == ConnCompleted {
		t.Error("snapshot connection mutation leaked into source graph")
	}

	// And the other way around
	g.Nodes[1].State = NodeActive
	if snap.Nodes[1].State == NodeActive {
		t.Error("source mutation leaked into snapshot")
	}
}

func TestCountNodeStates(t *testing.T) {
	g := testGraph(t)

	counts := g.CountNodeStates()
	if counts[NodeActive] != 1 {
		t.Errorf("expected 1 active node, got %d", counts[NodeActive])
	}
	if counts[NodeNeutral] != len(g.Nodes)-1 {
		t.Errorf("expected %d neutral nodes, got %d", len(g.Nodes)-1, counts[NodeNeutral])
	}
}
