package flow

// Graph owns the nodes and connections of one simulation run.
// Nodes and connections keep insertion order for stable iteration;
// the id index is rebuilt whenever the graph is constructed.
//
// A connection may reference a node id that is not present (for
// example when a template was edited by hand). That is tolerated
// everywhere: lookups return nil and callers skip the edge.
type Graph struct {
	Nodes       []*Node
	Connections []*Connection

	nodeIndex map[string]*Node
}

// NewGraph builds a graph from ordered node and connection slices
func NewGraph(nodes []*Node, connections []*Connection) *Graph {
	g := &Graph{
		Nodes:       nodes,
		Connections: connections,
		nodeIndex:   make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		g.nodeIndex[n.ID] = n
	}
	return g
}

// NodeByID returns the node with the given id, or nil if the id is
// unknown. Never panics on dangling references.
func (g *Graph) NodeByID(id string) *Node {
	if g.nodeIndex == nil {
		return nil
	}
	return g.nodeIndex[id]
}

// Outgoing returns every connection whose source is the given node id
func (g *Graph) Outgoing(nodeID string) []*Connection {
	var out []*Connection
	for _, c := range g.Connections {
		if c.SourceID == nodeID {
			out = append(out, c)
		}
	}
	return out
}

// EntryNodes returns the nodes at the first stage of each chain
func (g *Graph) EntryNodes() []*Node {
	var entries []*Node
	for _, n := range g.Nodes {
		if n.EntryStage() {
			entries = append(entries, n)
		}
	}
	return entries
}

// Snapshot returns a deep copy safe to hand to a renderer while the
// engine keeps mutating the original
func (g *Graph) Snapshot() *Graph {
	nodes := make([]*Node, len(g.Nodes))
	for i, n := range g.Nodes {
		cp := *n
		nodes[i] = &cp
	}
	conns := make([]*Connection, len(g.Connections))
	for i, c := range g.Connections {
		cp := *c
		conns[i] = &cp
	}
	return NewGraph(nodes, conns)
}

// CountNodeStates tallies nodes per state, useful for gauges and
// status endpoints
func (g *Graph) CountNodeStates() map[NodeState]int {
	counts := make(map[NodeState]int, 4)
	for _, n := range g.Nodes {
		counts[n.State]++
	}
	return counts
}
