package flow

import "fmt"

// NodeState represents the lifecycle state of a process node
type NodeState string

const (
	NodeNeutral   NodeState = "neutral"
	NodeActive    NodeState = "active"
	NodeCompleted NodeState = "completed"
	NodeBlocked   NodeState = "blocked"
)

// ConnectionState represents the lifecycle state of a connection
type ConnectionState string

const (
	ConnPending   ConnectionState = "pending"
	ConnActive    ConnectionState = "active"
	ConnCompleted ConnectionState = "completed"
)

// Position holds the logical layout coordinates of a node.
// X is the stage index within a chain, Y the lane (chain index
// plus a manual offset for branch stages). Layout only; the
// simulation never reads Y.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Metadata carries descriptive fields that are inert with respect
// to the simulation
type Metadata struct {
	Entity string `json:"entity,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// Node is one stage instance within a process chain
type Node struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	State    NodeState `json:"state"`
	Position Position  `json:"position"`
	Metadata Metadata  `json:"metadata,omitempty"`
	Chain    int       `json:"chain"`
}

// Connection is a directed edge between two nodes
type Connection struct {
	ID       string          `json:"id"`
	SourceID string          `json:"source_id"`
	TargetID string          `json:"target_id"`
	State    ConnectionState `json:"state"`
}

// ConnectionID derives a connection's identity from its endpoints
func ConnectionID(sourceID, targetID string) string {
	return fmt.Sprintf("%s->%s", sourceID, targetID)
}

// EntryStage returns true if the node sits at the first stage of
// its chain
func (n *Node) EntryStage() bool {
	return n.Position.X == 0
}
