// Package visualization projects the logical (stage, lane)
// coordinates of a process graph onto canvas positions for a
// renderer. The projection is stateless; the simulation never
// depends on it.
package visualization

import (
	"github.com/dd0wney/cluso-flowsim/pkg/flow"
)

// Position represents a 2D canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is one renderable connection with resolved endpoints
type Edge struct {
	Conn *flow.Connection
	From Position
	To   Position
}

// LayoutConfig configures the grid projection
type LayoutConfig struct {
	StageSpacing float64 // Horizontal distance between stages
	LaneSpacing  float64 // Vertical distance between chains
	Padding      float64 // Padding from the canvas origin
}

// DefaultLayoutConfig returns spacing that suits a terminal canvas
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{
		StageSpacing: 14,
		LaneSpacing:  4,
		Padding:      2,
	}
}

// GridLayout maps logical node positions onto a canvas grid. Branch
// stages already carry fractional lane offsets in their logical Y,
// so the projection is a plain affine transform.
type GridLayout struct {
	config *LayoutConfig
}

// NewGridLayout creates a grid layout
func NewGridLayout(config *LayoutConfig) *GridLayout {
	if config == nil {
		config = DefaultLayoutConfig()
	}
	if config.StageSpacing == 0 {
		config.StageSpacing = 14
	}
	if config.LaneSpacing == 0 {
		config.LaneSpacing = 4
	}
	return &GridLayout{config: config}
}

// ComputeLayout returns a canvas position for every node in the graph
func (gl *GridLayout) ComputeLayout(g *flow.Graph) map[string]Position {
	positions := make(map[string]Position, len(g.Nodes))
	for _, n := range g.Nodes {
		positions[n.ID] = Position{
			X: gl.config.Padding + n.Position.X*gl.config.StageSpacing,
			Y: gl.config.Padding + n.Position.Y*gl.config.LaneSpacing,
		}
	}
	return positions
}

// RenderableEdges resolves connections against computed positions.
// A connection referencing a missing node is skipped, not an error.
func RenderableEdges(g *flow.Graph, positions map[string]Position) []Edge {
	edges := make([]Edge, 0, len(g.Connections))
	for _, c := range g.Connections {
		from, okFrom := positions[c.SourceID]
		to, okTo := positions[c.TargetID]
		if !okFrom || !okTo {
			continue
		}
		edges = append(edges, Edge{Conn: c, From: from, To: to})
	}
	return edges
}

// Bounds returns the max canvas coordinates over all positions,
// useful for sizing the drawing surface
func Bounds(positions map[string]Position) (maxX, maxY float64) {
	for _, p := range positions {
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return maxX, maxY
}
