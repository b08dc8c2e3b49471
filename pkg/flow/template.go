package flow

import (
	"fmt"
)

// ProcessType selects one of the built-in process templates
type ProcessType string

const (
	ProcessSupplyChain ProcessType = "supply-chain"
	ProcessMaintenance ProcessType = "maintenance"
	ProcessProduction  ProcessType = "production"
)

// ErrUnknownProcessType is returned when a template lookup fails
var ErrUnknownProcessType = fmt.Errorf("unknown process type")

// StageSpec describes one stage of a process template. X is the
// stage index (0 = chain entry), YOffset shifts the lane for branch
// stages that share an X with a sibling.
type StageSpec struct {
	ID      string  `yaml:"id" validate:"required"`
	Label   string  `yaml:"label" validate:"required"`
	X       int     `yaml:"x" validate:"gte=0"`
	YOffset float64 `yaml:"y_offset"`
	Icon    string  `yaml:"icon"`
	Entity  string  `yaml:"entity"`
}

// ConnSpec describes one directed edge of a process template
type ConnSpec struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

// TemplateSpec is the declarative description of a process: its
// stages plus an adjacency list. A single generic constructor folds
// over this record, so adding a process type never adds code paths.
type TemplateSpec struct {
	Name        string      `yaml:"name" validate:"required"`
	Stages      []StageSpec `yaml:"stages" validate:"required,min=2,dive"`
	Connections []ConnSpec  `yaml:"connections" validate:"required,min=1,dive"`
}

var builtinTemplates = map[ProcessType]*TemplateSpec{
	ProcessSupplyChain: {
		Name: "supply-chain",
		Stages: []StageSpec{
			{ID: "pr", Label: "Purchase Request", X: 0, Icon: "file-plus", Entity: "procurement"},
			{ID: "rfq", Label: "RFQ Created", X: 1, Icon: "send", Entity: "procurement"},
			{ID: "quote", Label: "Quotes Received", X: 2, Icon: "inbox", Entity: "supplier"},
			{ID: "po", Label: "PO Issued", X: 3, Icon: "file-check", Entity: "procurement"},
			{ID: "confirm", Label: "Supplier Confirmation", X: 4, Icon: "check-circle", Entity: "supplier"},
			{ID: "transit", Label: "In Transit", X: 5, Icon: "truck", Entity: "logistics"},
			{ID: "receipt", Label: "Goods Receipt", X: 6, Icon: "package", Entity: "warehouse"},
			{ID: "invoice", Label: "Invoice Matched", X: 7, YOffset: -0.35, Icon: "receipt", Entity: "finance"},
			{ID: "inspect", Label: "Quality Inspection", X: 7, YOffset: 0.35, Icon: "search", Entity: "quality"},
		},
		Connections: []ConnSpec{
			{From: "pr", To: "rfq"},
			{From: "rfq", To: "quote"},
			{From: "quote", To: "po"},
			{From: "po", To: "confirm"},
			{From: "confirm", To: "transit"},
			{From: "transit", To: "receipt"},
			{From: "receipt", To: "invoice"},
			{From: "receipt", To: "inspect"},
		},
	},
	ProcessMaintenance: {
		Name: "maintenance",
		Stages: []StageSpec{
			{ID: "wo", Label: "Work Order", X: 0, Icon: "wrench", Entity: "maintenance"},
			{ID: "review", Label: "Review & Approve", X: 1, Icon: "clipboard", Entity: "supervisor"},
			{ID: "wip", Label: "In Progress", X: 2, Icon: "tool", Entity: "technician"},
			{ID: "verify", Label: "Verification", X: 3, Icon: "check-square", Entity: "supervisor"},
			{ID: "close", Label: "Closed", X: 4, Icon: "archive", Entity: "maintenance"},
		},
		Connections: []ConnSpec{
			{From: "wo", To: "review"},
			{From: "review", To: "wip"},
			{From: "wip", To: "verify"},
			{From: "verify", To: "close"},
		},
	},
	ProcessProduction: {
		Name: "production",
		Stages: []StageSpec{
			{ID: "order", Label: "Production Order", X: 0, Icon: "factory", Entity: "planning"},
			{ID: "plan", Label: "Scheduling", X: 1, Icon: "calendar", Entity: "planning"},
			{ID: "material", Label: "Material Staging", X: 2, YOffset: 0.35, Icon: "layers", Entity: "warehouse"},
			{ID: "setup", Label: "Line Setup", X: 2, YOffset: -0.35, Icon: "settings", Entity: "operations"},
			{ID: "assemble", Label: "Assembly", X: 3, Icon: "cpu", Entity: "operations"},
			{ID: "qa", Label: "Quality Check", X: 4, Icon: "shield", Entity: "quality"},
			{ID: "pack", Label: "Packaging", X: 5, Icon: "box", Entity: "warehouse"},
			{ID: "ship", Label: "Shipped", X: 6, Icon: "truck", Entity: "logistics"},
		},
		Connections: []ConnSpec{
			{From: "order", To: "plan"},
			{From: "plan", To: "material"},
			{From: "plan", To: "setup"},
			{From: "material", To: "assemble"},
			{From: "setup", To: "assemble"},
			{From: "assemble", To: "qa"},
			{From: "qa", To: "pack"},
			{From: "pack", To: "ship"},
		},
	},
}

// Template returns the built-in template for a process type
func Template(pt ProcessType) (*TemplateSpec, error) {
	spec, ok := builtinTemplates[pt]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProcessType, pt)
	}
	return spec, nil
}

// ProcessTypes lists the built-in process types in display order
func ProcessTypes() []ProcessType {
	return []ProcessType{ProcessSupplyChain, ProcessMaintenance, ProcessProduction}
}

// BuildGraph instantiates chainCount independent chains of the given
// template into one graph. Node ids are chain scoped
// ("chain-<i>-<stageID>"). The entry stage of each chain starts
// active, everything else neutral; all connections start pending
// unless their source is already completed (never the case for a
// fresh build, but kept so rebuilds from partial specs stay sane).
func BuildGraph(spec *TemplateSpec, chainCount int) *Graph {
	var nodes []*Node
	var conns []*Connection

	for chain := 0; chain < chainCount; chain++ {
		for _, st := range spec.Stages {
			state := NodeNeutral
			if st.X == 0 {
				state = NodeActive
			}
			nodes = append(nodes, &Node{
				ID:    chainNodeID(chain, st.ID),
				Label: st.Label,
				State: state,
				Position: Position{
					X: float64(st.X),
					Y: float64(chain) + st.YOffset,
				},
				Metadata: Metadata{Entity: st.Entity, Icon: st.Icon},
				Chain:    chain,
			})
		}
	}

	g := NewGraph(nodes, nil)

	for chain := 0; chain < chainCount; chain++ {
		for _, cs := range spec.Connections {
			sourceID := chainNodeID(chain, cs.From)
			targetID := chainNodeID(chain, cs.To)
			state := ConnPending
			if src := g.NodeByID(sourceID); src != nil && src.State == NodeCompleted {
				state = ConnActive
			}
			conns = append(conns, &Connection{
				ID:       ConnectionID(sourceID, targetID),
				SourceID: sourceID,
				TargetID: targetID,
				State:    state,
			})
		}
	}

	g.Connections = conns
	return g
}

func chainNodeID(chain int, stageID string) string {
	return fmt.Sprintf("chain-%d-%s", chain, stageID)
}
