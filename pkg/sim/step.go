package sim

import (
	"time"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/pubsub"
)

// Tick evaluates one timer tick. A tick applies a step only when the
// engine is unpaused and the throttle window for the current speed
// has elapsed, so the base timer can run faster than the visible
// cadence without ever double-stepping. Returns true when a step was
// applied.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	e.ticks++

	if e.paused {
		e.mu.Unlock()
		e.recordTick("paused")
		return false
	}

	now := e.clk.Now()
	if !e.lastStep.IsZero() && now.Sub(e.lastStep) < e.stepWindow() {
		e.mu.Unlock()
		e.recordTick("throttled")
		return false
	}

	start := time.Now()
	transitions := e.step()
	e.lastStep = now
	e.steps++
	tick, step := e.ticks, e.steps
	e.updateGauges()
	e.mu.Unlock()

	e.recordTick("applied")
	if e.met != nil {
		e.met.RecordStep(time.Since(start))
	}
	e.log.Debug("step applied",
		logging.Tick(tick),
		logging.Count(len(transitions)))

	if e.bus != nil {
		for _, tr := range transitions {
			e.bus.Publish(pubsub.TopicTransition, tr)
		}
		e.bus.Publish(pubsub.TopicStep, StepEvent{
			RunID:       e.runID,
			Tick:        tick,
			Step:        step,
			Transitions: transitions,
			At:          now,
		})
	}
	return true
}

// step applies one full transition pass. Caller holds the mutex.
//
// Connection advance runs before node advance so a node activated by
// an arriving connection stays visibly active for at least one
// window instead of completing in the same step.
func (e *Engine) step() []Transition {
	var trs []Transition

	// Nodes activated during the connection phase sit out the node
	// phase of this step
	activated := make(map[string]bool)

	// 1. Active connections deliver: the edge completes and wakes a
	// neutral target. Dangling targets are skipped, never fatal.
	for _, c := range e.graph.Connections {
		if c.State != flow.ConnActive {
			continue
		}
		if e.rnd.Float64() >= connAdvanceProbability {
			continue
		}
		trs = e.setConnState(trs, c, flow.ConnCompleted)
		if target := e.graph.NodeByID(c.TargetID); target != nil && target.State == flow.NodeNeutral {
			trs = e.setNodeState(trs, target, flow.NodeActive)
			activated[target.ID] = true
		}
	}

	// 2. Active nodes complete and broadcast to every pending
	// outgoing edge
	for _, n := range e.graph.Nodes {
		if n.State != flow.NodeActive || activated[n.ID] {
			continue
		}
		if e.rnd.Float64() >= nodeAdvanceProbability {
			continue
		}
		trs = e.setNodeState(trs, n, flow.NodeCompleted)
		for _, c := range e.graph.Outgoing(n.ID) {
			if c.State == flow.ConnPending {
				trs = e.setConnState(trs, c, flow.ConnActive)
			}
		}
	}

	// 3. Keep-alive: occasionally re-arm one completed entry node so
	// the graph never drains to all-completed
	trs = e.respawn(trs)

	// 4. Optional blocked-state perturbation
	if e.perturbation {
		trs = e.perturb(trs)
	}

	return trs
}

// respawn picks uniformly among entry-stage nodes that are completed
// or neutral; only a completed pick re-activates (and its outgoing
// edges re-arm to pending)
func (e *Engine) respawn(trs []Transition) []Transition {
	if e.rnd.Float64() >= respawnProbability {
		return trs
	}

	var candidates []*flow.Node
	for _, n := range e.graph.Nodes {
		if n.EntryStage() && (n.State == flow.NodeCompleted || n.State == flow.NodeNeutral) {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return trs
	}

	pick := candidates[e.rnd.Intn(len(candidates))]
	if pick.State != flow.NodeCompleted {
		return trs
	}

	trs = e.setNodeState(trs, pick, flow.NodeActive)
	for _, c := range e.graph.Outgoing(pick.ID) {
		if c.State != flow.ConnPending {
			trs = e.setConnState(trs, c, flow.ConnPending)
		}
	}
	if e.met != nil {
		e.met.RecordRespawn()
	}
	e.log.Debug("entry node respawned",
		logging.NodeID(pick.ID),
		logging.Chain(pick.Chain))
	return trs
}

// perturb flips an arbitrary active node to blocked with low
// probability, and restores an arbitrary blocked node with a higher
// one. Purely cosmetic; decoupled from the advance rules.
func (e *Engine) perturb(trs []Transition) []Transition {
	if e.rnd.Float64() < blockProbability {
		if actives := e.nodesInState(flow.NodeActive); len(actives) > 0 {
			n := actives[e.rnd.Intn(len(actives))]
			trs = e.setNodeState(trs, n, flow.NodeBlocked)
		}
	}
	if e.rnd.Float64() < unblockProbability {
		if blocked := e.nodesInState(flow.NodeBlocked); len(blocked) > 0 {
			n := blocked[e.rnd.Intn(len(blocked))]
			trs = e.setNodeState(trs, n, flow.NodeActive)
		}
	}
	return trs
}

func (e *Engine) nodesInState(state flow.NodeState) []*flow.Node {
	var out []*flow.Node
	for _, n := range e.graph.Nodes {
		if n.State == state {
			out = append(out, n)
		}
	}
	return out
}

func (e *Engine) setNodeState(trs []Transition, n *flow.Node, to flow.NodeState) []Transition {
	from := n.State
	n.State = to
	if e.met != nil {
		e.met.RecordTransition(string(KindNode), string(to))
	}
	return append(trs, Transition{
		Kind: KindNode,
		ID:   n.ID,
		From: string(from),
		To:   string(to),
	})
}

func (e *Engine) setConnState(trs []Transition, c *flow.Connection, to flow.ConnectionState) []Transition {
	from := c.State
	c.State = to
	if e.met != nil {
		e.met.RecordTransition(string(KindConnection), string(to))
	}
	e.log.Debug("connection transition",
		logging.ConnID(c.ID),
		logging.String("to", string(to)))
	return append(trs, Transition{
		Kind: KindConnection,
		ID:   c.ID,
		From: string(from),
		To:   string(to),
	})
}

func (e *Engine) recordTick(result string) {
	if e.met != nil {
		e.met.RecordTick(result)
	}
}
