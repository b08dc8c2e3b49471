// Package sim drives the process-map animation: a periodic
// randomized walk over a fixed graph of process chains. Connections
// carry work toward their targets, nodes complete and broadcast to
// their outgoing edges, and completed entry nodes occasionally
// respawn so the graph never drains to a standstill.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/metrics"
	"github.com/dd0wney/cluso-flowsim/pkg/pubsub"
)

const (
	// DefaultChainCount is how many independent process instances
	// run side by side
	DefaultChainCount = 3

	// tickInterval is the base resolution of the step timer. The
	// throttle window below decides which ticks actually step.
	tickInterval = time.Second

	// stepWindowBase divided by speed gives the minimum interval
	// between applied steps
	stepWindowBase = 2 * time.Second

	// Transition gate probabilities
	connAdvanceProbability = 0.3
	nodeAdvanceProbability = 0.5
	respawnProbability     = 0.1
	blockProbability       = 0.05
	unblockProbability     = 0.3
)

// validSpeeds are the supported playback multipliers
var validSpeeds = map[int]bool{1: true, 2: true, 4: true}

// ErrInvalidSpeed is returned by SetSpeed for unsupported multipliers
var ErrInvalidSpeed = fmt.Errorf("speed must be 1, 2 or 4")

// Config configures an Engine. The zero value plus a process type is
// a working setup; nil collaborators fall back to defaults.
type Config struct {
	ProcessType flow.ProcessType
	// Template overrides the built-in template for ProcessType,
	// e.g. one loaded from YAML
	Template   *flow.TemplateSpec
	ChainCount int
	Speed      int
	// Perturbation enables the random blocked-state flips that
	// exercise the blocked visual
	Perturbation bool

	Rand    Rand
	Clock   clock.Clock
	Logger  logging.Logger
	Bus     *pubsub.Bus
	Metrics *metrics.Registry
}

// Engine owns one process graph and advances it on a timer. All
// methods are safe for concurrent use; the step loop and any UI or
// API callers share the one mutex.
type Engine struct {
	mu sync.Mutex

	runID        string
	processType  flow.ProcessType
	template     *flow.TemplateSpec
	chainCount   int
	perturbation bool

	graph    *flow.Graph
	paused   bool
	speed    int
	lastStep time.Time
	ticks    int64
	steps    int64

	rnd Rand
	clk clock.Clock
	log logging.Logger
	bus *pubsub.Bus
	met *metrics.Registry

	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New constructs an engine per the config. The entry node of every
// chain starts active, all other nodes neutral, all connections
// pending.
func New(cfg Config) (*Engine, error) {
	if cfg.ChainCount <= 0 {
		cfg.ChainCount = DefaultChainCount
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1
	}
	if !validSpeeds[cfg.Speed] {
		return nil, fmt.Errorf("config: %w (got %d)", ErrInvalidSpeed, cfg.Speed)
	}
	if cfg.Rand == nil {
		cfg.Rand = NewRand()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.DefaultLogger()
	}

	tmpl := cfg.Template
	if tmpl == nil {
		var err error
		tmpl, err = flow.Template(cfg.ProcessType)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		runID:        uuid.NewString(),
		processType:  cfg.ProcessType,
		template:     tmpl,
		chainCount:   cfg.ChainCount,
		perturbation: cfg.Perturbation,
		graph:        flow.BuildGraph(tmpl, cfg.ChainCount),
		speed:        cfg.Speed,
		rnd:          cfg.Rand,
		clk:          cfg.Clock,
		log:          cfg.Logger.With(logging.Component("sim")),
		bus:          cfg.Bus,
		met:          cfg.Metrics,
	}

	e.log.Info("engine constructed",
		logging.RunID(e.runID),
		logging.ProcessType(string(e.processType)),
		logging.Count(len(e.graph.Nodes)))
	e.updateGauges()
	return e, nil
}

// RunID identifies this engine instance in events and logs
func (e *Engine) RunID() string {
	return e.runID
}

// ProcessType returns the currently simulated process type
func (e *Engine) ProcessType() flow.ProcessType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processType
}

// Snapshot returns a deep copy of the current graph, safe to render
// while the engine keeps stepping
func (e *Engine) Snapshot() *flow.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Snapshot()
}

// IsPaused reports whether the step loop is suspended
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// SetPaused suspends or resumes stepping. Graph state is untouched
// either way.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
	if e.met != nil {
		e.met.SetPaused(paused)
	}
	e.log.Debug("paused changed", logging.Bool("paused", paused))
}

// Speed returns the current playback multiplier
func (e *Engine) Speed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the playback multiplier. Takes effect on the next
// tick evaluation; no step is recomputed immediately.
func (e *Engine) SetSpeed(speed int) error {
	if !validSpeeds[speed] {
		return fmt.Errorf("%w (got %d)", ErrInvalidSpeed, speed)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = speed
	if e.met != nil {
		e.met.SetSpeed(speed)
	}
	e.log.Debug("speed changed", logging.Speed(speed))
	return nil
}

// Reset rebuilds the graph for the given process type, discarding
// all prior node and connection state. Playback flags survive.
func (e *Engine) Reset(pt flow.ProcessType) error {
	tmpl, err := flow.Template(pt)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.processType = pt
	e.template = tmpl
	e.graph = flow.BuildGraph(tmpl, e.chainCount)
	e.lastStep = time.Time{}
	e.updateGauges()
	runID := e.runID
	e.mu.Unlock()

	e.log.Info("engine reset", logging.ProcessType(string(pt)))
	if e.bus != nil {
		e.bus.Publish(pubsub.TopicReset, ResetEvent{
			RunID:       runID,
			ProcessType: pt,
			At:          e.clk.Now(),
		})
	}
	return nil
}

// stepWindow is the minimum interval between applied steps at the
// current speed
func (e *Engine) stepWindow() time.Duration {
	return stepWindowBase / time.Duration(e.speed)
}

func (e *Engine) updateGauges() {
	if e.met == nil {
		return
	}
	e.met.SetSpeed(e.speed)
	e.met.SetPaused(e.paused)
	counts := e.graph.CountNodeStates()
	for _, s := range []flow.NodeState{flow.NodeNeutral, flow.NodeActive, flow.NodeCompleted, flow.NodeBlocked} {
		e.met.SetNodeStateCount(string(s), counts[s])
	}
}
