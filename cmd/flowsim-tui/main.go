package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-flowsim/pkg/flow"
	"github.com/dd0wney/cluso-flowsim/pkg/logging"
	"github.com/dd0wney/cluso-flowsim/pkg/pubsub"
	"github.com/dd0wney/cluso-flowsim/pkg/sim"
	"github.com/dd0wney/cluso-flowsim/pkg/visualization"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2)

	mapStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(1, 2).
			MarginLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	nodeStyles = map[flow.NodeState]lipgloss.Style{
		flow.NodeNeutral:   lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")),
		flow.NodeActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
		flow.NodeCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")),
		flow.NodeBlocked:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true),
	}

	connStyles = map[flow.ConnectionState]lipgloss.Style{
		flow.ConnPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
		flow.ConnActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		flow.ConnCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")),
	}
)

type keyMap struct {
	Pause   key.Binding
	Speed1  key.Binding
	Speed2  key.Binding
	Speed4  key.Binding
	Process key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Speed1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "speed 1x"),
	),
	Speed2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "speed 2x"),
	),
	Speed4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "speed 4x"),
	),
	Process: key.NewBinding(
		key.WithKeys("p", "tab"),
		key.WithHelp("p", "next process"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Speed1, k.Speed2, k.Speed4, k.Process, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Process},
		{k.Speed1, k.Speed2, k.Speed4},
		{k.Quit},
	}
}

type model struct {
	engine     *sim.Engine
	events     *pubsub.Subscription
	layout     *visualization.GridLayout
	snapshot   *flow.Graph
	help       help.Model
	keys       keyMap
	processIdx int
	width      int
	height     int
}

// stepMsg arrives for every step the engine publishes
type stepMsg struct{}

// waitForStep blocks on the step subscription and converts each event
// into a message. A closed channel means the bus is gone; quit.
func waitForStep(sub *pubsub.Subscription) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-sub.Channel(); !ok {
			return tea.QuitMsg{}
		}
		return stepMsg{}
	}
}

func initialModel(engine *sim.Engine, events *pubsub.Subscription) model {
	idx := 0
	for i, pt := range flow.ProcessTypes() {
		if pt == engine.ProcessType() {
			idx = i
		}
	}
	return model{
		engine:     engine,
		events:     events,
		layout:     visualization.NewGridLayout(nil),
		snapshot:   engine.Snapshot(),
		help:       help.New(),
		keys:       keys,
		processIdx: idx,
	}
}

func (m model) Init() tea.Cmd {
	return waitForStep(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case stepMsg:
		m.snapshot = m.engine.Snapshot()
		return m, waitForStep(m.events)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			m.engine.SetPaused(!m.engine.IsPaused())

		case key.Matches(msg, m.keys.Speed1):
			m.engine.SetSpeed(1)
		case key.Matches(msg, m.keys.Speed2):
			m.engine.SetSpeed(2)
		case key.Matches(msg, m.keys.Speed4):
			m.engine.SetSpeed(4)

		case key.Matches(msg, m.keys.Process):
			types := flow.ProcessTypes()
			m.processIdx = (m.processIdx + 1) % len(types)
			m.engine.Reset(types[m.processIdx])
			m.snapshot = m.engine.Snapshot()
		}
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Process Map: " + string(m.engine.ProcessType())))
	b.WriteString("\n")

	_, steps := m.engine.Stats()
	state := "running"
	if m.engine.IsPaused() {
		state = "paused"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s · speed %dx · %d steps", state, m.engine.Speed(), steps)))
	b.WriteString("\n\n")

	b.WriteString(mapStyle.Render(m.renderMap()))
	b.WriteString("\n")
	b.WriteString(m.renderLegend())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderMap paints nodes and connections onto a rune grid using the
// grid layout's canvas positions
func (m model) renderMap() string {
	positions := m.layout.ComputeLayout(m.snapshot)
	maxX, maxY := visualization.Bounds(positions)

	// Two terminal rows per lane unit so branch offsets stay visible
	width := int(maxX) + 16
	height := int(maxY*2) + 2

	cells := make([][]string, height)
	for y := range cells {
		cells[y] = make([]string, width)
		for x := range cells[y] {
			cells[y][x] = " "
		}
	}

	// Edges first so node glyphs paint over the junctions
	for _, edge := range visualization.RenderableEdges(m.snapshot, positions) {
		style := connStyles[edge.Conn.State]
		fromX, fromY := int(edge.From.X), int(edge.From.Y*2)
		toX, toY := int(edge.To.X), int(edge.To.Y*2)
		row := (fromY + toY) / 2
		if row < 0 || row >= height {
			continue
		}
		glyph := "─"
		if edge.Conn.State == flow.ConnPending {
			glyph = "·"
		}
		for x := fromX + 1; x < toX && x < width; x++ {
			if x >= 0 {
				cells[row][x] = style.Render(glyph)
			}
		}
	}

	for _, n := range m.snapshot.Nodes {
		pos, ok := positions[n.ID]
		if !ok {
			continue
		}
		x, y := int(pos.X), int(pos.Y*2)
		if y < 0 || y >= height || x < 0 || x >= width {
			continue
		}
		cells[y][x] = nodeStyles[n.State].Render("●")

		// Short label to the right of the glyph
		for i, r := range clampLabel(n.Label, 12) {
			lx := x + 2 + i
			if lx >= width {
				break
			}
			cells[y][lx] = labelStyle.Render(string(r))
		}
	}

	rows := make([]string, height)
	for y := range cells {
		rows[y] = strings.Join(cells[y], "")
	}
	return strings.Join(rows, "\n")
}

// clampLabel truncates a label to at most n runes. Rune indices keep
// multi-byte labels from custom templates aligned to grid cells.
func clampLabel(s string, n int) []rune {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return r
}

func (m model) renderLegend() string {
	parts := []string{
		nodeStyles[flow.NodeNeutral].Render("● neutral"),
		nodeStyles[flow.NodeActive].Render("● active"),
		nodeStyles[flow.NodeCompleted].Render("● completed"),
		nodeStyles[flow.NodeBlocked].Render("● blocked"),
	}
	return statusStyle.Render(strings.Join(parts, "   "))
}

func main() {
	process := flag.String("process", "supply-chain", "Process type (supply-chain, maintenance, production)")
	chains := flag.Int("chains", sim.DefaultChainCount, "Number of process chains")
	perturb := flag.Bool("perturb", true, "Enable random blocked-state perturbation")
	flag.Parse()

	bus := pubsub.NewBus()
	defer bus.Shutdown()

	engine, err := sim.New(sim.Config{
		ProcessType:  flow.ProcessType(*process),
		ChainCount:   *chains,
		Perturbation: *perturb,
		Bus:          bus,
		Logger:       logging.NewNopLogger(), // stdout belongs to the TUI
	})
	if err != nil {
		log.Fatalf("Failed to construct engine: %v", err)
	}

	events := bus.Subscribe(context.Background(), pubsub.TopicStep)

	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	defer engine.Stop()

	p := tea.NewProgram(initialModel(engine, events), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
