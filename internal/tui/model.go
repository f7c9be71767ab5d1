// Package tui is the local terminal tank: a bubbletea program that renders
// the running simulation and turns key presses into tank commands.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moorebrett0/triops/internal/sim"
	"github.com/moorebrett0/triops/internal/triops"
)

// TemperatureStep is how far one +/- press moves the heater.
const TemperatureStep = 0.5

// Tank is the simulation surface the terminal drives.
type Tank interface {
	Snapshot() sim.Snapshot
	Log() []triops.Event

	Feed() bool
	Clean() bool
	Aerate() bool
	ToggleLight() bool
	AdjustTemperature(delta float64) bool
	Disturb() bool
	Restart()
}

// Thinker produces flavor text. *brain.Brain satisfies it, nil included.
type Thinker interface {
	Thought(ctx context.Context, snap sim.Snapshot) string
	Fact(ctx context.Context) string
}

type refreshMsg time.Time

type flavorMsg struct {
	text string
}

// Model is the bubbletea model of the terminal tank.
type Model struct {
	tank    Tank
	thinker Thinker
	refresh time.Duration

	snap   sim.Snapshot
	log    []triops.Event
	flavor string
	busy   bool

	width    int
	height   int
	quitting bool

	styles Styles
}

// New creates the model. refresh is how often the view re-reads the tank.
func New(tank Tank, thinker Thinker, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = 200 * time.Millisecond
	}
	return Model{
		tank:    tank,
		thinker: thinker,
		refresh: refresh,
		snap:    tank.Snapshot(),
		log:     tank.Log(),
		styles:  DefaultStyles(),
	}
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case refreshMsg:
		m.sync()
		return m, m.tick()

	case flavorMsg:
		m.busy = false
		m.flavor = msg.text
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "f":
		m.tank.Feed()
	case "c":
		m.tank.Clean()
	case "o":
		m.tank.Aerate()
	case "l":
		m.tank.ToggleLight()
	case "+", "=":
		m.tank.AdjustTemperature(TemperatureStep)
	case "-", "_":
		m.tank.AdjustTemperature(-TemperatureStep)
	case " ", "space":
		m.tank.Disturb()
	case "r":
		m.tank.Restart()
		m.flavor = ""
	case "t":
		cmd = m.ask(func(ctx context.Context) string {
			return m.thinker.Thought(ctx, m.tank.Snapshot())
		})
		if cmd != nil {
			m.busy = true
		}
	case "?":
		cmd = m.ask(func(ctx context.Context) string {
			return m.thinker.Fact(ctx)
		})
		if cmd != nil {
			m.busy = true
		}
	default:
		return m, nil
	}

	m.sync()
	return m, cmd
}

// ask runs a flavor-text request off the update loop.
func (m Model) ask(fn func(ctx context.Context) string) tea.Cmd {
	if m.thinker == nil || m.busy {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return flavorMsg{text: fn(ctx)}
	}
}

func (m *Model) sync() {
	m.snap = m.tank.Snapshot()
	m.log = m.tank.Log()
}

// Run starts the terminal tank on the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, tank Tank, thinker Thinker) error {
	p := tea.NewProgram(New(tank, thinker, 0), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
