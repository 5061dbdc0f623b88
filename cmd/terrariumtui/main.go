// Command terrariumtui is a bubbletea terminal viewer over the
// simulation core: it advances the World with Step, as the headless
// driver does, and renders a live metrics readout.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/metrics"
	"github.com/GoCodeAlone/terrarium/internal/world"
)

var keys = struct {
	step  key.Binding
	space key.Binding
	quit  key.Binding
}{
	step: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "single-step while paused"),
	),
	space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

type tickMsg time.Time

func doTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	w      *world.World
	tick   uint64
	paused bool
	last   metrics.TickMetrics
}

func newModel(w *world.World) model {
	return model{w: w}
}

func (m model) Init() tea.Cmd {
	return doTick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.space):
			m.paused = !m.paused
		case key.Matches(msg, keys.step):
			if m.paused {
				m.last = m.w.Step(m.tick)
				m.tick++
			}
		}
	case tickMsg:
		if !m.paused {
			m.last = m.w.Step(m.tick)
			m.tick++
		}
		return m, doTick()
	}
	return m, nil
}

func (m model) View() string {
	status := "running"
	if m.paused {
		status = "paused"
	}
	header := titleStyle.Render(fmt.Sprintf("terrarium — tick %d (%s)", m.tick, status))
	body := infoStyle.Render(fmt.Sprintf(
		"population %d   births %d   deaths %d   groups %d   ungrouped %d\navg energy %.2f   avg age %.2f   neighbor checks %d",
		m.last.Population, m.last.Births, m.last.Deaths, m.last.Groups, m.last.Ungrouped,
		m.last.AverageEnergy, m.last.AverageAge, m.last.NeighborChecks,
	))
	footer := "space: pause/resume   enter: step while paused   q: quit"
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func main() {
	population := flag.Int("population", 0, "Bootstrap population (0 keeps the default)")
	seed := flag.Uint64("seed", 0, "Base RNG seed (0 keeps the default)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *population > 0 {
		cfg.InitialPopulation = *population
	}
	if *seed > 0 {
		cfg.Seed = *seed
	}

	w, err := world.New(cfg)
	if err != nil {
		log.Fatalf("terrariumtui: invalid configuration: %v", err)
	}

	p := tea.NewProgram(newModel(w))
	if _, err := p.Run(); err != nil {
		log.Fatalf("terrariumtui: %v", err)
	}
}
