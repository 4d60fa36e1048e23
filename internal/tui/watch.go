package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tasmota/internal/tasmota"
	"github.com/muurk/tasmota/internal/ui"
)

// DefaultInterval is the default polling interval
const DefaultInterval = 5 * time.Second

// Controller is the part of *tasmota.Device the dashboard drives
type Controller interface {
	Power(ctx context.Context, output tasmota.PowerOutput) (tasmota.PowerState, error)
	SetPower(ctx context.Context, cmd tasmota.PowerCommand, output tasmota.PowerOutput) (bool, error)
}

// WatchConfig configures the dashboard
type WatchConfig struct {
	Name     string         // Device name shown in the title
	URL      string         // Device URL shown under the title
	Interval time.Duration  // Polling interval (default: 5s)
	Labels   map[int]string // Optional output labels from the registry
}

// watchKeyMap defines key bindings for the watch screen
type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	On      key.Binding
	Off     key.Binding
	Blink   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.On, k.Off, k.Blink},
		{k.Refresh, k.Help, k.Quit},
	}
}

func newWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " ", "t"),
			key.WithHelp("enter/t", "toggle"),
		),
		On: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "on"),
		),
		Off: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "off"),
		),
		Blink: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "blink"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// outputRow is one relay line on the dashboard
type outputRow struct {
	Output tasmota.PowerOutput
	Value  string
}

// Messages
type (
	pollMsg  struct{ seq int }
	stateMsg struct {
		state tasmota.PowerState
		err   error
	}
	setMsg struct {
		cmd    tasmota.PowerCommand
		output tasmota.PowerOutput
		err    error
	}
)

// WatchModel polls POWER0 and lets the user switch outputs
type WatchModel struct {
	ctrl Controller
	cfg  WatchConfig

	Outputs    []outputRow
	Cursor     int
	Busy       bool
	LastErr    error
	LastUpdate time.Time
	Width      int

	pollSeq int
	spinner spinner.Model
	help    help.Model
	keys    watchKeyMap
}

// NewWatchModel creates the dashboard model
func NewWatchModel(ctrl Controller, cfg WatchConfig) WatchModel {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	return WatchModel{
		ctrl:    ctrl,
		cfg:     cfg,
		Busy:    true,
		Width:   ui.GetTerminalWidth(),
		spinner: s,
		help:    help.New(),
		keys:    newWatchKeyMap(),
	}
}

// Init starts the spinner and the first query
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

// Update handles messages and updates the model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stateMsg:
		m.Busy = false
		m.LastErr = msg.err
		if msg.err == nil {
			m.Outputs = rowsFromState(msg.state)
			m.LastUpdate = time.Now()
			if m.Cursor >= len(m.Outputs) {
				m.Cursor = max(len(m.Outputs)-1, 0)
			}
		}
		cmd := m.schedulePoll()
		return m, cmd

	case setMsg:
		if msg.err != nil {
			m.Busy = false
			m.LastErr = msg.err
			// a poll tick dropped while busy is not re-delivered
			cmd := m.schedulePoll()
			return m, cmd
		}
		return m, m.refreshCmd()

	case pollMsg:
		if msg.seq != m.pollSeq || m.Busy {
			return m, nil
		}
		m.Busy = true
		return m, m.refreshCmd()
	}

	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.Outputs)-1 {
			m.Cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		if !m.Busy {
			m.Busy = true
			return m, m.refreshCmd()
		}

	case key.Matches(msg, m.keys.Toggle):
		return m.switchOutput(tasmota.PowerToggle)
	case key.Matches(msg, m.keys.On):
		return m.switchOutput(tasmota.PowerOn)
	case key.Matches(msg, m.keys.Off):
		return m.switchOutput(tasmota.PowerOff)
	case key.Matches(msg, m.keys.Blink):
		return m.switchOutput(tasmota.PowerBlink)
	}

	return m, nil
}

func (m WatchModel) switchOutput(cmd tasmota.PowerCommand) (tea.Model, tea.Cmd) {
	if m.Busy || len(m.Outputs) == 0 {
		return m, nil
	}
	m.Busy = true
	return m, m.setPowerCmd(cmd, m.Outputs[m.Cursor].Output)
}

// refreshCmd queries all outputs
func (m WatchModel) refreshCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		state, err := ctrl.Power(context.Background(), tasmota.AllOutputs)
		return stateMsg{state: state, err: err}
	}
}

// setPowerCmd switches one output
func (m WatchModel) setPowerCmd(cmd tasmota.PowerCommand, output tasmota.PowerOutput) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		_, err := ctrl.SetPower(context.Background(), cmd, output)
		return setMsg{cmd: cmd, output: output, err: err}
	}
}

// schedulePoll arms the next poll. Only the most recently armed poll fires.
func (m *WatchModel) schedulePoll() tea.Cmd {
	m.pollSeq++
	seq := m.pollSeq
	return tea.Tick(m.cfg.Interval, func(time.Time) tea.Msg {
		return pollMsg{seq: seq}
	})
}

// rowsFromState turns the POWERn keys of a reply into rows ordered by output
func rowsFromState(state tasmota.PowerState) []outputRow {
	var rows []outputRow
	states := state.States()
	for k, v := range states {
		if _, dup := states["POWER1"]; dup && k == "POWER" {
			continue
		}
		n := 1
		if suffix := strings.TrimPrefix(k, "POWER"); suffix != "" {
			parsed, err := strconv.Atoi(suffix)
			if err != nil {
				continue
			}
			n = parsed
		}
		rows = append(rows, outputRow{Output: tasmota.PowerOutput(n), Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Output < rows[j].Output })
	return rows
}

// View renders the dashboard
func (m WatchModel) View() string {
	width := m.Width
	if width < ui.MinTerminalWidth {
		width = ui.MinTerminalWidth
	}

	title := ui.HeaderTitleStyle.Render(strings.ToUpper(m.title()))
	subtitle := ui.HeaderCommandStyle.Render(m.cfg.URL)

	var rows []string
	if len(m.Outputs) == 0 && m.LastErr == nil {
		rows = append(rows, ui.HeaderParamKeyStyle.Render("Waiting for device..."))
	}
	for i, row := range m.Outputs {
		cursor := "  "
		if i == m.Cursor {
			cursor = lipgloss.NewStyle().Foreground(ui.PrimaryColor).Bold(true).Render("▸ ")
		}
		name := fmt.Sprintf("Output %d", int(row.Output))
		if label := m.cfg.Labels[int(row.Output)]; label != "" {
			name += " " + ui.HeaderParamKeyStyle.UnsetPaddingLeft().Render("("+label+")")
		}
		line := lipgloss.JoinHorizontal(lipgloss.Left,
			cursor,
			lipgloss.NewStyle().Width(32).Render(name),
			ui.RenderPowerValue(row.Value),
		)
		rows = append(rows, "  "+line)
	}

	status := m.statusLine()

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		ui.RenderHorizontalDivider(width-6, "─"),
		"",
		strings.Join(rows, "\n"),
		"",
		status,
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.PrimaryColor).
		Width(width - 2).
		Render(body)

	return box + "\n" + m.help.View(m.keys) + "\n"
}

func (m WatchModel) title() string {
	if m.cfg.Name != "" {
		return m.cfg.Name
	}
	return "Tasmota"
}

func (m WatchModel) statusLine() string {
	var parts []string
	if m.Busy {
		parts = append(parts, m.spinner.View()+" Updating")
	} else if !m.LastUpdate.IsZero() {
		parts = append(parts, ui.HeaderParamKeyStyle.Render("Updated "+m.LastUpdate.Format("15:04:05")))
	}
	if m.LastErr != nil {
		parts = append(parts, ui.ErrorMessageStyle.Render(ui.FailureMarker+" "+tasmota.ShortMessage(m.LastErr)))
	}
	return "  " + strings.Join(parts, "\n  ")
}

// RunWatch runs the dashboard until the user quits
func RunWatch(ctrl Controller, cfg WatchConfig) error {
	p := tea.NewProgram(NewWatchModel(ctrl, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
