package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JeanRibes/looper/music"
	. "github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
)

const refreshInterval = 50 * time.Millisecond

// Source is anything the display can poll: the engine host or a mirror.
type Source interface {
	Snapshot() music.Snapshot
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	phaseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	stateStyles   = map[music.LoopState]lipgloss.Style{
		music.Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		music.Recording: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		music.Playing:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		music.Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}
)

type tickMsg struct{}

type noteMsg Message

type Model struct {
	source   Source
	send     func(Message) // nil for a read-only display
	notes    <-chan Message
	keyboard *surface.Keyboard
	title    string

	snap     music.Snapshot
	selected int
	status   string
	isError  bool

	progress progress.Model
	help     help.Model
	quitting bool
}

// NewModel builds a display polling source. send may be nil, notes may be
// nil; keyboard, when given, follows the keyboard settings found in notes.
func NewModel(title string, source Source, send func(Message), notes <-chan Message, keyboard *surface.Keyboard) Model {
	return Model{
		source:   source,
		send:     send,
		notes:    notes,
		keyboard: keyboard,
		title:    title,
		snap:     source.Snapshot(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		help:     help.New(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func listenForNotes(notes <-chan Message) tea.Cmd {
	if notes == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-notes
		if !ok {
			return nil
		}
		return noteMsg(msg)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), listenForNotes(m.notes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.source.Snapshot()
		return m, tick()

	case noteMsg:
		m.notify(Message(msg))
		return m, listenForNotes(m.notes)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-4, 10), 60)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) notify(msg Message) {
	switch msg.Type {
	case Error:
		m.status, m.isError = msg.String, true
	case Warning:
		m.status, m.isError = msg.String, false
	case SetMinPitch, SetMinProgram, ProgramChange:
		if m.keyboard != nil {
			m.keyboard.Apply(msg)
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snap.States)
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		if m.send != nil {
			m.send(Message{Type: Quit})
		}
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Select):
		if idx := int(msg.String()[0] - '1'); idx < count {
			m.selected = idx
		}
	case key.Matches(msg, keys.Prev):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Next):
		if m.selected < count-1 {
			m.selected++
		}
	default:
		if m.send == nil {
			return m, nil
		}
		for _, c := range commands {
			if key.Matches(msg, *c.binding) {
				m.send(Message{Type: c.event, Number: m.selected, Time: -1})
				m.status, m.isError = "", false
				break
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(phaseStyle.Render(m.snap.Phase.String()))
	b.WriteString("\n\n")
	b.WriteString(m.renderSlots())
	b.WriteString("\n\n")

	if m.snap.Phase == music.Running && m.snap.To > m.snap.From {
		b.WriteString(m.progress.ViewAs(m.snap.Progress()))
		b.WriteString(fmt.Sprintf("  %d samples\n", m.snap.CycleLength()))
	} else {
		b.WriteString("\n")
	}
	if m.keyboard != nil {
		low, high := m.keyboard.PitchRange()
		first, last := m.keyboard.ProgramRange()
		fmt.Fprintf(&b, "Pitch range:     [%s - %s]\n", low, high)
		fmt.Fprintf(&b, "Program range:   [%d - %d]\n", first, last)
		fmt.Fprintf(&b, "Current program: %d\n", int(m.keyboard.CurrentProgram)+1)
	}
	if m.status != "" {
		style := warnStyle
		if m.isError {
			style = errStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	if m.send != nil {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

// renderSlots draws one glyph per slot, e.g. "_ R > M _".
func (m Model) renderSlots() string {
	cells := make([]string, len(m.snap.States))
	for i, s := range m.snap.States {
		cell := stateStyles[s].Render(string(s.Glyph()))
		if i == m.selected && m.send != nil {
			cell = selectedStyle.Render(cell)
		}
		cells[i] = cell
	}
	return " " + strings.Join(cells, " ")
}

// Run shows the model until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
