package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeanRibes/looper/music"
	. "github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
)

type fixedSource struct {
	snap music.Snapshot
}

func (s *fixedSource) Snapshot() music.Snapshot { return s.snap }

type recorder struct {
	sent []Message
}

func (r *recorder) send(m Message) { r.sent = append(r.sent, m) }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func threeSlots() *fixedSource {
	return &fixedSource{snap: music.Snapshot{
		Phase:  music.Running,
		States: []music.LoopState{music.Playing, music.Recording, music.Empty},
		From:   0,
		To:     100,
		Cursor: 50,
	}}
}

func TestModel_SelectAndCommand(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	m := NewModel("looper", threeSlots(), r.send, nil, nil)

	m, _ = press(t, m, runes("2"), runes("p"))
	m, _ = press(t, m, runes("9"), runes("m"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight}, runes("d"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, runes("a"))
	assert.Equal(t, []Message{
		{Type: Play, Number: 1, Time: -1},
		{Type: Mute, Number: 1, Time: -1},
		{Type: Delete, Number: 2, Time: -1},
		{Type: UnmuteAll, Number: 1, Time: -1},
	}, r.sent)
	assert.Equal(t, 1, m.selected)
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	m := NewModel("looper", threeSlots(), r.send, nil, nil)
	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, []Message{{Type: Quit}}, r.sent)
	assert.Empty(t, m.View())
}

func TestModel_ReadOnly(t *testing.T) {
	t.Parallel()

	m := NewModel("display", threeSlots(), nil, nil, nil)
	m, _ = press(t, m, runes("r"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	view := NewModel("display", threeSlots(), nil, nil, nil).View()
	assert.NotContains(t, view, "quit", "no help without a sender")
	assert.Contains(t, view, "display")
	assert.Contains(t, view, "running")
}

func TestModel_Tick(t *testing.T) {
	t.Parallel()

	src := &fixedSource{snap: music.Snapshot{States: make([]music.LoopState, 2)}}
	m := NewModel("looper", src, nil, nil, nil)
	assert.Contains(t, m.View(), "idle")

	src.snap = music.Snapshot{Phase: music.DiscoveringLength, States: []music.LoopState{music.Recording, music.Empty}}
	m, cmd := press(t, m, tickMsg{})
	assert.NotNil(t, cmd, "ticking goes on")
	view := m.View()
	assert.Contains(t, view, "recording first loop")
	assert.Contains(t, view, "R")
}

func TestModel_Notes(t *testing.T) {
	t.Parallel()

	kb, err := surface.NewKeyboard(surface.DefaultControllers)
	require.NoError(t, err)
	notes := make(chan Message, 1)
	m := NewModel("looper", threeSlots(), nil, notes, kb)

	m, cmd := press(t, m, noteMsg{Type: Error, String: "loop index out of range"})
	require.NotNil(t, cmd)
	assert.True(t, m.isError)
	assert.Contains(t, m.View(), "loop index out of range")

	m, _ = press(t, m, noteMsg{Type: Warning, String: "2 events clamped"})
	assert.False(t, m.isError)
	assert.Equal(t, "2 events clamped", m.status)

	m, _ = press(t, m, noteMsg{Type: ProgramChange, Number: 6})
	assert.Equal(t, uint8(6), kb.CurrentProgram)
	assert.Contains(t, m.View(), "Current program: 7")

	// the next note is read from the channel
	notes <- Message{Type: SetMinPitch, Number: 60}
	assert.Equal(t, noteMsg{Type: SetMinPitch, Number: 60}, cmd())
}
