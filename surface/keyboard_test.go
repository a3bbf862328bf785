package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"

	. "github.com/JeanRibes/looper/shared"
)

func newKeyboard(t *testing.T) *Keyboard {
	t.Helper()
	kb, err := NewKeyboard(DefaultControllers)
	require.NoError(t, err)
	return kb
}

func TestKeyboard_Decode(t *testing.T) {
	t.Parallel()

	kb := newKeyboard(t)
	tests := []struct {
		name string
		msg  midi.Message
		want Message
		ok   bool
	}{
		{"record", midi.ControlChange(0, 20, 3), Message{Type: Record, Number: 3, Time: -1}, true},
		{"play", midi.ControlChange(2, 21, 0), Message{Type: Play, Number: 0, Time: -1}, true},
		{"unmute all", midi.ControlChange(0, 25, 127), Message{Type: UnmuteAll, Number: 127, Time: -1}, true},
		{"program", midi.ProgramChange(0, 5), Message{Type: ProgramChange, Number: 5}, true},
		{"unbound controller", midi.ControlChange(0, 64, 127), Message{}, false},
		{"note", midi.NoteOn(0, 60, 100), Message{}, false},
	}
	for _, tt := range tests {
		got, ok := kb.Decode(tt.msg)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestKeyboard_DecodeSettings(t *testing.T) {
	t.Parallel()

	kb := newKeyboard(t)
	_, ok := kb.Decode(midi.ControlChange(0, 26, 60))
	require.True(t, ok)
	_, ok = kb.Decode(midi.ControlChange(0, 27, 20))
	require.True(t, ok)
	_, ok = kb.Decode(midi.ProgramChange(0, 22))
	require.True(t, ok)

	assert.Equal(t, uint8(60), kb.MinPitch)
	assert.Equal(t, uint8(20), kb.MinProgram)
	assert.Equal(t, uint8(22), kb.CurrentProgram)

	first, last := kb.ProgramRange()
	assert.Equal(t, 21, first)
	assert.Equal(t, 30, last)
	low, high := kb.PitchRange()
	assert.Equal(t, midi.Note(60).String(), low)
	assert.Equal(t, midi.Note(87).String(), high)
	assert.Contains(t, kb.Describe(), "current 23")
}

func TestKeyboard_ApplyIgnoresOutOfRange(t *testing.T) {
	t.Parallel()

	kb := newKeyboard(t)
	kb.Apply(Message{Type: SetMinPitch, Number: 200})
	assert.Equal(t, uint8(48), kb.MinPitch)
	kb.Apply(Message{Type: Record, Number: 3})
	assert.Equal(t, uint8(48), kb.MinPitch)
}

func TestKeyboard_PitchRangeStopsAt127(t *testing.T) {
	t.Parallel()

	kb := newKeyboard(t)
	kb.MinPitch = 120
	_, high := kb.PitchRange()
	assert.Equal(t, midi.Note(127).String(), high)
}

func TestNewKeyboard_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewKeyboard(map[string]uint8{"record": 20, "play": 20})
	assert.ErrorContains(t, err, "controller 20 bound to both")

	_, err = NewKeyboard(map[string]uint8{"loudness": 30, "quit": 31})
	assert.ErrorContains(t, err, `unknown command "loudness"`)
	assert.ErrorContains(t, err, "quit cannot be bound")
}

func TestKeyboard_Encode(t *testing.T) {
	t.Parallel()

	kb := newKeyboard(t)
	msg, err := kb.Encode(1, Message{Type: Solo, Number: 4})
	require.NoError(t, err)
	assert.Equal(t, midi.ControlChange(1, 24, 4), msg)

	// round trip
	decoded, ok := kb.Decode(msg)
	require.True(t, ok)
	assert.Equal(t, Message{Type: Solo, Number: 4, Time: -1}, decoded)

	_, err = kb.Encode(0, Message{Type: ProgramChange, Number: 1})
	assert.Error(t, err)
	_, err = kb.Encode(0, Message{Type: Record, Number: 300})
	assert.Error(t, err)

	partial, err := NewKeyboard(map[string]uint8{"record": 1})
	require.NoError(t, err)
	_, err = partial.Encode(0, Message{Type: Play})
	assert.ErrorContains(t, err, "no controller bound to play")
}
