package surface

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestJournal_RoundTrip(t *testing.T) {
	t.Parallel()

	j := NewJournal()
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	j.Record(midi.ControlChange(0, 20, 3), t0)
	// 120 bpm: a quarter note lasts 500ms
	j.Record(midi.ControlChange(0, 21, 3), t0.Add(500*time.Millisecond))
	// out of order arrivals do not go back in time
	j.Record(midi.ControlChange(0, 22, 3), t0)
	assert.Equal(t, 3, j.Len())

	path := filepath.Join(t.TempDir(), "session.mid")
	require.NoError(t, j.WriteFile(path))

	track, ticks, err := LoadJournal(path)
	require.NoError(t, err)
	assert.Equal(t, TICKS, ticks)

	var got []midi.Message
	var deltas []uint32
	for _, ev := range track {
		if ev.Message.IsPlayable() {
			got = append(got, midi.Message(ev.Message))
			deltas = append(deltas, ev.Delta)
		}
	}
	assert.Equal(t, []midi.Message{
		midi.ControlChange(0, 20, 3),
		midi.ControlChange(0, 21, 3),
		midi.ControlChange(0, 22, 3),
	}, got)
	assert.Equal(t, []uint32{0, 960, 0}, deltas)

	// writing does not close the live track
	j.Record(midi.ControlChange(0, 23, 0), t0)
	assert.Equal(t, 4, j.Len())
}

func TestLoadJournal_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := LoadJournal(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestPlayTrack(t *testing.T) {
	t.Parallel()

	var track smf.Track
	track.Add(0, smf.MetaTempo(240))
	track.Add(0, midi.ControlChange(0, 20, 0))
	track.Add(2, midi.ControlChange(0, 21, 0))
	track.Add(0, smf.MetaText("comment"))
	track.Add(2, midi.ProgramChange(0, 4))
	track.Close(0)

	var got []midi.Message
	err := PlayTrack(context.Background(), track, TICKS, func(msg midi.Message) error {
		got = append(got, msg)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []midi.Message{
		midi.ControlChange(0, 20, 0),
		midi.ControlChange(0, 21, 0),
		midi.ProgramChange(0, 4),
	}, got)
}

func TestPlayTrack_Cancelled(t *testing.T) {
	t.Parallel()

	var track smf.Track
	track.Add(0, midi.ControlChange(0, 20, 0))
	// an hour later
	track.Add(uint32(TICKS)*120*60, midi.ControlChange(0, 21, 0))
	track.Close(0)

	ctx, cancel := context.WithCancel(context.Background())
	var got []midi.Message
	done := make(chan error)
	go func() {
		done <- PlayTrack(ctx, track, TICKS, func(msg midi.Message) error {
			got = append(got, msg)
			cancel()
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("PlayTrack ignored cancellation")
	}
	assert.Equal(t, []midi.Message{midi.ControlChange(0, 20, 0)}, got)
}
