package music

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(start, n int) []float32 {
	b := make([]float32, n)
	for k := range b {
		b[k] = float32(start+k+1) / 100
	}
	return b
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pos, from, end, want int
	}{
		{5, 0, 8, 5},
		{1, 4, 8, 1},
		{8, 2, 8, 2},
		{11, 2, 8, 5},
		{20, 2, 8, 2},
		{9, 5, 5, 5},
		{3, 5, 5, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrap(tt.pos, tt.from, tt.end), "wrap(%d, %d, %d)", tt.pos, tt.from, tt.end)
	}
}

func TestLoop_RecordThenPlay(t *testing.T) {
	t.Parallel()

	l := NewLoop(16)
	in := ramp(0, 8)
	out := make([]float32, 8)

	l.SetState(0, Recording)
	l.Run(0, 0, 0, in, in, out, out)
	assert.Equal(t, Recording, l.PreviousState())
	left, right := l.Samples()
	assert.Equal(t, in, left[:8])
	assert.Equal(t, in, right[:8])
	assert.Equal(t, make([]float32, 8), out, "recording must not write the output")

	l.SetState(0, Playing)
	outL := make([]float32, 8)
	outR := make([]float32, 8)
	silence := make([]float32, 8)
	l.Run(0, 8, 8, silence, silence, outL, outR)
	assert.Equal(t, in, outL)
	assert.Equal(t, in, outR)
}

func TestLoop_RecordingToPlayingMidBlock(t *testing.T) {
	t.Parallel()

	l := NewLoop(16)
	first := ramp(0, 4)
	l.SetState(0, Recording)
	l.Run(0, 0, 0, first, first, make([]float32, 4), make([]float32, 4))

	second := ramp(4, 4)
	out := make([]float32, 4)
	l.SetState(3, Playing)
	// the cycle ends where the take stops: 4 + 3
	l.Run(0, 7, 4, second, second, out, make([]float32, 4))

	left, _ := l.Samples()
	assert.Equal(t, ramp(0, 7), left[:7], "input [0, t) recorded")
	assert.Zero(t, left[7], "nothing recorded after t")
	assert.Equal(t, []float32{0, 0, 0, left[0]}, out, "playback starts at t from the start of the cycle")
	assert.Equal(t, Playing, l.PreviousState())
}

func TestLoop_PlayingEnteredMidBlock(t *testing.T) {
	t.Parallel()

	l := NewLoop(8)
	in := ramp(0, 8)
	l.SetState(0, Recording)
	l.Run(0, 0, 0, in, in, make([]float32, 8), make([]float32, 8))
	l.SetState(0, Muted)
	l.Run(0, 8, 0, in, in, make([]float32, 8), make([]float32, 8))

	out := make([]float32, 8)
	l.SetState(5, Playing)
	l.Run(0, 8, 0, make([]float32, 8), make([]float32, 8), out, make([]float32, 8))
	assert.Equal(t, []float32{0, 0, 0, 0, 0, in[5], in[6], in[7]}, out)
}

func TestLoop_PlaybackIsAdditive(t *testing.T) {
	t.Parallel()

	l := NewLoop(4)
	in := []float32{1, 2, 3, 4}
	l.SetState(0, Recording)
	l.Run(0, 0, 0, in, in, make([]float32, 4), make([]float32, 4))
	l.SetState(0, Playing)

	out := []float32{10, 10, 10, 10}
	l.Run(0, 4, 0, in, in, out, make([]float32, 4))
	assert.Equal(t, []float32{11, 12, 13, 14}, out)
	left, _ := l.Samples()
	assert.Equal(t, in, left, "playback never writes the buffer")
}

func TestLoop_RecordWrapsInsideWindow(t *testing.T) {
	t.Parallel()

	l := NewLoop(8)
	l.SetState(0, Recording)
	// prevState is Empty: recording starts at cursor + t = 4
	in := []float32{1, 2, 3, 4, 5, 6}
	l.Run(2, 6, 4, in, in, make([]float32, 6), make([]float32, 6))

	left, _ := l.Samples()
	assert.Equal(t, []float32{0, 0, 3, 4, 5, 6, 0, 0}, left)
}

func TestLoop_PlayWrapsInsideWindow(t *testing.T) {
	t.Parallel()

	l := NewLoop(6)
	in := []float32{1, 2, 3, 4, 5, 6}
	l.SetState(0, Recording)
	l.Run(0, 0, 0, in, in, make([]float32, 6), make([]float32, 6))
	l.SetState(0, Playing)
	l.Run(0, 6, 0, in, in, make([]float32, 6), make([]float32, 6))

	out := make([]float32, 7)
	l.Run(1, 4, 2, make([]float32, 7), make([]float32, 7), out, make([]float32, 7))
	assert.Equal(t, []float32{3, 4, 2, 3, 4, 2, 3}, out)
}

func TestLoop_MutedKeepsBuffer(t *testing.T) {
	t.Parallel()

	l := NewLoop(4)
	in := []float32{1, 2, 3, 4}
	l.SetState(0, Recording)
	l.Run(0, 0, 0, in, in, make([]float32, 4), make([]float32, 4))

	l.SetState(0, Muted)
	out := make([]float32, 4)
	l.Run(0, 4, 0, in, in, out, make([]float32, 4))
	assert.Equal(t, make([]float32, 4), out)
	left, _ := l.Samples()
	assert.Equal(t, in, left)
}

func TestLoop_DeleteClearsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	l := NewLoop(4)
	in := []float32{1, 2, 3, 4}
	l.SetState(0, Recording)
	l.Run(0, 0, 0, in, in, make([]float32, 4), make([]float32, 4))

	for i := 0; i < 2; i++ {
		l.SetState(0, Empty)
		l.Run(0, 4, 0, in, in, make([]float32, 4), make([]float32, 4))
		left, right := l.Samples()
		require.Equal(t, make([]float32, 4), left)
		require.Equal(t, make([]float32, 4), right)
		assert.Equal(t, Empty, l.State())
	}
}

func TestLoop_TransitionTimeClamped(t *testing.T) {
	t.Parallel()

	l := NewLoop(8)
	in := ramp(0, 4)
	l.SetState(10, Recording)
	assert.NotPanics(t, func() {
		l.Run(0, 0, 0, in, in, make([]float32, 4), make([]float32, 4))
	})
	left, _ := l.Samples()
	assert.Equal(t, make([]float32, 8), left, "a take starting after the block records nothing yet")
}
