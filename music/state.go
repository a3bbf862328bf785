package music

import "fmt"

// LoopState is the state of one loop slot. The order matters: a slot whose
// state is >= Playing holds a recording.
type LoopState int32

const (
	Empty LoopState = iota
	Recording
	Playing
	Muted
)

func (s LoopState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Recording:
		return "recording"
	case Playing:
		return "playing"
	case Muted:
		return "muted"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Glyph is the one-character form used by the displays.
func (s LoopState) Glyph() rune {
	switch s {
	case Recording:
		return 'R'
	case Playing:
		return '>'
	case Muted:
		return 'M'
	}
	return '_'
}

// Phase is the cycle state of the whole looper.
type Phase int32

const (
	Idle Phase = iota
	AwaitingOnset
	DiscoveringLength
	Running
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case AwaitingOnset:
		return "waiting for onset"
	case DiscoveringLength:
		return "recording first loop"
	case Running:
		return "running"
	}
	return fmt.Sprintf("phase(%d)", int32(p))
}

// Snapshot is what displays get to see of the engine.
type Snapshot struct {
	Phase    Phase
	States   []LoopState
	From     int
	To       int
	Cursor   int
	Capacity int
}

// Progress returns the position of the cursor inside the cycle, in [0, 1).
// It is 0 while the cycle length is unknown.
func (s Snapshot) Progress() float64 {
	if s.To <= s.From || s.Phase != Running {
		return 0
	}
	p := float64(s.Cursor-s.From) / float64(s.To-s.From)
	if p < 0 {
		return 0
	}
	if p >= 1 {
		return 0.999
	}
	return p
}

// CycleLength is the discovered loop length in samples, 0 while unknown.
func (s Snapshot) CycleLength() int {
	if s.To <= s.From {
		return 0
	}
	return s.To - s.From
}

func (s Snapshot) Strip() string {
	b := make([]rune, len(s.States))
	for i, st := range s.States {
		b[i] = st.Glyph()
	}
	return string(b)
}
