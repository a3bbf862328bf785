package music

// Loop is one recordable/playable slot: a pair of fixed-size sample
// buffers plus the bookkeeping needed to splice state changes in the middle
// of an audio block.
type Loop struct {
	state          LoopState
	prevState      LoopState // state at the end of the previous block
	transitionTime int       // offset of the last state change inside the current block
	left           []float32
	right          []float32
}

// NewLoop allocates the buffers once; they are never resized.
func NewLoop(capacity int) *Loop {
	return &Loop{
		left:  make([]float32, capacity),
		right: make([]float32, capacity),
	}
}

func (l *Loop) State() LoopState         { return l.state }
func (l *Loop) PreviousState() LoopState { return l.prevState }
func (l *Loop) TransitionTime() int      { return l.transitionTime }
func (l *Loop) Capacity() int            { return len(l.left) }

// Samples exposes the buffers read-only for tests and offline tools.
// They must not be touched while the audio thread runs.
func (l *Loop) Samples() (left, right []float32) {
	return l.left, l.right
}

func (l *Loop) SetState(time int, state LoopState) {
	l.state = state
	l.transitionTime = time
}

// Run processes one block. All four slices have the same length. from, to
// and cursor are the engine's cycle window and position.
func (l *Loop) Run(from, to, cursor int, inL, inR, outL, outR []float32) {
	t := l.transitionTime
	if t > len(inL) {
		t = len(inL)
	}
	if t < 0 {
		t = 0
	}

	switch l.state {
	case Empty:
		if l.prevState != Empty {
			l.Clear()
		}
	case Recording:
		if l.prevState != Recording {
			// whatever came before t belongs to the previous state
			l.record(from, to, cursor+t, inL[t:], inR[t:])
		} else {
			l.record(from, to, cursor, inL, inR)
		}
	case Playing:
		if l.prevState == Recording {
			// finish the take up to the exact transition sample
			l.record(from, to, cursor, inL[:t], inR[:t])
		}
		if l.prevState != Playing {
			l.play(from, to, cursor+t, outL[t:], outR[t:])
		} else {
			l.play(from, to, cursor, outL, outR)
		}
	}

	l.prevState = l.state
}

// Clear zeroes both buffers.
func (l *Loop) Clear() {
	clear(l.left)
	clear(l.right)
}

// settle marks the current state as the previous one without processing
// audio. Used by the engine for deleted slots while no cycle runs.
func (l *Loop) settle() {
	l.prevState = l.state
}

func (l *Loop) bound(to int) int {
	if to == 0 || to > len(l.left) {
		return len(l.left)
	}
	return to
}

// record overwrites the buffers starting at cursor, wrapping from the end
// of the window back to from.
func (l *Loop) record(from, to, cursor int, inL, inR []float32) {
	end := l.bound(to)
	if end <= from {
		return
	}
	cursor = wrap(cursor, from, end)
	for len(inL) > 0 {
		n := min(len(inL), end-cursor)
		copy(l.left[cursor:cursor+n], inL[:n])
		copy(l.right[cursor:cursor+n], inR[:n])
		inL, inR = inL[n:], inR[n:]
		cursor += n
		if cursor >= end {
			cursor = from
		}
	}
}

// play mixes the buffers into the output starting at cursor.
func (l *Loop) play(from, to, cursor int, outL, outR []float32) {
	end := l.bound(to)
	if end <= from {
		return
	}
	cursor = wrap(cursor, from, end)
	for k := range outL {
		if cursor >= end {
			cursor = from
		}
		outL[k] += l.left[cursor]
		outR[k] += l.right[cursor]
		cursor++
	}
}

// wrap folds pos back into [from, end) when it has run past end. Positions
// below from are left alone: they are valid buffer indexes before the onset.
// An empty window folds everything onto from.
func wrap(pos, from, end int) int {
	span := end - from
	if span <= 0 {
		return from
	}
	if pos < end {
		return pos
	}
	return from + (pos-end)%span
}
