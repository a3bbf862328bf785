package music

// Looper owns every loop slot and the shared cycle window. All its methods
// run on the audio thread; nothing here locks or allocates once built.
type Looper struct {
	phase     Phase
	loops     []*Loop
	from      int
	to        int // 0 while the cycle length is being discovered
	cursor    int
	threshold float32
	capacity  int

	// capacity problems, read by the Host after each block
	overflows int
	clamped   int
}

func NewLooper(nLoops, capacity int, threshold float32) *Looper {
	l := &Looper{
		loops:     make([]*Loop, nLoops),
		threshold: threshold,
		capacity:  capacity,
	}
	for i := range l.loops {
		l.loops[i] = NewLoop(capacity)
	}
	return l
}

func (l *Looper) LoopCount() int {
	return len(l.loops)
}

func (l *Looper) LoopState(index int) LoopState {
	return l.loops[index].state
}

func (l *Looper) SetLoopState(index, time int, state LoopState) {
	l.loops[index].SetState(time, state)
}

func (l *Looper) Loop(index int) *Loop {
	return l.loops[index]
}

func (l *Looper) Phase() Phase           { return l.phase }
func (l *Looper) Window() (from, to int) { return l.from, l.to }
func (l *Looper) Cursor() int            { return l.cursor }
func (l *Looper) Capacity() int          { return l.capacity }
func (l *Looper) Threshold() float32     { return l.threshold }

// Overflows counts the times the first take ran past the buffer capacity.
func (l *Looper) Overflows() int { return l.overflows }

// Clamped counts discovered cycle ends that had to be corrected.
func (l *Looper) Clamped() int { return l.clamped }

func (l *Looper) Snapshot() Snapshot {
	s := Snapshot{
		Phase:    l.phase,
		States:   make([]LoopState, len(l.loops)),
		From:     l.from,
		To:       l.to,
		Cursor:   l.cursor,
		Capacity: l.capacity,
	}
	for i, lp := range l.loops {
		s.States[i] = lp.state
	}
	return s
}

func (l *Looper) isRecording() bool {
	for _, lp := range l.loops {
		if lp.state == Recording {
			return true
		}
	}
	return false
}

func (l *Looper) isEmpty() bool {
	for _, lp := range l.loops {
		if lp.state != Empty {
			return false
		}
	}
	return true
}

// recordingEndTime returns the transition time of the first slot, in index
// order, that stopped recording during this block.
func (l *Looper) recordingEndTime() (int, bool) {
	for _, lp := range l.loops {
		if lp.prevState == Recording && lp.state >= Playing {
			return lp.transitionTime, true
		}
	}
	return 0, false
}

// onset returns the index of the first sample whose energy exceeds the
// threshold.
func (l *Looper) onset(inL, inR []float32) (int, bool) {
	for k := range inL {
		if inL[k]*inL[k]+inR[k]*inR[k] > l.threshold {
			return k, true
		}
	}
	return 0, false
}

func (l *Looper) reset() {
	l.phase = Idle
	l.from, l.to, l.cursor = 0, 0, 0
}

// UpdateState advances the cycle state machine by at most one transition,
// looking at the input block about to be processed.
func (l *Looper) UpdateState(inL, inR []float32) {
	switch l.phase {
	case Idle:
		if l.isRecording() {
			l.phase = AwaitingOnset
		}
	case AwaitingOnset:
		if !l.isRecording() {
			l.reset()
			return
		}
		if k, ok := l.onset(inL, inR); ok {
			l.phase = DiscoveringLength
			l.from = k
			l.to = 0
			l.cursor = 0
			// takes armed before the onset start exactly at the onset
			for _, lp := range l.loops {
				if lp.state == Recording && lp.prevState != Recording {
					lp.transitionTime = k
				}
			}
		}
	case DiscoveringLength:
		if l.isEmpty() {
			l.reset()
			return
		}
		if t, ok := l.recordingEndTime(); ok {
			l.phase = Running
			l.to = l.cursor + t
			if l.to > l.capacity {
				l.to = l.capacity
				l.clamped++
			}
			if l.to <= l.from {
				l.to = l.from + 1
				l.clamped++
			}
		}
	case Running:
		if l.isEmpty() {
			l.reset()
		}
	}
}

// Process runs one block: the phase is updated from the input, the input is
// passed through to the output and, once a cycle exists, every slot records
// into or mixes onto it.
func (l *Looper) Process(inL, inR, outL, outR []float32) {
	l.UpdateState(inL, inR)

	copy(outL, inL)
	copy(outR, inR)

	if l.phase < DiscoveringLength {
		// keep the "empty slots hold zeros" invariant without a cycle
		for _, lp := range l.loops {
			if lp.state == Empty && lp.prevState != Empty {
				lp.Clear()
				lp.settle()
			}
		}
		return
	}

	for _, lp := range l.loops {
		lp.Run(l.from, l.to, l.cursor, inL, inR, outL, outR)
	}

	l.cursor += len(inL)
	switch l.phase {
	case Running:
		if l.cursor >= l.to {
			l.cursor = wrap(l.cursor, l.from, l.to)
		}
	case DiscoveringLength:
		if l.cursor >= l.capacity {
			l.cursor = wrap(l.cursor, l.from, l.capacity)
			l.overflows++
		}
	}
}
