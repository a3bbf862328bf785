package music

import (
	"fmt"
	"sync/atomic"
	"time"

	. "github.com/JeanRibes/looper/shared"
)

// Warnings are problems the audio thread counted instead of reporting.
type Warnings struct {
	Dropped   uint64 // control messages refused because the queue was full
	Clamped   uint64 // events moved inside a block shorter than expected, or cycle ends corrected
	Overflows uint64 // first take longer than the buffers
	Faults    uint64 // blocks with mismatched channel slices
}

func (w Warnings) Sub(prev Warnings) Warnings {
	return Warnings{
		Dropped:   w.Dropped - prev.Dropped,
		Clamped:   w.Clamped - prev.Clamped,
		Overflows: w.Overflows - prev.Overflows,
		Faults:    w.Faults - prev.Faults,
	}
}

func (w Warnings) Any() bool {
	return w != Warnings{}
}

// Host runs the Looper on the audio thread. Control messages reach it
// through Send, displays read it through Snapshot; neither locks.
type Host struct {
	looper     *Looper
	queue      *Queue
	sampleRate float64
	maxBlock   int
	lastBlock  int64 // start of the previous block, audio thread only
	now        func() int64

	phase  atomic.Int32
	from   atomic.Int64
	to     atomic.Int64
	cursor atomic.Int64
	states []atomic.Int32

	dropped   atomic.Uint64
	clamped   atomic.Uint64
	overflows atomic.Uint64
	faults    atomic.Uint64
	late      uint64 // audio thread only
}

func NewHost(looper *Looper, sampleRate float64, maxBlock, queueSize int) *Host {
	return &Host{
		looper:     looper,
		queue:      NewQueue(queueSize),
		sampleRate: sampleRate,
		maxBlock:   maxBlock,
		now:        func() int64 { return time.Now().UnixNano() },
		states:     make([]atomic.Int32, looper.LoopCount()),
	}
}

func (h *Host) LoopCount() int {
	return len(h.states)
}

// Send queues a slot command for the next block. It must always be called
// from the same goroutine. A negative msg.Time means "as soon as possible":
// the offset is derived from the arrival time.
func (h *Host) Send(msg Message) error {
	if !msg.Type.IsSlotCommand() {
		return fmt.Errorf("%w: %s", ErrCommand, msg.Type)
	}
	if msg.Type != UnmuteAll {
		if msg.Number < 0 || msg.Number >= len(h.states) {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrSlotIndex, msg.Number, len(h.states))
		}
	}
	if msg.Time >= h.maxBlock {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOffset, msg.Time, h.maxBlock)
	}
	if msg.Time < 0 && msg.Stamp == 0 {
		msg.Stamp = h.now()
	}
	if err := h.queue.Push(msg); err != nil {
		h.dropped.Add(1)
		return err
	}
	return nil
}

// offset places an event that arrived during the previous block at the
// same relative position in the current one.
func (h *Host) offset(stamp int64, n int) int {
	if h.lastBlock == 0 || stamp <= h.lastBlock {
		return 0
	}
	off := int(float64(stamp-h.lastBlock) * h.sampleRate / 1e9)
	if off >= n {
		off = n - 1
	}
	return off
}

// Process is the audio callback.
func (h *Host) Process(inL, inR, outL, outR []float32) {
	start := h.now()
	n := len(inL)
	if len(inR) != n || len(outL) != n || len(outR) != n {
		clear(outL)
		clear(outR)
		h.faults.Add(1)
		h.lastBlock = start
		return
	}

	for {
		msg, ok := h.queue.Pop()
		if !ok {
			break
		}
		if msg.Time < 0 {
			msg.Time = h.offset(msg.Stamp, n)
		} else if msg.Time >= n {
			msg.Time = n - 1
			h.late++
		}
		dispatch(h.looper, msg)
	}

	h.looper.Process(inL, inR, outL, outR)
	h.lastBlock = start
	h.publish()
}

func (h *Host) publish() {
	l := h.looper
	h.phase.Store(int32(l.phase))
	h.from.Store(int64(l.from))
	h.to.Store(int64(l.to))
	h.cursor.Store(int64(l.cursor))
	for i, lp := range l.loops {
		h.states[i].Store(int32(lp.state))
	}
	h.overflows.Store(uint64(l.overflows))
	h.clamped.Store(uint64(l.clamped) + h.late)
}

func (h *Host) Snapshot() Snapshot {
	s := Snapshot{
		Phase:    Phase(h.phase.Load()),
		States:   make([]LoopState, len(h.states)),
		From:     int(h.from.Load()),
		To:       int(h.to.Load()),
		Cursor:   int(h.cursor.Load()),
		Capacity: h.looper.capacity,
	}
	for i := range h.states {
		s.States[i] = LoopState(h.states[i].Load())
	}
	return s
}

func (h *Host) Warnings() Warnings {
	return Warnings{
		Dropped:   h.dropped.Load(),
		Clamped:   h.clamped.Load(),
		Overflows: h.overflows.Load(),
		Faults:    h.faults.Load(),
	}
}
