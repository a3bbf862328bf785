package music

import (
	"errors"
	"sync/atomic"

	. "github.com/JeanRibes/looper/shared"
)

var ErrQueueFull = errors.New("control queue full")

// Queue hands control messages from exactly one producer goroutine to the
// audio thread. Neither side blocks or allocates.
type Queue struct {
	buf  []Message
	mask uint64
	head atomic.Uint64 // next slot to read, owned by the consumer
	tail atomic.Uint64 // next slot to write, owned by the producer
}

// NewQueue rounds size up to a power of two.
func NewQueue(size int) *Queue {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Queue{
		buf:  make([]Message, n),
		mask: uint64(n - 1),
	}
}

func (q *Queue) Cap() int {
	return len(q.buf)
}

func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Push must only be called from the producer goroutine.
func (q *Queue) Push(msg Message) error {
	tail := q.tail.Load()
	if tail-q.head.Load() == uint64(len(q.buf)) {
		return ErrQueueFull
	}
	q.buf[tail&q.mask] = msg
	q.tail.Store(tail + 1)
	return nil
}

// Pop must only be called from the audio thread.
func (q *Queue) Pop() (Message, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Message{}, false
	}
	msg := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return msg, true
}
