package music

import (
	"errors"
	"fmt"

	. "github.com/JeanRibes/looper/shared"
)

var (
	ErrSlotIndex = errors.New("loop index out of range")
	ErrOffset    = errors.New("event offset outside of the block")
	ErrCommand   = errors.New("not a loop command")
)

// LoopManager is anything that keeps one state per loop: the audio engine,
// a display mirror, a logger...
type LoopManager interface {
	LoopCount() int
	LoopState(index int) LoopState
	SetLoopState(index, time int, state LoopState)
}

// CheckEvent validates a slot index and a block offset. blockLen <= 0 skips
// the offset check, for managers that have no notion of blocks.
func CheckEvent(m LoopManager, index, time, blockLen int) error {
	if index < 0 || index >= m.LoopCount() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSlotIndex, index, m.LoopCount())
	}
	if blockLen > 0 && (time < 0 || time >= blockLen) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOffset, time, blockLen)
	}
	return nil
}

// Apply runs one decoded control command against m.
func Apply(m LoopManager, msg Message, blockLen int) error {
	if !msg.Type.IsSlotCommand() {
		return fmt.Errorf("%w: %s", ErrCommand, msg.Type)
	}
	index := msg.Number
	if msg.Type == UnmuteAll {
		// not addressed to a slot
		index = 0
	}
	if err := CheckEvent(m, index, msg.Time, blockLen); err != nil {
		return err
	}
	dispatch(m, msg)
	return nil
}

// dispatch assumes msg has been validated.
func dispatch(m LoopManager, msg Message) {
	switch msg.Type {
	case Record:
		m.SetLoopState(msg.Number, msg.Time, Recording)
	case Play:
		m.SetLoopState(msg.Number, msg.Time, Playing)
	case Mute:
		m.SetLoopState(msg.Number, msg.Time, Muted)
	case Delete:
		m.SetLoopState(msg.Number, msg.Time, Empty)
	case Solo:
		PlaySolo(m, msg.Number, msg.Time)
	case UnmuteAll:
		PlayAll(m, msg.Time)
	}
}

// IsSolo reports whether the loop is the only one playing.
func IsSolo(m LoopManager, index int) bool {
	if m.LoopState(index) != Playing {
		return false
	}
	for i := 0; i < m.LoopCount(); i++ {
		if i != index && m.LoopState(i) == Playing {
			return false
		}
	}
	return true
}

// PlaySolo plays the loop at index and mutes every other playing loop. Loops
// without a recording cannot be soloed.
func PlaySolo(m LoopManager, index, time int) {
	current := m.LoopState(index)
	if current != Playing && current != Muted {
		return
	}
	m.SetLoopState(index, time, Playing)
	for i := 0; i < m.LoopCount(); i++ {
		if i != index && m.LoopState(i) == Playing {
			m.SetLoopState(i, time, Muted)
		}
	}
}

// PlayAll plays every muted loop.
func PlayAll(m LoopManager, time int) {
	for i := 0; i < m.LoopCount(); i++ {
		if m.LoopState(i) == Muted {
			m.SetLoopState(i, time, Playing)
		}
	}
}
