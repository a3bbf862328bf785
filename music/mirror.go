package music

import (
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Mirror only keeps loop states. Fed with the same control stream as the
// engine, it follows the engine without sharing anything with it.
type Mirror struct {
	states []LoopState
	sync.RWMutex
}

func NewMirror(n int) *Mirror {
	return &Mirror{states: make([]LoopState, n)}
}

func (m *Mirror) LoopCount() int {
	return len(m.states)
}

func (m *Mirror) LoopState(index int) LoopState {
	m.RLock()
	defer m.RUnlock()
	return m.states[index]
}

func (m *Mirror) SetLoopState(index, _ int, state LoopState) {
	m.Lock()
	m.states[index] = state
	m.Unlock()
}

// Snapshot has no cycle information: the mirror never sees audio.
func (m *Mirror) Snapshot() Snapshot {
	m.RLock()
	defer m.RUnlock()
	states := make([]LoopState, len(m.states))
	copy(states, m.states)
	phase := Idle
	for _, s := range states {
		if s != Empty {
			phase = Running
			break
		}
	}
	return Snapshot{Phase: phase, States: states}
}

// Logged decorates a LoopManager and logs every state change.
type Logged struct {
	LoopManager
	logger *charmlog.Logger
}

func NewLogged(m LoopManager, logger *charmlog.Logger) *Logged {
	return &Logged{LoopManager: m, logger: logger}
}

func (l *Logged) SetLoopState(index, time int, state LoopState) {
	prev := l.LoopManager.LoopState(index)
	l.LoopManager.SetLoopState(index, time, state)
	if prev != state {
		l.logger.Debug("loop state", "loop", index, "from", prev, "to", state, "time", time)
	}
}
