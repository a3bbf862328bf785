package shared

import (
	"fmt"
	"strings"
)

type Event int

const (
	Quit Event = iota
	// slot commands, carried from the control surface to the engine
	Record
	Play
	Mute
	Delete
	Solo
	UnmuteAll
	// handled by the control surface itself
	SetMinPitch
	SetMinProgram
	ProgramChange
	// notifications towards displays
	Error
	Warning
)

var eventNames = map[Event]string{
	Quit:          "quit",
	Record:        "record",
	Play:          "play",
	Mute:          "mute",
	Delete:        "delete",
	Solo:          "solo",
	UnmuteAll:     "all",
	SetMinPitch:   "min_pitch",
	SetMinProgram: "min_program",
	ProgramChange: "program",
	Error:         "error",
	Warning:       "warning",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ParseEvent is the inverse of Event.String, used for the controllers table
// of the config file and the serial keymap.
func ParseEvent(name string) (Event, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for e, n := range eventNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// IsSlotCommand reports whether the event changes slot states.
func (e Event) IsSlotCommand() bool {
	return e >= Record && e <= UnmuteAll
}

// Message travels on the control bus. For slot commands Number is the slot
// index and Time the sample offset inside the block it applies to; a
// negative Time lets the audio thread derive the offset from Stamp.
type Message struct {
	Type    Event
	Number  int
	Boolean bool
	String  string
	Number2 int
	Time    int
	Stamp   int64 // arrival time, unix nanoseconds
}

func (m Message) Describe() string {
	switch {
	case m.Type == UnmuteAll:
		return "unmute all"
	case m.Type.IsSlotCommand():
		return fmt.Sprintf("%s loop %d", m.Type, m.Number)
	case m.String != "":
		return fmt.Sprintf("%s: %s", m.Type, m.String)
	default:
		return fmt.Sprintf("%s %d", m.Type, m.Number)
	}
}

const NUM_SLOTS = 9

func SlotName(slot int) string {
	return fmt.Sprintf("loop %d", slot+1)
}
