package surface

import (
	"errors"
	"fmt"

	. "github.com/JeanRibes/looper/shared"
	"gitlab.com/gomidi/midi/v2"
)

// DefaultControllers is the control change layout of the midi314 keyboard.
var DefaultControllers = map[string]uint8{
	"record":      20,
	"play":        21,
	"mute":        22,
	"delete":      23,
	"solo":        24,
	"all":         25,
	"min_pitch":   26,
	"min_program": 27,
}

// Keyboard decodes the control surface messages and keeps the keyboard
// settings that travel on the same channel.
type Keyboard struct {
	controllers map[uint8]Event

	MinPitch       uint8
	MinProgram     uint8
	CurrentProgram uint8
	KeyboardWidth  uint8 // semitones
	ProgramKeys    uint8
}

// NewKeyboard builds a decoder from a command name -> controller number
// table. Two commands cannot share a controller.
func NewKeyboard(controllers map[string]uint8) (*Keyboard, error) {
	k := &Keyboard{
		controllers:   map[uint8]Event{},
		MinPitch:      48,
		KeyboardWidth: 28,
		ProgramKeys:   10,
	}
	var errs []error
	for name, cc := range controllers {
		ev, err := ParseEvent(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ev.IsSlotCommand() && ev != SetMinPitch && ev != SetMinProgram {
			errs = append(errs, fmt.Errorf("%s cannot be bound to a controller", name))
			continue
		}
		if other, ok := k.controllers[cc]; ok {
			errs = append(errs, fmt.Errorf("controller %d bound to both %s and %s", cc, other, ev))
			continue
		}
		k.controllers[cc] = ev
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return k, nil
}

// Controller returns the controller number bound to ev.
func (k *Keyboard) Controller(ev Event) (uint8, bool) {
	for cc, e := range k.controllers {
		if e == ev {
			return cc, true
		}
	}
	return 0, false
}

// Decode turns a MIDI message into a bus message. Keyboard settings are
// applied on the way. ok is false for anything the looper does not use.
// Slot commands get a negative Time: their offset is decided by the audio
// thread.
func (k *Keyboard) Decode(msg midi.Message) (m Message, ok bool) {
	var ch, cc, val, prog uint8
	switch {
	case msg.GetControlChange(&ch, &cc, &val):
		ev, found := k.controllers[cc]
		if !found {
			return Message{}, false
		}
		m = Message{Type: ev, Number: int(val), Time: -1}
	case msg.GetProgramChange(&ch, &prog):
		m = Message{Type: ProgramChange, Number: int(prog)}
	default:
		return Message{}, false
	}
	k.Apply(m)
	return m, true
}

// Apply updates the keyboard settings carried by m. Displays use it to
// follow a Keyboard living in another goroutine.
func (k *Keyboard) Apply(m Message) {
	if m.Number < 0 || m.Number > 127 {
		return
	}
	switch m.Type {
	case SetMinPitch:
		k.MinPitch = uint8(m.Number)
	case SetMinProgram:
		k.MinProgram = uint8(m.Number)
	case ProgramChange:
		k.CurrentProgram = uint8(m.Number)
	}
}

// Encode is the inverse of Decode for slot commands.
func (k *Keyboard) Encode(channel uint8, m Message) (midi.Message, error) {
	cc, ok := k.Controller(m.Type)
	if !ok {
		return nil, fmt.Errorf("no controller bound to %s", m.Type)
	}
	if m.Number < 0 || m.Number > 127 {
		return nil, fmt.Errorf("value %d does not fit a control change", m.Number)
	}
	return midi.ControlChange(channel, cc, uint8(m.Number)), nil
}

// PitchRange returns the names of the lowest and highest notes of the
// keyboard.
func (k *Keyboard) PitchRange() (string, string) {
	high := int(k.MinPitch) + int(k.KeyboardWidth) - 1
	if high > 127 {
		high = 127
	}
	return midi.Note(k.MinPitch).String(), midi.Note(uint8(high)).String()
}

// ProgramRange is 1-based, like the numbers printed on synthesizers.
func (k *Keyboard) ProgramRange() (int, int) {
	return int(k.MinProgram) + 1, int(k.MinProgram) + int(k.ProgramKeys)
}

func (k *Keyboard) Describe() string {
	low, high := k.PitchRange()
	first, last := k.ProgramRange()
	return fmt.Sprintf("pitch [%s - %s]  program [%d - %d]  current %d",
		low, high, first, last, int(k.CurrentProgram)+1)
}
