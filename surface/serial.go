package surface

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	. "github.com/JeanRibes/looper/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

// Binding is what a footswitch key does.
type Binding struct {
	Type Event
	Slot int
}

// Keymap maps the key codes sent by the footswitch board to commands.
type Keymap map[int]Binding

// ParseKeymap reads one "code:command:slot" per line, e.g. "12:record:0".
// The slot may be omitted for "all". Blank lines and lines starting with
// # are skipped.
func ParseKeymap(r io.Reader) (Keymap, error) {
	keymap := Keymap{}
	var errs []error
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		code, binding, err := parseBinding(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap line %d: %w", lineNo, err))
			continue
		}
		keymap[code] = binding
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return keymap, nil
}

func parseBinding(line string) (int, Binding, error) {
	s := strings.Split(line, ":")
	for i := range s {
		s[i] = strings.TrimSpace(s[i])
	}
	if len(s) < 2 || len(s) > 3 {
		return 0, Binding{}, fmt.Errorf("%q: expected code:command:slot", line)
	}
	code, err := strconv.Atoi(s[0])
	if err != nil {
		return 0, Binding{}, err
	}
	if code < 0 || code > 255 {
		return 0, Binding{}, fmt.Errorf("key code %d out of range", code)
	}
	ev, err := ParseEvent(s[1])
	if err != nil {
		return 0, Binding{}, err
	}
	if !ev.IsSlotCommand() {
		return 0, Binding{}, fmt.Errorf("%s is not a loop command", ev)
	}
	b := Binding{Type: ev}
	if len(s) == 3 {
		if b.Slot, err = strconv.Atoi(s[2]); err != nil {
			return 0, Binding{}, err
		}
	} else if ev != UnmuteAll {
		return 0, Binding{}, fmt.Errorf("%s needs a slot", ev)
	}
	return code, b, nil
}

// Bridge turns footswitch presses read from a serial port into the control
// changes the looper listens to.
type Bridge struct {
	keymap  Keymap
	kb      *Keyboard
	channel uint8
	pressed [256]bool
	logger  *charmlog.Logger
}

func NewBridge(keymap Keymap, kb *Keyboard, channel uint8, logger *charmlog.Logger) *Bridge {
	return &Bridge{keymap: keymap, kb: kb, channel: channel, logger: logger}
}

// Handle processes one [status, code] packet. A status with the high bit
// cleared is a key press; a key held down is reported only once.
func (b *Bridge) Handle(status, code byte, send func(midi.Message) error) error {
	press := status>>7 == 0
	if b.pressed[code] && press {
		return nil
	}
	b.pressed[code] = press
	if !press {
		return nil
	}
	binding, ok := b.keymap[int(code)]
	if !ok {
		b.logger.Debug("unassigned", "code", code)
		return nil
	}
	msg, err := b.kb.Encode(b.channel, Message{Type: binding.Type, Number: binding.Slot})
	if err != nil {
		return err
	}
	b.logger.Debug("key", "code", code, "command", binding.Type, "slot", binding.Slot)
	return send(msg)
}

// Run reads packets until r is exhausted or ctx is cancelled. Closing the
// port unblocks a pending read.
func (b *Bridge) Run(ctx context.Context, r io.Reader, send func(midi.Message) error) error {
	buf := make([]byte, 2)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := b.Handle(buf[0], buf[1], send); err != nil {
			b.logger.Error("send", "err", err)
		}
	}
}
