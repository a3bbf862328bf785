package surface

import (
	"time"

	. "github.com/JeanRibes/looper/shared"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Listen decodes every message arriving on in and hands the useful ones to
// handler, stamped with their arrival time. When journal is not nil the
// raw messages are recorded too.
func Listen(in drivers.In, kb *Keyboard, journal *Journal, handler func(Message)) (stop func(), err error) {
	return midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		now := time.Now()
		m, ok := kb.Decode(msg)
		if !ok {
			return
		}
		if journal != nil {
			journal.Record(msg, now)
		}
		m.Stamp = now.UnixNano()
		handler(m)
	})
}
