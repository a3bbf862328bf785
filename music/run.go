package music

import (
	"context"
	"fmt"
	"time"

	. "github.com/JeanRibes/looper/shared"

	charmlog "github.com/charmbracelet/log"
)

const warningPollInterval = 250 * time.Millisecond

// Run is the only goroutine talking to the host: every control source (MIDI
// listener, displays, serial bridge) writes to SinkLoop and Run forwards
// the slot commands to the audio thread. Other messages are passed on to
// SinkUI for the displays.
func Run(ctx context.Context, cancel func(), host *Host, SinkLoop <-chan Message, SinkUI chan<- Message, logger *charmlog.Logger) {
	logger.Info("start", "loops", host.LoopCount())

	ticker := time.NewTicker(warningPollInterval)
	defer ticker.Stop()
	var seen Warnings

loopchan:
	for {
		select {
		case <-ctx.Done():
			logger.Debug("context Done")
			break loopchan
		case <-ticker.C:
			w := host.Warnings()
			if diff := w.Sub(seen); diff.Any() {
				seen = w
				logger.Warn("audio thread",
					"dropped", diff.Dropped,
					"clamped", diff.Clamped,
					"overflows", diff.Overflows,
					"faults", diff.Faults)
				notify(SinkUI, Message{Type: Warning, String: describeWarnings(diff)})
			}
		case msg := <-SinkLoop:
			switch {
			case msg.Type == Quit:
				logger.Info("quit requested")
				cancel()
				break loopchan
			case msg.Type.IsSlotCommand():
				if err := host.Send(msg); err != nil {
					logger.Error("rejected", "command", msg.Describe(), "err", err)
					notify(SinkUI, Message{Type: Error, String: err.Error()})
					continue
				}
				logger.Debug("queued", "command", msg.Describe(), "time", msg.Time)
			default:
				notify(SinkUI, msg)
			}
		}
	}
	logger.Info("stop")
}

// notify never blocks the control goroutine on a slow display.
func notify(SinkUI chan<- Message, msg Message) {
	if SinkUI == nil {
		return
	}
	select {
	case SinkUI <- msg:
	default:
	}
}

func describeWarnings(w Warnings) string {
	switch {
	case w.Overflows > 0:
		return fmt.Sprintf("first loop longer than the buffers (%d wraps)", w.Overflows)
	case w.Faults > 0:
		return fmt.Sprintf("%d malformed audio blocks", w.Faults)
	case w.Dropped > 0:
		return fmt.Sprintf("%d control events dropped", w.Dropped)
	default:
		return fmt.Sprintf("%d events clamped", w.Clamped)
	}
}
