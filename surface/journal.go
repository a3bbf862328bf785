package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// The tempo only gives meaning to ticks: journals are not meant to be
// played along a beat.
const JournalBPM = float64(120)

const TICKS = smf.MetricTicks(960)

var ErrEmptyJournal = errors.New("journal has no tracks")

// Journal keeps the control messages of a session with their timing, to
// be written as a standard MIDI file.
type Journal struct {
	mu    sync.Mutex
	track smf.Track
	last  time.Time
}

func NewJournal() *Journal {
	j := &Journal{}
	j.track.Add(0, smf.MetaTempo(JournalBPM))
	return j
}

func (j *Journal) Record(msg midi.Message, at time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var delta uint32
	if !j.last.IsZero() && at.After(j.last) {
		delta = TICKS.Ticks(JournalBPM, at.Sub(j.last))
	}
	j.track.Add(delta, msg)
	j.last = at
}

// Len counts the recorded messages, not the tempo event.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.track) - 1
}

func (j *Journal) WriteFile(path string) error {
	j.mu.Lock()
	tr := append(smf.Track{}, j.track...)
	j.mu.Unlock()
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = TICKS
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return s.WriteFile(path)
}

// LoadJournal returns the first track of a journal file and its clock.
func LoadJournal(path string) (smf.Track, smf.MetricTicks, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	if s.NumTracks() < 1 {
		return nil, 0, fmt.Errorf("%s: %w", path, ErrEmptyJournal)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, 0, fmt.Errorf("%s: not a metric time format", path)
	}
	return s.Tracks[0], ticks, nil
}

// Replay sends the control messages of a journal file with their original
// timing. It returns early when ctx is cancelled.
func Replay(ctx context.Context, path string, send func(midi.Message) error) error {
	track, ticks, err := LoadJournal(path)
	if err != nil {
		return err
	}
	return PlayTrack(ctx, track, ticks, send)
}

func PlayTrack(ctx context.Context, track smf.Track, ticks smf.MetricTicks, send func(midi.Message) error) error {
	logger := charmlog.FromContext(ctx)
	bpm := JournalBPM
	timer := time.NewTimer(0)
	<-timer.C
	defer timer.Stop()

	for _, ev := range track {
		var tempo float64
		if ev.Message.GetMetaTempo(&tempo) {
			bpm = tempo
			continue
		}
		if ev.Delta > 0 {
			timer.Reset(ticks.Duration(bpm, ev.Delta))
			select {
			case <-ctx.Done():
				logger.Debug("replay cancelled")
				return nil
			case <-timer.C:
			}
		}
		if !ev.Message.IsPlayable() {
			continue
		}
		logger.Debug("replay", "msg", ev.Message, "delta", ev.Delta)
		if err := send(midi.Message(ev.Message)); err != nil {
			return err
		}
	}
	return nil
}
