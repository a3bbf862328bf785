package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/JeanRibes/looper/audio"
	"github.com/JeanRibes/looper/music"
	. "github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
	"github.com/JeanRibes/looper/tui"
	"github.com/JeanRibes/looper/ui"
)

var (
	withGUI     bool
	withTUI     bool
	journalPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the looper",
	Long: `Open the audio device and the MIDI input and run the looper until
interrupted.

Example:
  looper run --tui
  looper run --gui --journal session.mid`,
	Args: cobra.NoArgs,
	RunE: runLooper,
}

func init() {
	runCmd.Flags().BoolVar(&withGUI, "gui", false, "show the GTK window")
	runCmd.Flags().BoolVar(&withTUI, "tui", false, "show the terminal display")
	runCmd.Flags().StringVar(&journalPath, "journal", "", "write the control messages to this MIDI file on exit")
	runCmd.MarkFlagsMutuallyExclusive("gui", "tui")
	rootCmd.AddCommand(runCmd)
}

func runLooper(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	logger := NewLogger("looper")

	a := cfg.Audio
	looper := music.NewLooper(a.Slots, a.Capacity(), a.Threshold)
	host := music.NewHost(looper, a.SampleRate, a.FramesPerBuffer, a.QueueSize)
	logger.Info("engine", "slots", looper.LoopCount(), "capacity", looper.Capacity(), "threshold", looper.Threshold())

	kb, err := cfg.NewKeyboard()
	if err != nil {
		return err
	}
	defer midi.CloseDriver()
	in, err := openIn(cfg.Midi.Input, cfg.Midi.VirtualName)
	if err != nil {
		return err
	}
	logger.Info("connecting to", "input", in.String())

	SinkLoop := make(chan Message, 64)
	SinkUI := make(chan Message, 64)

	done := make(chan struct{})
	go func() {
		music.Run(ctx, cancel, host, SinkLoop, SinkUI, NewLogger("bus"))
		close(done)
	}()

	var journal *surface.Journal
	if journalPath != "" {
		journal = surface.NewJournal()
	}
	stop, err := surface.Listen(in, kb, journal, func(m Message) {
		select {
		case SinkLoop <- m:
		default:
			logger.Warn("control bus full, dropping", "command", m.Describe())
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	stream, err := audio.Open(host, a.SampleRate, a.FramesPerBuffer)
	if err != nil {
		return err
	}
	logger.Info(stream.Info())
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	switch {
	case withGUI:
		err = ui.Run(ctx, host, SinkLoop, SinkUI)
	case withTUI:
		view := *kb
		send := func(m Message) { SinkLoop <- m }
		err = tui.Run(ctx, tui.NewModel("looper", host, send, SinkUI, &view))
	default:
		go logNotifications(ctx, SinkUI, logger)
		<-ctx.Done()
	}
	cancel()
	<-done

	errs := []error{err, stream.Close()}
	if journal != nil {
		logger.Info("writing journal", "path", journalPath, "messages", journal.Len())
		errs = append(errs, journal.WriteFile(journalPath))
	}
	return errors.Join(errs...)
}

func logNotifications(ctx context.Context, SinkUI <-chan Message, logger *charmlog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-SinkUI:
			logger.Info(msg.Describe())
		}
	}
}
