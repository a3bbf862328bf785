package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/JeanRibes/looper/music"
	. "github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
	"github.com/JeanRibes/looper/tui"
)

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show the loop states of a looper running elsewhere",
	Long: `Listen to the same MIDI keyboard as the looper and follow the loop
states it commands. Nothing is shared with the looper process: the display
replays the control messages on its own copy of the states.`,
	Args: cobra.NoArgs,
	RunE: runDisplay,
}

func init() {
	rootCmd.AddCommand(displayCmd)
}

func runDisplay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	logger := NewLogger("display")

	kb, err := cfg.NewKeyboard()
	if err != nil {
		return err
	}
	defer midi.CloseDriver()
	in, err := openIn(cfg.Midi.Input, cfg.Midi.VirtualName+"-display")
	if err != nil {
		return err
	}
	logger.Info("connecting to", "input", in.String())

	mirror := music.NewMirror(cfg.Audio.Slots)
	states := music.NewLogged(mirror, logger)
	notes := make(chan Message, 16)
	notify := func(m Message) {
		select {
		case notes <- m:
		default:
		}
	}
	stop, err := surface.Listen(in, kb, nil, func(m Message) {
		if !m.Type.IsSlotCommand() {
			notify(m)
			return
		}
		if err := music.Apply(states, m, 0); err != nil {
			logger.Warn("ignored", "command", m.Describe(), "err", err)
			notify(Message{Type: Error, String: err.Error()})
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	view := *kb
	return tui.Run(ctx, tui.NewModel("looper display", mirror, nil, notes, &view))
}
