package main

import (
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	. "github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
)

var replayOutput string

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Send a recorded control journal to a MIDI output",
	Long: `Play back the control messages written by "looper run --journal" with
their original timing. Connect the output to a looper input to repeat a
session.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "MIDI output port (default from config)")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	logger := NewLogger("replay")

	if replayOutput == "" {
		replayOutput = cfg.Midi.Output
	}
	defer midi.CloseDriver()
	out, err := openOut(replayOutput, cfg.Midi.VirtualName+"-replay")
	if err != nil {
		return err
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return err
	}
	logger.Info("replaying", "path", args[0], "output", out.String())
	if err := surface.Replay(charmlog.WithContext(ctx, logger), args[0], send); err != nil {
		return err
	}
	logger.Info("done")
	return nil
}
