package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"

	"github.com/JeanRibes/looper/audio"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI, serial and audio ports",
	Args:  cobra.NoArgs,
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	defer midi.CloseDriver()
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "MIDI inputs:")
	fmt.Fprint(w, midi.GetInPorts().String())
	fmt.Fprintln(w, "MIDI outputs:")
	fmt.Fprint(w, midi.GetOutPorts().String())

	fmt.Fprintln(w, "Serial ports:")
	ports, err := serial.GetPortsList()
	if err != nil {
		return err
	}
	for _, port := range ports {
		fmt.Fprintf(w, "  %s\n", port)
	}

	fmt.Fprintln(w, "Audio devices:")
	devices, err := audio.Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}
