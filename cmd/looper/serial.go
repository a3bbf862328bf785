package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"

	. "github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
)

var (
	serialPort   string
	serialKeymap string
)

var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Bridge a serial footswitch board to MIDI",
	Long: `Read key presses from a serial footswitch board and send the matching
control changes to a MIDI output, so the board can drive the looper.

The keymap file has one "code:command:slot" per line, for instance:
  12:record:0
  13:play:0
  20:all`,
	Args: cobra.NoArgs,
	RunE: runSerial,
}

func init() {
	serialCmd.Flags().StringVarP(&serialPort, "port", "p", "", "serial port, e.g. /dev/ttyUSB0 (default from config)")
	serialCmd.Flags().StringVarP(&serialKeymap, "keymap", "k", "", "keymap file (default from config)")
	rootCmd.AddCommand(serialCmd)
}

func loadKeymap(filename string) (surface.Keymap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return surface.ParseKeymap(file)
}

func runSerial(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	logger := NewLogger("serial")

	if serialPort == "" {
		serialPort = cfg.Serial.Port
	}
	if serialKeymap == "" {
		serialKeymap = cfg.Serial.Keymap
	}
	keymap, err := loadKeymap(serialKeymap)
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	logger.Info("keymap", "path", serialKeymap, "keys", len(keymap))

	kb, err := cfg.NewKeyboard()
	if err != nil {
		return err
	}

	port, err := serial.Open(serialPort, &serial.Mode{BaudRate: cfg.Serial.Baud})
	if err != nil {
		return fmt.Errorf("%s: %w", serialPort, err)
	}
	defer port.Close()
	port.ResetInputBuffer()

	defer midi.CloseDriver()
	out, err := openOut(cfg.Midi.Output, cfg.Midi.VirtualName+"-serial")
	if err != nil {
		return err
	}
	logger.Info("connecting to", "port", serialPort, "output", out.String())
	send, err := midi.SendTo(out)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		port.Close()
	}()
	bridge := surface.NewBridge(keymap, kb, cfg.Midi.Channel, logger)
	return bridge.Run(ctx, port, send)
}
