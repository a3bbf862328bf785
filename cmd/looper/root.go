package main

import (
	"github.com/spf13/cobra"

	"github.com/JeanRibes/looper/config"
	. "github.com/JeanRibes/looper/shared"
)

var (
	cfgPath string
	debug   bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "looper",
	Short: "MIDI-controlled live audio looper",
	Long: `looper records the audio input into loop slots and plays them back
in sync, driven by control changes from a MIDI keyboard.

The first recorded loop starts at the first audible sample and its length
becomes the cycle length of every other loop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
		level := cfg.Log.Level
		if debug {
			level = "debug"
		}
		return SetLogLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
}
