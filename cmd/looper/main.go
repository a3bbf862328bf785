package main

import (
	"os"

	. "github.com/JeanRibes/looper/shared"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		NewLogger("looper").Error(err)
		os.Exit(1)
	}
}
