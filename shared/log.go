package shared

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

var logLevel = charmlog.InfoLevel

// SetLogLevel changes the level of every logger created afterwards.
func SetLogLevel(level string) error {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return err
	}
	logLevel = lvl
	return nil
}

func NewLogger(prefix string) *charmlog.Logger {
	return charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           logLevel,
		ReportCaller:    logLevel == charmlog.DebugLevel,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}
