package ui

import (
	"context"
	"time"

	. "github.com/JeanRibes/looper/shared"

	charmlog "github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

const refreshInterval = 50 * time.Millisecond

func loop(ctx context.Context, source Source, SinkUI <-chan Message, logger *charmlog.Logger, w *window) {
	errors := ""
	errorDialog := gtk.MessageDialogNew(w.win, gtk.DIALOG_MODAL, gtk.MESSAGE_ERROR, gtk.BUTTONS_CLOSE, "Error")
	errorDialog.Connect("response", func() {
		errorDialog.Hide()
		errors = ""
	})

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("chan Done, quitting")
			glib.IdleAdd(gtk.MainQuit)
			return
		case <-ticker.C:
			snap := source.Snapshot()
			glib.IdleAdd(func() {
				w.refresh(snap)
			})
		case msg := <-SinkUI:
			now := time.Now()
			switch msg.Type {
			case Error:
				if len(errors) == 0 {
					errors = msg.String
				} else {
					errors += "\n\n" + msg.String
				}
				text := errors
				glib.IdleAdd(func() {
					w.events.AddRow(msg.Describe(), now)
					errorDialog.FormatSecondaryText("%s", text)
					errorDialog.Show()
				})
			default:
				glib.IdleAdd(func() {
					w.events.AddRow(msg.Describe(), now)
				})
			}
		}
	}
}
