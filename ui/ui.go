package ui

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/JeanRibes/looper/music"
	. "github.com/JeanRibes/looper/shared"

	charmlog "github.com/charmbracelet/log"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

//go:embed ui.css
var stylesheet string

// Source is polled for the engine state to display.
type Source interface {
	Snapshot() music.Snapshot
}

var stateClasses = map[music.LoopState]string{
	music.Empty:     "empty",
	music.Recording: "recording",
	music.Playing:   "playing",
	music.Muted:     "muted",
}

type slotWidgets struct {
	glyph *gtk.Label
	state *gtk.Label
	class string
}

type window struct {
	win      *gtk.Window
	slots    []slotWidgets
	phase    *gtk.Label
	progress *gtk.ProgressBar
	events   *EventLog
}

// refresh must run on the GTK main loop.
func (w *window) refresh(snap music.Snapshot) {
	for i, s := range snap.States {
		if i >= len(w.slots) {
			break
		}
		sw := &w.slots[i]
		sw.glyph.SetText(string(s.Glyph()))
		sw.state.SetText(s.String())
		if class := stateClasses[s]; class != sw.class {
			sc, _ := sw.glyph.GetStyleContext()
			sc.RemoveClass(sw.class)
			sc.AddClass(class)
			sw.class = class
		}
	}
	w.phase.SetText(snap.Phase.String())
	w.progress.SetFraction(snap.Progress())
	if n := snap.CycleLength(); n > 0 && snap.Phase == music.Running {
		w.progress.SetText(fmt.Sprintf("%d samples", n))
	} else {
		w.progress.SetText("")
	}
}

func addClass(widget interface {
	GetStyleContext() (*gtk.StyleContext, error)
}, class string) {
	if sc, err := widget.GetStyleContext(); err == nil {
		sc.AddClass(class)
	}
}

// Run shows the looper window until it is closed or ctx is cancelled.
// Buttons write to SinkLoop, notifications are read from SinkUI.
func Run(ctx context.Context, source Source, SinkLoop chan<- Message, SinkUI <-chan Message) error {
	logger := NewLogger("UI")
	logger.Info("start")
	gtk.Init(nil)

	w, err := build(source.Snapshot(), SinkLoop, logger)
	if err != nil {
		return err
	}
	windestroyhandle := w.win.Connect("destroy", func() {
		logger.Debug("close win, sending quit event")
		SinkLoop <- Message{Type: Quit}
		gtk.MainQuit()
	})

	prov, _ := gtk.CssProviderNew()
	if err := prov.LoadFromData(stylesheet); err != nil {
		logger.Warn("stylesheet", "err", err)
	}
	screen, _ := gdk.ScreenGetDefault()
	gtk.AddProviderForScreen(screen, prov, uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
	w.refresh(source.Snapshot())
	w.win.ShowAll()

	go loop(ctx, source, SinkUI, logger, w)
	gtk.Main()
	logger.Info("stop")
	w.win.HandlerDisconnect(windestroyhandle)
	w.win.Destroy()
	return nil
}

func build(snap music.Snapshot, SinkLoop chan<- Message, logger *charmlog.Logger) (*window, error) {
	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("unable to create window: %w", err)
	}
	win.SetTitle("looper")
	win.SetDefaultSize(120*len(snap.States), 360)
	w := &window{win: win}

	mainBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 8)
	mainBox.SetMarginStart(8)
	mainBox.SetMarginEnd(8)
	mainBox.SetMarginTop(8)
	mainBox.SetMarginBottom(8)
	win.Add(mainBox)

	slotsBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 5)
	mainBox.PackStart(slotsBox, false, false, 0)

	send := func(ev Event, slot int) func() {
		return func() {
			logger.Debug("button", "command", ev, "loop", slot)
			SinkLoop <- Message{Type: ev, Number: slot, Time: -1}
		}
	}

	for i := range snap.States {
		slotBox, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 3)
		addClass(slotBox, "slot")

		name, _ := gtk.LabelNew(SlotName(i))
		glyph, _ := gtk.LabelNew("_")
		addClass(glyph, "glyph")
		addClass(glyph, stateClasses[music.Empty])
		state, _ := gtk.LabelNew(music.Empty.String())
		slotBox.Add(name)
		slotBox.Add(glyph)
		slotBox.Add(state)

		for _, b := range []struct {
			label string
			ev    Event
		}{
			{"Rec", Record},
			{"Play", Play},
			{"Mute", Mute},
			{"Del", Delete},
			{"Solo", Solo},
		} {
			btn, _ := gtk.ButtonNewWithLabel(b.label)
			btn.Connect("clicked", send(b.ev, i))
			slotBox.Add(btn)
		}

		slotsBox.PackStart(slotBox, true, true, 0)
		w.slots = append(w.slots, slotWidgets{glyph: glyph, state: state, class: stateClasses[music.Empty]})
	}

	controlsBox, _ := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 8)
	unmuteBtn, _ := gtk.ButtonNewWithLabel("Unmute all")
	unmuteBtn.Connect("clicked", send(UnmuteAll, 0))
	controlsBox.PackStart(unmuteBtn, false, false, 0)
	clearBtn, _ := gtk.ButtonNewWithLabel("Clear log")
	clearBtn.Connect("clicked", func() {
		w.events.Clear()
	})
	controlsBox.PackEnd(clearBtn, false, false, 0)
	w.phase, _ = gtk.LabelNew(snap.Phase.String())
	addClass(w.phase, "phase")
	controlsBox.PackStart(w.phase, false, false, 0)
	mainBox.PackStart(controlsBox, false, false, 0)

	w.progress, _ = gtk.ProgressBarNew()
	w.progress.SetShowText(true)
	mainBox.PackStart(w.progress, false, false, 0)

	if w.events, err = NewEventLog(); err != nil {
		return nil, err
	}
	scroll, _ := gtk.ScrolledWindowNew(nil, nil)
	scroll.SetSizeRequest(-1, 120)
	scroll.Add(w.events.treeView)
	mainBox.PackStart(scroll, true, true, 0)
	w.events.AddRow("started", time.Now())

	return w, nil
}
