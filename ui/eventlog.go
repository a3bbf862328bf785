package ui

import (
	"strconv"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

const maxEventRows = 50

// EventLog is a table of the last notifications received from the engine.
type EventLog struct {
	treeView  *gtk.TreeView
	listStore *gtk.ListStore
	rows      int
}

const (
	COLUMN_TIME = iota
	COLUMN_EVENT
)

func NewEventLog() (*EventLog, error) {
	treeView, err := gtk.TreeViewNew()
	if err != nil {
		return nil, err
	}
	timeRenderer, _ := gtk.CellRendererTextNew()
	timeColumn, _ := gtk.TreeViewColumnNewWithAttribute("time", timeRenderer, "text", COLUMN_TIME)
	treeView.AppendColumn(timeColumn)

	eventRenderer, _ := gtk.CellRendererTextNew()
	eventColumn, _ := gtk.TreeViewColumnNewWithAttribute("event", eventRenderer, "text", COLUMN_EVENT)
	treeView.AppendColumn(eventColumn)

	listStore, err := gtk.ListStoreNew(glib.TYPE_STRING, glib.TYPE_STRING)
	if err != nil {
		return nil, err
	}
	treeView.SetModel(listStore)

	return &EventLog{
		treeView:  treeView,
		listStore: listStore,
	}, nil
}

// AddRow must run on the GTK main loop. The oldest rows are dropped.
func (el *EventLog) AddRow(event string, at time.Time) {
	iter := el.listStore.Prepend()
	el.listStore.SetValue(iter, COLUMN_TIME, at.Format("15:04:05"))
	el.listStore.SetValue(iter, COLUMN_EVENT, event)
	el.rows++
	for el.rows > maxEventRows {
		last, err := el.listStore.GetIterFromString(strconv.Itoa(el.rows - 1))
		if err != nil {
			break
		}
		el.listStore.Remove(last)
		el.rows--
	}
}

func (el *EventLog) Clear() {
	el.listStore.Clear()
	el.rows = 0
}
