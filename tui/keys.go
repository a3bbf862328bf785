package tui

import (
	"github.com/charmbracelet/bubbles/key"

	. "github.com/JeanRibes/looper/shared"
)

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	Select key.Binding
	Prev   key.Binding
	Next   key.Binding
	Record key.Binding
	Play   key.Binding
	Mute   key.Binding
	Delete key.Binding
	Solo   key.Binding
	All    key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Select: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "select loop")),
	Prev:   Key("previous loop", "left", "h"),
	Next:   Key("next loop", "right", "l"),
	Record: Key("record", "r"),
	Play:   Key("play", "p"),
	Mute:   Key("mute", "m"),
	Delete: Key("delete", "d"),
	Solo:   Key("solo", "s"),
	All:    Key("unmute all", "a"),
	Help:   Key("help", "?"),
	Quit:   Key("quit", "q", "ctrl+c"),
}

// commands maps the command keys to the bus event they send.
var commands = []struct {
	binding *key.Binding
	event   Event
}{
	{&keys.Record, Record},
	{&keys.Play, Play},
	{&keys.Mute, Mute},
	{&keys.Delete, Delete},
	{&keys.Solo, Solo},
	{&keys.All, UnmuteAll},
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Record, k.Play, k.Mute, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Prev, k.Next},
		{k.Record, k.Play, k.Mute, k.Delete},
		{k.Solo, k.All},
		{k.Help, k.Quit},
	}
}
