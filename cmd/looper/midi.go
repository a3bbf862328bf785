package main

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// openIn finds the named input port, or opens a virtual one when it does
// not exist.
func openIn(name, virtualName string) (drivers.In, error) {
	in, err := midi.FindInPort(name)
	if err == nil {
		return in, nil
	}
	drv, ok := drivers.Get().(*rtmididrv.Driver)
	if !ok {
		return nil, err
	}
	return drv.OpenVirtualIn(virtualName)
}

func openOut(name, virtualName string) (drivers.Out, error) {
	out, err := midi.FindOutPort(name)
	if err == nil {
		return out, nil
	}
	drv, ok := drivers.Get().(*rtmididrv.Driver)
	if !ok {
		return nil, err
	}
	return drv.OpenVirtualOut(virtualName)
}
