// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// pinGroup binds discrete output lines into a gpio.Group so the driver
// can latch a whole nibble with one masked write. Pin order is least
// significant bit first, i.e. D4 through D7 for a 4-bit bus.
type pinGroup struct {
	pins []gpio.PinOut
}

func newPinGroup(pins ...gpio.PinOut) *pinGroup {
	return &pinGroup{pins: pins}
}

// Pins returns the pins in the group, LSB first.
func (gr *pinGroup) Pins() []pin.Pin {
	result := make([]pin.Pin, len(gr.pins))
	for ix, p := range gr.pins {
		result[ix] = p
	}
	return result
}

// ByOffset returns the pin at the given offset into the group.
func (gr *pinGroup) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(gr.pins) {
		return nil
	}
	return gr.pins[offset]
}

// ByName returns the pin in the group with the given name.
func (gr *pinGroup) ByName(name string) pin.Pin {
	for _, p := range gr.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ByNumber returns the pin in the group with the given pin number.
func (gr *pinGroup) ByNumber(number int) pin.Pin {
	for _, p := range gr.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// Out drives the pins selected by mask to the corresponding bits of
// value. A mask of 0 selects every pin. The first failing pin aborts
// the write and its error is returned unchanged.
func (gr *pinGroup) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(gr.pins)) - 1
	}
	for ix, p := range gr.pins {
		bit := gpio.GPIOValue(1 << ix)
		if mask&bit == 0 {
			continue
		}
		if err := p.Out(gpio.Level(value&bit != 0)); err != nil {
			return err
		}
	}
	return nil
}

// Read samples the pins selected by mask. It requires input-capable
// pins; a group built from output-only lines returns an error.
func (gr *pinGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	if mask == 0 {
		mask = gpio.GPIOValue(1<<len(gr.pins)) - 1
	}
	var value gpio.GPIOValue
	for ix, p := range gr.pins {
		bit := gpio.GPIOValue(1 << ix)
		if mask&bit == 0 {
			continue
		}
		rd, ok := p.(gpio.PinIO)
		if !ok {
			return 0, fmt.Errorf("hd44780: pin %s is not readable", p.Name())
		}
		if rd.Read() == gpio.High {
			value |= bit
		}
	}
	return value, nil
}

// WaitForEdge is not available for this group.
func (gr *pinGroup) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
}

// Halt releases the pins and prevents the group from being used again.
func (gr *pinGroup) Halt() error {
	gr.pins = nil
	return nil
}

func (gr *pinGroup) String() string {
	s := "hd44780[ "
	for _, p := range gr.pins {
		s += p.Name() + " "
	}
	return s + "]"
}

var _ gpio.Group = &pinGroup{}
