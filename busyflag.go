// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"periph.io/x/conn/v3/gpio"
)

// New4BitBusyPoll is New4Bit for wirings that also connect the
// controller's R/W line and can read the data lines back. Instead of
// fixed inter-command settle times, the driver polls the controller's
// busy flag and proceeds as soon as it clears, which is faster on slow
// commands and safer on out-of-spec panels.
//
// The power-on sequence still runs on fixed delays: the busy flag
// cannot be read before the interface width is established.
func New4BitBusyPoll(rs, rw, en gpio.PinOut, d4, d5, d6, d7 gpio.PinIO, opts *Opts) (*Dev, error) {
	// The controller drives the data lines during a read. Keep R/W low
	// through initialization so every transfer is a write.
	if err := rw.Out(gpio.Low); err != nil {
		return nil, err
	}
	d, err := New(newPinGroup(d4, d5, d6, d7), rs, en, opts)
	if err != nil {
		return nil, err
	}
	d.rwPin = rw
	d.poll = true
	return d, nil
}

// pollBusy reads the controller status until the busy flag clears. BF
// is bit 7 of the status byte, so it arrives on the topmost data line
// of the high nibble.
func (d *Dev) pollBusy() error {
	if err := d.rsPin.Out(gpio.Level(modeCommand)); err != nil {
		return err
	}
	if err := d.rwPin.Out(gpio.High); err != nil {
		return err
	}
	defer func() {
		_ = d.rwPin.Out(gpio.Low)
	}()
	for {
		status, err := d.readByte()
		if err != nil {
			return err
		}
		if status&0x80 == 0 {
			return nil
		}
		d.sleep(delaySettle)
	}
}

// readByte clocks the two status nibbles out of the controller, high
// nibble first. The lines are sampled while EN is high.
func (d *Dev) readByte() (byte, error) {
	var b byte
	for range 2 {
		if err := d.enablePin.Out(gpio.High); err != nil {
			return 0, err
		}
		d.sleep(delayEnable)
		nibble, err := d.dataPins.Read(0x0f)
		if err != nil {
			return 0, err
		}
		if err := d.enablePin.Out(gpio.Low); err != nil {
			return 0, err
		}
		d.sleep(delaySetup)
		b = b<<4 | byte(nibble&0x0f)
	}
	return b, nil
}
