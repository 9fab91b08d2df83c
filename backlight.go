// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// GPIOMonoBacklight is a display.DisplayBacklight that switches a
// single-color backlight through one GPIO line. Any non-zero intensity
// turns it on; there is no dimming.
type GPIOMonoBacklight struct {
	blPin gpio.PinOut
}

// NewBacklight returns a backlight switched by blPin, suitable for
// Opts.Backlight.
func NewBacklight(blPin gpio.PinOut) *GPIOMonoBacklight {
	return &GPIOMonoBacklight{blPin: blPin}
}

// Backlight turns the backlight on or off.
func (bl *GPIOMonoBacklight) Backlight(intensity display.Intensity) error {
	return bl.blPin.Out(gpio.Level(intensity > 0))
}

var _ display.DisplayBacklight = &GPIOMonoBacklight{}
