// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"errors"
	"log"
	"time"

	"github.com/GermanBionicSystems/hd44780"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/gpioioctl"
)

// This example drives a 16x2 panel wired to six GPIO lines in 4-bit
// mode. The pins are obtained from the periph.io/x/host gpioioctl
// package; any gpio.PinOut implementation works.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	chip := gpioioctl.Chips[0]
	ls, err := chip.LineSet(gpioioctl.LineOutput, gpio.NoEdge, gpio.PullNoChange,
		"GPIO18", "GPIO19", "GPIO20", "GPIO21", "GPIO16", "GPIO17")
	if err != nil {
		log.Fatal(err)
	}
	pins := ls.Pins()
	rs := pins[4].(gpio.PinOut)
	en := pins[5].(gpio.PinOut)
	lcd, err := hd44780.New4Bit(rs, en,
		pins[0].(gpio.PinOut), pins[1].(gpio.PinOut),
		pins[2].(gpio.PinOut), pins[3].(gpio.PinOut), nil)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lcd.Halt() }()

	_, _ = lcd.WriteString("Hello")
	_ = lcd.MoveTo(2, 1)
	_, _ = lcd.WriteString("16x2 panel")
	time.Sleep(5 * time.Second)

	errs := displaytest.TestTextDisplay(lcd, true)
	for _, e := range errs {
		if !errors.Is(e, display.ErrNotImplemented) {
			log.Println(e)
		}
	}
}

// A gpio.Group that already carries the rs and en lines can be passed
// to New directly. The first four pins of the group are D4-D7.
func ExampleNew() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	chip := gpioioctl.Chips[0]
	ls, err := chip.LineSet(gpioioctl.LineOutput, gpio.NoEdge, gpio.PullNoChange,
		"GPIO18", "GPIO19", "GPIO20", "GPIO21", "GPIO16", "GPIO17")
	if err != nil {
		log.Fatal(err)
	}
	pins := ls.Pins()
	lcd, err := hd44780.New(ls, pins[4].(gpio.PinOut), pins[5].(gpio.PinOut),
		&hd44780.Opts{Rows: 2, Cols: 16})
	if err != nil {
		log.Fatal(err)
	}
	_ = lcd.Clear()
	_, _ = lcd.WriteString("via gpio.Group")
	time.Sleep(5 * time.Second)
	_ = lcd.Halt()
}

// Custom characters live in the controller's CGRAM and display as the
// byte values 0x00-0x07.
func ExampleDev_SetGlyph() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	chip := gpioioctl.Chips[0]
	ls, err := chip.LineSet(gpioioctl.LineOutput, gpio.NoEdge, gpio.PullNoChange,
		"GPIO18", "GPIO19", "GPIO20", "GPIO21", "GPIO16", "GPIO17")
	if err != nil {
		log.Fatal(err)
	}
	pins := ls.Pins()
	lcd, err := hd44780.New4Bit(pins[4].(gpio.PinOut), pins[5].(gpio.PinOut),
		pins[0].(gpio.PinOut), pins[1].(gpio.PinOut),
		pins[2].(gpio.PinOut), pins[3].(gpio.PinOut), nil)
	if err != nil {
		log.Fatal(err)
	}
	heart := [8]byte{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00, 0x00}
	if err := lcd.SetGlyph(0, heart); err != nil {
		log.Fatal(err)
	}
	_ = lcd.MoveTo(1, 1)
	_, _ = lcd.Write([]byte{0x00})
	time.Sleep(5 * time.Second)
	_ = lcd.Halt()
}
