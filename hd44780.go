// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

type writeMode bool

type ifMode byte

const (
	modeCommand writeMode = false
	modeData    writeMode = true

	mode4Bit ifMode = 0x04
	mode8Bit ifMode = 0x08
)

// HD44780 instruction set.
const (
	cmdClearDisplay   byte = 0x01
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80

	optIncrement  byte = 0x02 // cmdEntryModeSet
	optShift      byte = 0x01 // cmdEntryModeSet
	optDisplayOn  byte = 0x04 // cmdDisplayControl
	optCursorOn   byte = 0x02 // cmdDisplayControl
	optBlinkOn    byte = 0x01 // cmdDisplayControl
	optShiftRight byte = 0x04 // cmdCursorShift
	optTwoLines   byte = 0x08 // cmdFunctionSet
	opt8BitBus    byte = 0x10 // cmdFunctionSet
)

// Controller timing floors. These are minimums from the datasheet, with
// the margins the datasheet recommends; a delay source may wait longer
// but never less.
const (
	delayPowerOn   = 40 * time.Millisecond
	delayInitLong  = 4100 * time.Microsecond
	delayInitShort = 100 * time.Microsecond
	delaySetup     = 1 * time.Microsecond
	delayEnable    = 2 * time.Microsecond
	delaySettle    = 50 * time.Microsecond
	delayClear     = 2 * time.Millisecond
)

// Opts holds the device configuration.
type Opts struct {
	// Rows and Cols describe the attached panel geometry.
	Rows int
	Cols int
	// Backlight, if not nil, is driven by Backlight() and Halt().
	Backlight display.DisplayBacklight
	// Delay blocks the calling goroutine for the requested duration.
	// Defaults to time.Sleep. The controller has hard minimum command
	// timings, so a replacement must never wait less than asked.
	Delay func(time.Duration)
}

// DefaultOpts is the configuration for the common 16x2 panel.
var DefaultOpts = Opts{Rows: 2, Cols: 16}

// Dev is a handle to an initialized display. It owns the supplied lines
// for its lifetime; nothing else may drive them while it exists. A Dev
// is not safe for concurrent use: the bus protocol is a timed sequence
// of line transitions and interleaving two operations leaves the
// controller mid-transfer in an undefined state.
type Dev struct {
	dataPins  gpio.Group
	rsPin     gpio.PinOut
	enablePin gpio.PinOut
	rwPin     gpio.PinOut // busy-poll wirings only, nil otherwise
	backlight display.DisplayBacklight
	mode      ifMode
	rows      int
	cols      int
	sleep     func(time.Duration)
	poll      bool
	on        bool
	cursor    bool
	blink     bool
}

// New4Bit creates a display from six discrete output lines: register
// select, enable, and the panel's D4-D7 data lines. It runs the full
// power-on initialization and returns the display in a cleared,
// display-on, cursor-off state. Any line failure aborts initialization
// and is returned as-is; no partially initialized Dev escapes.
func New4Bit(rs, en, d4, d5, d6, d7 gpio.PinOut, opts *Opts) (*Dev, error) {
	return New(newPinGroup(d4, d5, d6, d7), rs, en, opts)
}

// New creates a display from a gpio.Group holding the data lines plus
// discrete register select and enable lines. The first 4 pins of the
// group are D4-D7; a group of 8 or more pins selects the controller's
// 8-bit interface with the first 8 pins as D0-D7. Extra pins in the
// group are left alone, so a group that also carries the rs/en lines
// (as returned by gpioioctl.LineSet or an I/O expander) works directly.
func New(dataPins gpio.Group, rs, en gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if n := len(dataPins.Pins()); n < 4 {
		return nil, fmt.Errorf("hd44780: at least 4 data pins are required, got %d", n)
	}
	mode := mode4Bit
	if len(dataPins.Pins()) >= 8 {
		mode = mode8Bit
	}
	d := &Dev{
		dataPins:  dataPins,
		rsPin:     rs,
		enablePin: en,
		backlight: opts.Backlight,
		mode:      mode,
		rows:      opts.Rows,
		cols:      opts.Cols,
		sleep:     opts.Delay,
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}
	if d.rows == 0 {
		d.rows = DefaultOpts.Rows
	}
	if d.cols == 0 {
		d.cols = DefaultOpts.Cols
	}
	if d.rows > 4 {
		return nil, fmt.Errorf("hd44780: at most 4 rows are supported, got %d", d.rows)
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init forces the controller from its undefined power-on state into the
// configured interface width and a usable steady state.
//
// The controller comes up in 8-bit mode, but may also be mid-nibble if
// the host rebooted without a panel power cycle. Sending the 8-bit
// select three times resynchronizes it in every case; the inter-command
// gaps shrink as the controller's timing margin narrows.
func (d *Dev) init() error {
	// Supply rise time is unbounded from our point of view.
	d.sleep(delayPowerOn)
	if err := d.rsPin.Out(gpio.Level(modeCommand)); err != nil {
		return err
	}
	if err := d.enablePin.Out(gpio.Low); err != nil {
		return err
	}
	for _, wait := range []time.Duration{delayInitLong, delayInitShort, delayInitShort} {
		var err error
		if d.mode == mode4Bit {
			err = d.writeNibble(0x03)
		} else {
			err = d.write8Bits(0x30)
		}
		if err != nil {
			return err
		}
		d.sleep(wait)
	}
	funcSet := cmdFunctionSet
	if d.rows > 1 {
		funcSet |= optTwoLines
	}
	if d.mode == mode4Bit {
		// Drop to 4 bits. Every transfer from here on is a nibble pair.
		if err := d.writeNibble(0x02); err != nil {
			return err
		}
		d.sleep(delayInitShort)
	} else {
		funcSet |= opt8BitBus
	}
	steps := []byte{
		funcSet,
		cmdDisplayControl, // display off while the rest is configured
		cmdClearDisplay,
		cmdEntryModeSet | optIncrement,
	}
	for _, cmd := range steps {
		if err := d.sendCommand(cmd); err != nil {
			return err
		}
	}
	d.on = true
	return d.sendCommand(cmdDisplayControl | optDisplayOn)
}

// Clear wipes the display and moves the cursor to address 0. The
// controller performs an internal RAM sweep, so this blocks for its
// longest command time before returning.
func (d *Dev) Clear() error {
	return d.sendCommand(cmdClearDisplay)
}

// Home moves the cursor back to address 0 without altering the display
// contents.
func (d *Dev) Home() error {
	return d.sendCommand(cmdReturnHome)
}

// SetCursorPos moves the cursor to a raw DDRAM address. On a two-line
// panel line 1 starts at 0x00 and line 2 at 0x40. The address is not
// validated: the controller accepts any value and the visual result of
// an out-of-range address is controller-defined.
func (d *Dev) SetCursorPos(addr byte) error {
	return d.sendCommand(cmdSetDDRAMAddr | addr)
}

// DDRAM address of the first cell of each 1-indexed row. Index 0 is
// unused. Rows 3 and 4 continue the address ranges of rows 1 and 2, so
// their offsets depend on the panel width: 16 columns on a 16x4 panel,
// 20 columns on the wider ones.
var rowConstants = [][]byte{{0, 0x00, 0x40, 0x10, 0x50}, {0, 0x00, 0x40, 0x14, 0x54}}

func getRowConstant(row, maxcols int) byte {
	var offset int
	if maxcols != 16 {
		offset = 1
	}
	return rowConstants[offset][row]
}

// MoveTo moves the cursor to the given 1-indexed row and column.
func (d *Dev) MoveTo(row, col int) error {
	if row < d.MinRow() || row > d.rows || col < d.MinCol() || col > d.cols {
		return fmt.Errorf("hd44780: MoveTo(%d,%d) value out of range", row, col)
	}
	return d.SetCursorPos(getRowConstant(row, d.cols) + byte(col-1))
}

// Move shifts the cursor one position forward or backward without
// writing a character.
func (d *Dev) Move(dir display.CursorDirection) error {
	cmd := cmdCursorShift
	switch dir {
	case display.Backward:
	case display.Forward:
		cmd |= optShiftRight
	case display.Up, display.Down:
		fallthrough
	default:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
	return d.sendCommand(cmd)
}

// Cursor sets the cursor display style. Multiple modes may be passed;
// the last ones win.
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	d.cursor = false
	d.blink = false
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
		case display.CursorUnderline:
			d.cursor = true
		case display.CursorBlink, display.CursorBlock:
			d.cursor = true
			d.blink = true
		default:
			return fmt.Errorf("hd44780: unexpected cursor mode: %d", mode)
		}
	}
	return d.writeDisplayControl()
}

// Display turns the panel on or off. Display contents are preserved
// while it is off.
func (d *Dev) Display(on bool) error {
	d.on = on
	return d.writeDisplayControl()
}

func (d *Dev) writeDisplayControl() error {
	cmd := cmdDisplayControl
	if d.on {
		cmd |= optDisplayOn
	}
	if d.cursor {
		cmd |= optCursorOn
	}
	if d.blink {
		cmd |= optBlinkOn
	}
	return d.sendCommand(cmd)
}

// AutoScroll sets whether the display shifts on every written character
// so the cursor appears to stay in place. Maps to the entry mode shift
// flag.
func (d *Dev) AutoScroll(enabled bool) error {
	cmd := cmdEntryModeSet | optIncrement
	if enabled {
		cmd |= optShift
	}
	return d.sendCommand(cmd)
}

// Write sends p to the display data register byte by byte. Characters
// land at successive DDRAM addresses; the driver does not wrap lines,
// so text written past the end of a row ends up wherever the
// controller's own address increment puts it, which on most panels is
// not the visually adjacent row. Returns the count of bytes fully
// transferred; the first line failure aborts the write.
func (d *Dev) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if err = d.sendData(b); err != nil {
			return
		}
		n++
	}
	return
}

// WriteString writes text at the current cursor position.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

// Rows returns the number of rows the display supports.
func (d *Dev) Rows() int {
	return d.rows
}

// Cols returns the number of columns the display supports.
func (d *Dev) Cols() int {
	return d.cols
}

// MinRow returns the min row position.
func (d *Dev) MinRow() int {
	return 1
}

// MinCol returns the min column position.
func (d *Dev) MinCol() int {
	return 1
}

func (d *Dev) String() string {
	return fmt.Sprintf("hd44780.Dev{%s, rows: %d, cols: %d}", d.dataPins, d.rows, d.cols)
}

// Backlight sets the backlight intensity if a backlight was configured,
// and turns the display on (intensity > 0) or off.
func (d *Dev) Backlight(intensity display.Intensity) error {
	if err := d.Display(intensity > 0); err != nil {
		return err
	}
	if d.backlight == nil {
		return nil
	}
	return d.backlight.Backlight(intensity)
}

// Halt clears the display, turns the backlight and the display off, and
// releases the data lines.
func (d *Dev) Halt() error {
	_ = d.Clear()
	_ = d.Backlight(0)
	_ = d.Display(false)
	return d.dataPins.Halt()
}

// send transfers one logical byte to the command or data register. RS
// is a property of the byte, not of the nibble: it is driven once and
// stays put across both halves.
func (d *Dev) send(b byte, mode writeMode) error {
	if err := d.waitReady(); err != nil {
		return err
	}
	if err := d.rsPin.Out(gpio.Level(mode)); err != nil {
		return err
	}
	if d.mode == mode4Bit {
		if err := d.writeNibble(b >> 4); err != nil {
			return err
		}
		return d.writeNibble(b & 0x0f)
	}
	return d.write8Bits(b)
}

func (d *Dev) sendCommand(cmd byte) error {
	if err := d.send(cmd, modeCommand); err != nil {
		return err
	}
	d.settle(commandDelay(cmd))
	return nil
}

func (d *Dev) sendData(b byte) error {
	if err := d.send(b, modeData); err != nil {
		return err
	}
	d.settle(delaySettle)
	return nil
}

// commandDelay returns the settle time the controller needs after cmd.
// Clear and home trigger a full DDRAM sweep and take orders of
// magnitude longer than every other instruction.
func commandDelay(cmd byte) time.Duration {
	if cmd == cmdClearDisplay || cmd == cmdReturnHome {
		return delayClear
	}
	return delaySettle
}

// settle blocks until the controller can accept the next transfer. In
// fixed-delay mode that is a plain wait; in busy-poll mode the wait is
// skipped because the next transfer polls the busy flag first.
func (d *Dev) settle(dur time.Duration) {
	if d.poll {
		return
	}
	d.sleep(dur)
}

func (d *Dev) waitReady() error {
	if !d.poll {
		return nil
	}
	return d.pollBusy()
}

func (d *Dev) writeNibble(value byte) error {
	return d.writeBits(gpio.GPIOValue(value), 0x0f)
}

func (d *Dev) write8Bits(value byte) error {
	return d.writeBits(gpio.GPIOValue(value), 0xff)
}

// writeBits latches value onto the data lines: drive the lines, wait
// the data setup floor, then pulse EN. The falling edge commits the
// transfer into the controller.
func (d *Dev) writeBits(value, mask gpio.GPIOValue) error {
	if err := d.dataPins.Out(value, mask); err != nil {
		return err
	}
	d.sleep(delaySetup)
	if err := d.enablePin.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(delayEnable)
	return d.enablePin.Out(gpio.Low)
}

var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
