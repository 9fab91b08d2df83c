// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "fmt"

// SetGlyph loads a custom 5x8 character into one of the controller's
// eight CGRAM slots. Each glyph byte is one pixel row, top first, with
// the low 5 bits visible. The glyph is displayed by writing the slot
// number (0x00-0x07) as a character.
//
// The upload leaves the controller's address counter in CGRAM;
// reposition with MoveTo or SetCursorPos before writing text.
func (d *Dev) SetGlyph(slot int, glyph [8]byte) error {
	if slot < 0 || slot > 7 {
		return fmt.Errorf("hd44780: glyph slot %d out of range [0,7]", slot)
	}
	if err := d.sendCommand(cmdSetCGRAMAddr | byte(slot)<<3); err != nil {
		return err
	}
	for _, row := range glyph {
		if err := d.sendData(row & 0x1f); err != nil {
			return err
		}
	}
	return nil
}
