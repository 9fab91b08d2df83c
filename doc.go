// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 drives HD44780-compatible alphanumeric LCD modules
// wired to discrete GPIO lines.
//
// The controller is driven in 4-bit mode over six lines: register
// select, enable, and the data lines D4-D7. Construction runs the full
// power-on sequence from the datasheet, so a Dev is ready to use as
// soon as New4Bit returns. Dev implements display.TextDisplay.
//
// Command pacing uses fixed delays sized to the controller's published
// minimums. Wirings that also connect the R/W line and can read the
// data lines back may use New4BitBusyPoll to poll the controller's
// busy flag instead of waiting fixed settle times.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780
