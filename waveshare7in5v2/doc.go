// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveshare7in5v2 controls the Waveshare 7.5 inch V2 black/white
// e-paper panel (800×480, UC8179 controller).
//
// The driver owns the SPI link and the controller lifecycle:
//
//	Uninitialized --Init/InitFast--> Active --DeepSleep--> Sleeping
//
// Only a hardware reset followed by Init or InitFast (see Wake) leaves
// Sleeping. Frame data is supplied by the caller as packed 1-bit rows,
// MSB-first, as produced by package framebuffer.
//
// Datasheet
//
// https://www.waveshare.com/w/upload/6/60/7.5inch_e-Paper_V2_Specification.pdf
//
// Product page:
//
// https://www.waveshare.com/wiki/7.5inch_e-Paper_HAT_Manual
package waveshare7in5v2
