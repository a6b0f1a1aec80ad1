// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper drives a monochrome 800x480 e-paper panel from push buttons
// and a web interface.
//
// The packages, leaves first:
//
//   - framebuffer: packed 1 bit per pixel buffer, lines and glyph strip text.
//   - waveshare7in5v2: the panel's controller protocol over SPI.
//   - screen: owns a framebuffer and a panel; polarity, clear and text
//     operations serialized under one lock.
//   - button: debounced edges from GPIO lines dispatched to callbacks.
//   - preview, termview: mirrors of the frame shown on the panel.
//   - httpapi, config: the daemon's web interface and configuration.
//
// cmd/epaperd is the daemon; cmd/fontgen turns TrueType fonts into glyph
// strips.
package epaper
