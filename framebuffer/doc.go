// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuffer implements the packed 1-bit pixel store mirrored onto
// an e-paper panel, together with the drawing primitives used on it.
//
// Pixels are stored row-major, 8 pixels per byte, most significant bit
// first. A set bit is White, which is also the state of a freshly created
// or cleared buffer. The byte layout is exactly the one the panel
// controller expects in its image RAM, so Bytes can be streamed to the
// device without conversion.
//
// Coordinates outside the buffer are silently dropped by every drawing
// primitive. Glyph lookups outside a font's character range are reported
// as *GlyphError instead.
package framebuffer
