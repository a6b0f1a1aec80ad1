// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen

import "github.com/GermanBionicSystems/epaper/framebuffer"

// stripeRows is the number of rows per stripe of the demonstration fill.
const stripeRows = 11

var dummyLines = []struct {
	x, y int
	text string
}{
	{20, 20, "Hello, world!"},
	{20, 60, "Give me"},
	{40, 90, "$1,000,000"},
	{20, 120, "please..."},
}

// drawDummy renders the demonstration frame: a few lines of text, a
// horizontal rule and a checkered stripe fill over the right part of the
// buffer. The buffer is left untouched when f lacks a glyph of the text.
func drawDummy(fb *framebuffer.Buffer, f *framebuffer.Font) error {
	for _, l := range dummyLines {
		for i, r := range []rune(l.text) {
			if _, err := f.Glyph(r); err != nil {
				return &framebuffer.GlyphError{Rune: r, Pos: i, Font: f.Name}
			}
		}
	}

	w, h := fb.Width(), fb.Height()

	fb.Clear(framebuffer.White)

	for _, l := range dummyLines {
		if err := fb.Text(l.x, l.y, l.text, f); err != nil {
			return err
		}
	}

	fb.Line(20, h/2, h/2-20, h/2, framebuffer.Black)

	// Byte pairs alternate white/black; the pair order flips every
	// stripeRows rows.
	phase := true
	for y := 0; y < h; y++ {
		for col := h / 16; col+1 < (w+7)/8; col += 2 {
			a, b := byte(0xFF), byte(0x00)
			if !phase {
				a, b = b, a
			}
			fb.SetByte(col*8, y, a)
			fb.SetByte((col+1)*8, y, b)
		}
		if (y+1)%stripeRows == 0 {
			phase = !phase
		}
	}
	return nil
}
