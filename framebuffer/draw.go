// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

// Line draws a line from (x1, y1) to (x2, y2) inclusive using the integer
// Bresenham algorithm.
//
// The endpoints are put in a fixed order before stepping so that swapping
// them never changes which pixels are touched.
func (b *Buffer) Line(x1, y1, x2, y2 int, c Color) {
	if x2 < x1 || (x2 == x1 && y2 < y1) {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy

	for {
		b.SetPixel(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// Text draws text with its top-left corner at (x, y). Glyph i is placed at
// x + i*f.Width. For every glyph cell the stored bit is inverted on the way
// to the buffer: ink bits become Black, background bits White.
//
// Every rune is checked against the font's range before anything is drawn.
// A rune outside the range fails the call with a *GlyphError and the buffer
// is left untouched.
func (b *Buffer) Text(x, y int, text string, f *Font) error {
	if err := f.Validate(); err != nil {
		return err
	}

	pos := 0
	for _, r := range text {
		if _, err := f.glyph(r, pos); err != nil {
			return err
		}
		pos++
	}

	pos = 0
	for _, r := range text {
		index := int(r - f.First)
		ox := x + pos*f.Width

		for row := 0; row < f.Height; row++ {
			for col := 0; col < f.Width; col++ {
				if f.bit(index, col, row) {
					b.SetPixel(ox+col, y+row, Black)
				} else {
					b.SetPixel(ox+col, y+row, White)
				}
			}
		}
		pos++
	}

	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
