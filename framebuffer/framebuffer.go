// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Color is the value of a single pixel.
type Color uint8

const (
	// Black is a cleared bit.
	Black Color = 0
	// White is a set bit.
	White Color = 1
)

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// fill returns the byte value of eight pixels of color c.
func (c Color) fill() byte {
	if c == White {
		return 0xFF
	}
	return 0x00
}

// Buffer is a packed monochrome framebuffer.
type Buffer struct {
	width  int
	height int
	stride int
	pix    []byte
}

// New returns a White buffer of w×h pixels.
func New(w, h int) *Buffer {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	stride := (w + 7) / 8
	b := &Buffer{
		width:  w,
		height: h,
		stride: stride,
		pix:    make([]byte, stride*h),
	}
	b.Clear(White)
	return b
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.stride
}

// Bytes returns the backing store. The slice aliases the buffer; it must not
// be retained across drawing calls by code that does not own the buffer.
func (b *Buffer) Bytes() []byte {
	return b.pix
}

func (b *Buffer) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// SetPixel sets the pixel at (x, y). Out of range coordinates are ignored.
func (b *Buffer) SetPixel(x, y int, c Color) {
	if !b.in(x, y) {
		return
	}
	mask := byte(0x80) >> uint(x%8)
	if c == White {
		b.pix[y*b.stride+x/8] |= mask
	} else {
		b.pix[y*b.stride+x/8] &^= mask
	}
}

// Pixel returns the pixel at (x, y), or Black (0) when out of range.
func (b *Buffer) Pixel(x, y int) Color {
	if !b.in(x, y) {
		return Black
	}
	if b.pix[y*b.stride+x/8]&(0x80>>uint(x%8)) != 0 {
		return White
	}
	return Black
}

// SetByte replaces the group of eight pixels containing x on row y. Only the
// byte column of x is significant.
func (b *Buffer) SetByte(x, y int, v byte) {
	if !b.in(x, y) {
		return
	}
	b.pix[y*b.stride+x/8] = v
}

// Byte returns the group of eight pixels containing x on row y, or 0 when
// out of range.
func (b *Buffer) Byte(x, y int) byte {
	if !b.in(x, y) {
		return 0
	}
	return b.pix[y*b.stride+x/8]
}

// Clear fills the whole buffer with c.
func (b *Buffer) Clear(c Color) {
	v := c.fill()
	for i := range b.pix {
		b.pix[i] = v
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.pix = append([]byte(nil), b.pix...)
	return &c
}

// Invert complements every pixel in place.
func (b *Buffer) Invert() {
	for i := range b.pix {
		b.pix[i] = ^b.pix[i]
	}
}

// String returns the buffer dimensions.
func (b *Buffer) String() string {
	return fmt.Sprintf("framebuffer.Buffer{Width: %d, Height: %d}", b.width, b.height)
}

// ColorModel implements image.Image. White pixels are image1bit.On.
func (b *Buffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	return image1bit.Bit(b.Pixel(x, y) == White)
}

// Set implements draw.Image.
func (b *Buffer) Set(x, y int, c color.Color) {
	if image1bit.BitModel.Convert(c).(image1bit.Bit) {
		b.SetPixel(x, y, White)
	} else {
		b.SetPixel(x, y, Black)
	}
}

var _ draw.Image = &Buffer{}
