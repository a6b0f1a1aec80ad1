// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultThreshold is the alpha value above which a rendered pixel counts as
// ink.
const DefaultThreshold = 0x40

// FromStrip packs a rendered glyph strip into a Font. The strip holds count
// cells of w×h pixels side by side, starting at img.Bounds().Min; any pixel
// whose alpha exceeds threshold becomes ink.
func FromStrip(name string, img image.Image, first rune, count, w, h int, threshold uint8) (*Font, error) {
	r := img.Bounds()
	if r.Dx() < count*w || r.Dy() < h {
		return nil, fmt.Errorf("%w: strip %v too small for %d glyphs of %dx%d", ErrFont, r, count, w, h)
	}

	stride := (count*w + 7) / 8
	f := &Font{
		Name:   name,
		First:  first,
		Count:  count,
		Width:  w,
		Height: h,
		Size:   stride * h,
		Bitmap: make([]byte, stride*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < count*w; x++ {
			a := color.AlphaModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.Alpha).A
			if a > threshold {
				f.Bitmap[y*stride+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}

	return f, f.Validate()
}

// RasterizeFace renders count consecutive characters starting at first from
// face into w×h cells and returns the resulting Font. The baseline sits at
// the face's ascent.
func RasterizeFace(name string, face font.Face, first rune, count, w, h int) (*Font, error) {
	if count <= 0 || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %q has empty dimensions", ErrFont, name)
	}

	strip := image.NewAlpha(image.Rect(0, 0, count*w, h))
	d := font.Drawer{
		Dst:  strip,
		Src:  image.Opaque,
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()

	for i := 0; i < count; i++ {
		d.Dot = fixed.P(i*w, ascent)
		d.DrawString(string(first + rune(i)))
	}

	return FromStrip(name, strip, first, count, w, h, DefaultThreshold)
}

var (
	basicOnce sync.Once
	basicFont *Font
	basicErr  error
)

// Basic returns a 7x13 font covering printable ASCII, rasterized from
// basicfont.Face7x13.
func Basic() *Font {
	basicOnce.Do(func() {
		face := basicfont.Face7x13
		basicFont, basicErr = RasterizeFace("basic-7x13", face, 0x20, 0x7F-0x20, face.Advance, face.Height)
	})
	if basicErr != nil {
		panic(basicErr)
	}
	return basicFont
}
