// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"errors"
	"fmt"
)

// Font is an immutable fixed-size bitmap font.
//
// Bitmap holds all glyphs side by side as one horizontal strip of
// Count*Width pixels by Height rows, packed MSB-first with Size/Height bytes
// per row. A set bit marks ink.
type Font struct {
	Name   string
	First  rune
	Count  int
	Width  int
	Height int
	// Size is the number of bytes of Bitmap in use.
	Size   int
	Bitmap []byte
}

// GlyphError reports a character the font has no glyph for.
type GlyphError struct {
	Rune rune
	// Pos is the position of the offending character within the text.
	Pos  int
	Font string
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("framebuffer: no glyph for %q at position %d in font %q", e.Rune, e.Pos, e.Font)
}

// ErrFont is returned for a font descriptor whose fields do not describe its
// bitmap.
var ErrFont = errors.New("framebuffer: invalid font")

// Validate checks that the descriptor is consistent with its bitmap so that
// glyph lookups can never read past it.
func (f *Font) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil", ErrFont)
	}
	if f.Count <= 0 || f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %q has empty dimensions", ErrFont, f.Name)
	}
	if f.Size%f.Height != 0 {
		return fmt.Errorf("%w: %q size %d is not a multiple of height %d", ErrFont, f.Name, f.Size, f.Height)
	}
	if f.Stride()*8 < f.Count*f.Width {
		return fmt.Errorf("%w: %q rows of %d bytes cannot hold %d glyphs of width %d", ErrFont, f.Name, f.Stride(), f.Count, f.Width)
	}
	if len(f.Bitmap) < f.Size {
		return fmt.Errorf("%w: %q bitmap has %d bytes, want %d", ErrFont, f.Name, len(f.Bitmap), f.Size)
	}
	return nil
}

// Stride returns the number of bytes per bitmap row.
func (f *Font) Stride() int {
	return f.Size / f.Height
}

// Glyph returns the glyph index of r.
func (f *Font) Glyph(r rune) (int, error) {
	return f.glyph(r, 0)
}

// Contains reports whether the font has a glyph for every rune of text.
func (f *Font) Contains(text string) bool {
	for _, r := range text {
		if _, err := f.glyph(r, 0); err != nil {
			return false
		}
	}
	return true
}

func (f *Font) glyph(r rune, pos int) (int, error) {
	index := int(r) - int(f.First)
	if index < 0 || index >= f.Count {
		return 0, &GlyphError{Rune: r, Pos: pos, Font: f.Name}
	}
	return index, nil
}

// bit reports whether pixel (col, row) of glyph index is ink.
func (f *Font) bit(index, col, row int) bool {
	current := index*f.Width + col
	return f.Bitmap[row*f.Stride()+current/8]>>(7-uint(current%8))&1 == 1
}
