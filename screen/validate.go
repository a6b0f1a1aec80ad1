// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen

import (
	"fmt"
	"image"
	"strconv"

	"github.com/GermanBionicSystems/epaper/framebuffer"
)

// ValidationError reports a malformed or out of range request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("screen: invalid %s: %s", e.Field, e.Reason)
}

// ValidateText checks a draw-text request: text must be non-empty and fully
// covered by the font, the origin must lie within bounds.
func ValidateText(text string, x, y int, bounds image.Rectangle, f *framebuffer.Font) error {
	if text == "" {
		return &ValidationError{Field: "text", Reason: "empty"}
	}
	if x < bounds.Min.X || x >= bounds.Max.X {
		return &ValidationError{Field: "x", Reason: fmt.Sprintf("%d outside [%d, %d)", x, bounds.Min.X, bounds.Max.X)}
	}
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return &ValidationError{Field: "y", Reason: fmt.Sprintf("%d outside [%d, %d)", y, bounds.Min.Y, bounds.Max.Y)}
	}
	for i, r := range []rune(text) {
		if _, err := f.Glyph(r); err != nil {
			return &ValidationError{Field: "text", Reason: fmt.Sprintf("unsupported character %q at position %d", r, i)}
		}
	}
	return nil
}

// ParseCoordinate parses a decimal, non-negative coordinate for field.
func ParseCoordinate(field, s string) (int, error) {
	if s == "" {
		return 0, &ValidationError{Field: field, Reason: "missing"}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if v < 0 {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%d is negative", v)}
	}
	return v, nil
}
