// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/zeebo/blake3"
	"periph.io/x/conn/v3/display"
)

// palette maps the two panel states; PNG stores it at one bit per pixel.
var palette = color.Palette{color.Black, color.White}

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Sink holds the last frame drawn to it.
type Sink struct {
	mu      sync.Mutex
	frame   *image.Paletted
	encoded []byte
	etag    string
	clients map[*client]struct{}
}

// New returns a white Sink of the given size.
func New(width, height int) *Sink {
	frame := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for i := range frame.Pix {
		frame.Pix[i] = 1
	}
	return &Sink{
		frame:   frame,
		clients: map[*client]struct{}{},
	}
}

// String implements conn.Resource.
func (s *Sink) String() string {
	return "preview.Sink"
}

// Halt implements conn.Resource and ends all running streams.
func (s *Sink) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
func (s *Sink) ColorModel() color.Model {
	return palette
}

// Bounds implements display.Drawer.
func (s *Sink) Bounds() image.Rectangle {
	return s.frame.Bounds()
}

// Draw implements display.Drawer.
func (s *Sink) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Src.Draw(s.frame, dstRect, src, srcPts)
	s.encoded = nil
	s.etag = ""
	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
	return nil
}

// PNG returns the current frame encoded as PNG and its entity tag. The
// returned slice must not be modified.
func (s *Sink) PNG() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.encoded == nil {
		var buf bytes.Buffer
		if err := encoder.Encode(&buf, s.frame); err != nil {
			return nil, "", fmt.Errorf("preview: %w", err)
		}
		sum := blake3.Sum256(buf.Bytes())
		s.encoded = buf.Bytes()
		s.etag = `"` + hex.EncodeToString(sum[:16]) + `"`
	}
	return s.encoded, s.etag, nil
}

var _ display.Drawer = (*Sink)(nil)
