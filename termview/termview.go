// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that renders a monochrome
// frame to a terminal using ANSI 256 color blocks.
//
// Frames are downscaled so the panel fits the terminal; each block shows the
// average gray level of the pixels it covers. It is the output of the
// simulated panel while no hardware is attached.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/display"
)

// DefaultColumns is the rendered width, in blocks, used when Opts.Columns is
// 0.
const DefaultColumns = 80

// Opts represents the options available for this display.
type Opts struct {
	// Width and Height are the size of the emulated panel.
	Width, Height int
	// Columns is the number of blocks per rendered row.
	Columns int
	Palette *ansi256.Palette
	// W receives the output. Defaults to stdout.
	W io.Writer
	// InPlace redraws over the previous frame instead of appending. It
	// defaults to true when W is unset and stdout is a terminal.
	InPlace bool
}

// Dev renders frames to a terminal.
type Dev struct {
	w       io.Writer
	inPlace bool
	palette ansi256.Palette
	img     *image.Gray
	scale   int
	buf     bytes.Buffer
}

// New returns a Dev rendering a Width×Height panel.
func New(opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("termview: invalid size %dx%d", opts.Width, opts.Height)
	}
	cols := opts.Columns
	if cols <= 0 {
		cols = DefaultColumns
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w, inPlace := opts.W, opts.InPlace
	if w == nil {
		w = colorable.NewColorableStdout()
		inPlace = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
	scale := (opts.Width + cols - 1) / cols
	if scale < 1 {
		scale = 1
	}
	img := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return &Dev{
		w:       w,
		inPlace: inPlace,
		palette: *p,
		img:     img,
		scale:   scale,
	}, nil
}

func (d *Dev) String() string {
	return "TermView"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes.
func (d *Dev) Halt() error {
	_, err := io.WriteString(d.w, "\033[0m\n")
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.img, r, src, sp)
	return d.refresh()
}

// Size returns the rendered size in blocks.
func (d *Dev) Size() (cols, rows int) {
	b := d.img.Bounds()
	return (b.Dx() + d.scale - 1) / d.scale, (b.Dy() + d.scale - 1) / d.scale
}

// shade returns the average level of the block at (bx, by).
func (d *Dev) shade(bx, by int) uint8 {
	area := image.Rect(bx*d.scale, by*d.scale, (bx+1)*d.scale, (by+1)*d.scale).Intersect(d.img.Bounds())
	sum, n := 0, 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := d.img.Pix[y*d.img.Stride:]
		for x := area.Min.X; x < area.Max.X; x++ {
			sum += int(row[x])
			n++
		}
	}
	if n == 0 {
		return 0xFF
	}
	return uint8(sum / n)
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	if d.inPlace {
		_, _ = d.buf.WriteString("\033[H")
	}
	cols, rows := d.Size()
	for by := 0; by < rows; by++ {
		for bx := 0; bx < cols; bx++ {
			v := d.shade(bx, by)
			_, _ = d.buf.WriteString(d.palette.Block(color.NRGBA{v, v, v, 255}))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
