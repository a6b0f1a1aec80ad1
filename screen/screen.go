// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/epaper/framebuffer"
)

// Panel is the sequencer contract the display drives.
type Panel interface {
	Bounds() image.Rectangle
	// Active reports whether frame operations are accepted without a wake.
	Active() bool
	// Wake resets the controller and brings it up.
	Wake() error
	PushFrame(frame []byte, invert bool) error
	DeepSleep() error
}

// Polarity records which full-frame orientation was pushed last.
type Polarity uint8

const (
	// White pushes the framebuffer as is.
	White Polarity = iota
	// Black pushes the complement of the framebuffer.
	Black
)

func (p Polarity) String() string {
	if p == Black {
		return "Black"
	}
	return "White"
}

// Opts configures a Display.
type Opts struct {
	// Font is used by DrawText and the demonstration frame; defaults to
	// framebuffer.Basic().
	Font *framebuffer.Font
	// Mirrors receive every frame after a successful push, as shown on the
	// panel.
	Mirrors []display.Drawer
	Logger *slog.Logger
}

// Display owns a framebuffer and the panel it is shown on.
type Display struct {
	mu       sync.Mutex
	panel    Panel
	fb       *framebuffer.Buffer
	font     *framebuffer.Font
	mirrors  []display.Drawer
	log      *slog.Logger
	polarity Polarity
}

// New returns a Display pushing fb to panel. The framebuffer must have the
// panel's size.
func New(panel Panel, fb *framebuffer.Buffer, opts *Opts) (*Display, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if !fb.Bounds().Eq(panel.Bounds()) {
		return nil, fmt.Errorf("screen: framebuffer %v does not match panel %v", fb.Bounds(), panel.Bounds())
	}

	f := opts.Font
	if f == nil {
		f = framebuffer.Basic()
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Display{
		panel:   panel,
		fb:      fb,
		font:    f,
		mirrors: opts.Mirrors,
		log:     logger,
	}, nil
}

// Polarity returns the polarity of the last push.
func (d *Display) Polarity() Polarity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.polarity
}

// Font returns the font used for text.
func (d *Display) Font() *framebuffer.Font {
	return d.font
}

// Snapshot returns a copy of the framebuffer with the current polarity
// applied, i.e. what the panel shows after the last push.
func (d *Display) Snapshot() *framebuffer.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.fb.Clone()
	if d.polarity == Black {
		s.Invert()
	}
	return s
}

// WhiteScreen pushes the framebuffer unchanged.
func (d *Display) WhiteScreen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.push(White)
}

// BlackScreen pushes the complement of the framebuffer.
func (d *Display) BlackScreen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.push(Black)
}

// ToggleScreenColor pushes the framebuffer with the opposite polarity of the
// last push.
func (d *Display) ToggleScreenColor() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.toggle()
}

// ClearScreen resets the framebuffer to white and pushes it at the current
// polarity. The panel is left active.
func (d *Display) ClearScreen() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clear()
}

// DummyPattern draws the demonstration frame and pushes it at the current
// polarity.
func (d *Display) DummyPattern() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dummy()
}

// DrawText validates its arguments, draws text with its top-left corner at
// (x, y) and pushes the frame at the current polarity. Invalid input is
// rejected with a *ValidationError before the framebuffer is touched.
func (d *Display) DrawText(text string, x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text(text, x, y)
}

// DeepSleep puts an active panel into deep sleep.
func (d *Display) DeepSleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sleep()
}

// Toggle flips the polarity and puts the panel to sleep.
func (d *Display) Toggle() error {
	return d.thenSleep("toggle", d.toggle)
}

// Clear blanks the screen and puts the panel to sleep.
func (d *Display) Clear() error {
	return d.thenSleep("clear", d.clear)
}

// Dummy shows the demonstration frame and puts the panel to sleep.
func (d *Display) Dummy() error {
	return d.thenSleep("dummy", d.dummy)
}

// Text draws text at (x, y) and puts the panel to sleep.
func (d *Display) Text(text string, x, y int) error {
	return d.thenSleep("text", func() error {
		return d.text(text, x, y)
	})
}

// Draw implements display.Drawer. The image is copied into the framebuffer
// and the frame is pushed at the current polarity.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draw.Src.Draw(d.fb, dstRect, src, srcPts)
	return d.push(d.polarity)
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return d.fb.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Halt implements conn.Resource. It puts the panel to sleep if it is active.
func (d *Display) Halt() error {
	return d.DeepSleep()
}

func (d *Display) String() string {
	return fmt.Sprintf("screen.Display{%v}", d.panel)
}

func (d *Display) thenSleep(op string, fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := fn(); err != nil {
		d.log.Error("display operation failed", "op", op, "err", err)
		return err
	}
	if err := d.sleep(); err != nil {
		d.log.Error("deep sleep failed", "op", op, "err", err)
		return err
	}
	d.log.Info("display updated", "op", op, "polarity", d.polarity)
	return nil
}

func (d *Display) wake() error {
	if d.panel.Active() {
		return nil
	}
	d.log.Debug("waking panel")
	if err := d.panel.Wake(); err != nil {
		return fmt.Errorf("screen: wake: %w", err)
	}
	return nil
}

func (d *Display) push(p Polarity) error {
	if err := d.wake(); err != nil {
		return err
	}
	if err := d.panel.PushFrame(d.fb.Bytes(), p == Black); err != nil {
		return fmt.Errorf("screen: push: %w", err)
	}
	d.polarity = p

	if len(d.mirrors) == 0 {
		return nil
	}
	shown := d.fb.Clone()
	if p == Black {
		shown.Invert()
	}
	for _, m := range d.mirrors {
		if err := m.Draw(shown.Bounds(), shown, image.Point{}); err != nil {
			d.log.Warn("mirror draw failed", "mirror", m.String(), "err", err)
		}
	}
	return nil
}

func (d *Display) toggle() error {
	if d.polarity == White {
		return d.push(Black)
	}
	return d.push(White)
}

func (d *Display) clear() error {
	d.fb.Clear(framebuffer.White)
	return d.push(d.polarity)
}

func (d *Display) dummy() error {
	if err := drawDummy(d.fb, d.font); err != nil {
		return fmt.Errorf("screen: demonstration frame: %w", err)
	}
	return d.push(d.polarity)
}

func (d *Display) text(text string, x, y int) error {
	if err := ValidateText(text, x, y, d.fb.Bounds(), d.font); err != nil {
		return err
	}
	if err := d.fb.Text(x, y, text, d.font); err != nil {
		return err
	}
	return d.push(d.polarity)
}

func (d *Display) sleep() error {
	if !d.panel.Active() {
		return nil
	}
	if err := d.panel.DeepSleep(); err != nil {
		return fmt.Errorf("screen: deep sleep: %w", err)
	}
	return nil
}

var _ display.Drawer = &Display{}
