// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	panelSetting              byte = 0x00
	powerSetting              byte = 0x01
	powerOff                  byte = 0x02
	powerOn                   byte = 0x04
	boosterSoftStart          byte = 0x06
	deepSleep                 byte = 0x07
	displayStartTransmission1 byte = 0x10
	displayRefresh            byte = 0x12
	displayStartTransmission2 byte = 0x13
	dualSPI                   byte = 0x15
	vcomAndDataInterval       byte = 0x50
	tconSetting               byte = 0x60
	resolutionSetting         byte = 0x61
	cascadeSetting            byte = 0xE0
	forceTemperature          byte = 0xE5
)

// deepSleepCheckCode must follow the deep sleep command, otherwise the
// controller ignores it.
const deepSleepCheckCode byte = 0xA5

// Mandatory delays from the vendor reference sequence.
const (
	resetPulse     = 10 * time.Millisecond
	resetSettle    = 10 * time.Millisecond
	powerOnSettle  = 100 * time.Millisecond
	refreshSettle  = 1 * time.Millisecond
	powerOffSettle = 100 * time.Millisecond
)

var (
	// ErrNotInitialized is returned for frame operations before Init or
	// InitFast succeeded.
	ErrNotInitialized = errors.New("waveshare7in5v2: controller not initialized")
	// ErrSleeping is returned for any command while the controller is in
	// deep sleep. Wake resets and re-initializes it.
	ErrSleeping = errors.New("waveshare7in5v2: controller in deep sleep")
	// ErrFrameSize is returned when a frame does not match the panel size.
	ErrFrameSize = errors.New("waveshare7in5v2: frame size does not match panel")
)

// State is the controller lifecycle state.
type State uint8

const (
	Uninitialized State = iota
	Active
	Sleeping
)

func (s State) String() string {
	switch s {
	case Active:
		return "Active"
	case Sleeping:
		return "Sleeping"
	default:
		return "Uninitialized"
	}
}

// Variant selects the bring-up sequence.
type Variant uint8

const (
	// Standard uses the full power and booster configuration.
	Standard Variant = iota
	// Fast uses the enhanced drive sequence with a forced temperature
	// value for a quicker refresh.
	Fast
)

func (v Variant) String() string {
	if v == Fast {
		return "Fast"
	}
	return "Standard"
}

// Opts is the configuration profile of a panel.
type Opts struct {
	Width   int
	Height  int
	Speed   physic.Frequency
	Variant Variant
	// Busy waits for the controller to become idle. Nil selects BusyPin on
	// the busy line given to New, or DefaultDelay when there is none.
	Busy BusyWaiter
}

// EPD7in5v2 is the standard bring-up profile of the 7.5 inch V2 panel.
var EPD7in5v2 = Opts{
	Width:   800,
	Height:  480,
	Speed:   4 * physic.MegaHertz,
	Variant: Standard,
}

// EPD7in5v2Fast is the fast bring-up profile of the 7.5 inch V2 panel.
var EPD7in5v2Fast = Opts{
	Width:   800,
	Height:  480,
	Speed:   12 * physic.MegaHertz,
	Variant: Fast,
}

// FrameSize returns the number of bytes of one full frame.
func (o *Opts) FrameSize() int {
	return (o.Width + 7) / 8 * o.Height
}

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	maxTxSize int
	waiter    BusyWaiter
	sleep     func(time.Duration)
	state     State

	opts Opts
}

// New creates new handler which is used to access the display. cs may be nil
// when the SPI port drives chip-select itself; busy may be nil when
// opts.Busy is set or the fixed delay is acceptable.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("waveshare7in5v2: invalid size %dx%d", opts.Width, opts.Height)
	}

	speed := opts.Speed
	if speed == 0 {
		speed = EPD7in5v2.Speed
	}

	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("waveshare7in5v2: failed to connect over spi: %w", err)
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits interface,
	// otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	waiter := opts.Busy
	if waiter == nil {
		if busy != nil {
			if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
				return nil, fmt.Errorf("waveshare7in5v2: failed to configure busy pin: %w", err)
			}
			waiter = &BusyPin{Pin: busy}
		} else {
			waiter = DefaultDelay
		}
	}

	d := &Dev{
		c:         c,
		dc:        dc,
		cs:        cs,
		rst:       rst,
		busy:      busy,
		maxTxSize: maxTxSize,
		waiter:    waiter,
		sleep:     time.Sleep,
		opts:      *opts,
	}

	if cs != nil {
		if err := cs.Out(gpio.High); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default
// Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// State returns the controller lifecycle state.
func (d *Dev) State() State {
	return d.state
}

// Active reports whether the controller accepts frame operations.
func (d *Dev) Active() bool {
	return d.state == Active
}

// Bounds returns the panel size.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Init resets the controller and runs the standard bring-up sequence.
func (d *Dev) Init() error {
	return d.bringUp(initDisplay)
}

// InitFast resets the controller and runs the fast bring-up sequence.
func (d *Dev) InitFast() error {
	return d.bringUp(initDisplayFast)
}

// Wake resets the controller and runs the bring-up sequence selected by the
// profile. It is the only way out of deep sleep.
func (d *Dev) Wake() error {
	if d.opts.Variant == Fast {
		return d.InitFast()
	}
	return d.Init()
}

func (d *Dev) bringUp(seq func(controller, *Opts)) error {
	eh := errorHandler{d: d}

	seq(&eh, &d.opts)

	if eh.err != nil {
		d.state = Uninitialized
		return eh.err
	}

	d.state = Active
	return nil
}

func (d *Dev) ready() error {
	switch d.state {
	case Active:
		return nil
	case Sleeping:
		return ErrSleeping
	default:
		return ErrNotInitialized
	}
}

// PushFrame uploads a full frame and refreshes the panel. The frame is sent
// as the old image, bitwise complemented when invert is set, followed by an
// all-zero new image.
func (d *Dev) PushFrame(frame []byte, invert bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	if len(frame) != d.opts.FrameSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(frame), d.opts.FrameSize())
	}

	eh := errorHandler{d: d}

	pushFrame(&eh, frame, invert)

	return eh.err
}

// Refresh triggers a display refresh of the current controller RAM.
func (d *Dev) Refresh() error {
	if err := d.ready(); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	refresh(&eh)

	return eh.err
}

// DeepSleep powers the panel off and puts the controller into deep sleep.
// The image stays on the panel.
func (d *Dev) DeepSleep() error {
	if err := d.ready(); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	enterDeepSleep(&eh)

	if eh.err != nil {
		return eh.err
	}

	d.state = Sleeping
	return nil
}

// Halt implements conn.Resource. It puts an active controller into deep
// sleep.
func (d *Dev) Halt() error {
	if d.state != Active {
		return nil
	}
	return d.DeepSleep()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

var _ conn.Resource = &Dev{}
