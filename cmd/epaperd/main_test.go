// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/epaper/config"
	"github.com/GermanBionicSystems/epaper/waveshare7in5v2"
)

func TestPanelOpts(t *testing.T) {
	cfg := config.Default()
	cfg.Panel.Variant = config.VariantFast
	cfg.Panel.Speed = "8MHz"
	cfg.Panel.Busy = config.Busy{Mode: config.BusyDelay, Delay: 250 * time.Millisecond}

	opts, err := panelOpts(&cfg.Panel)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Variant != waveshare7in5v2.Fast {
		t.Errorf("Variant = %v, want Fast", opts.Variant)
	}
	if opts.Speed != 8*physic.MegaHertz {
		t.Errorf("Speed = %s, want 8MHz", opts.Speed)
	}
	if opts.Busy != waveshare7in5v2.Delay(250*time.Millisecond) {
		t.Errorf("Busy = %v, want 250ms delay", opts.Busy)
	}
	if opts.Width != 800 || opts.Height != 480 {
		t.Errorf("size %dx%d, want 800x480", opts.Width, opts.Height)
	}
}

func TestLookupButton(t *testing.T) {
	lines := config.Default().Buttons.Lines
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"1", 0},
		{"3", 2},
		{"4", -1},
		{"0", -1},
		{"toggle", 1},
		{"DUMMY", 2},
		{"reboot", -1},
	} {
		if got := lookupButton(lines, tc.in); got != tc.want {
			t.Errorf("lookupButton(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPressFromInput(t *testing.T) {
	lines := config.Default().Buttons.Lines
	pins := make([]*gpiotest.Pin, len(lines))
	for i := range pins {
		pins[i] = &gpiotest.Pin{EdgesChan: make(chan gpio.Level, 4)}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pressFromInput(context.Background(), strings.NewReader("2\nnope\nclear\n"), lines, pins, logger)

	for i, want := range []int{1, 1, 0} {
		if got := len(pins[i].EdgesChan); got != want {
			t.Errorf("pin %d got %d edges, want %d", i, got, want)
		}
	}
}

func TestSimPort(t *testing.T) {
	p := &simPort{}
	c, err := p.Connect(physic.MegaHertz, 0, 8)
	if err != nil {
		t.Fatal(err)
	}
	r := []byte{1, 2}
	if err := c.Tx([]byte{0xAA, 0xBB, 0xCC}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0 || r[1] != 0 {
		t.Errorf("read %v, want zeros", r)
	}
	if got := p.String(); got != "sim(3 bytes)" {
		t.Errorf("String() = %q", got)
	}
}
