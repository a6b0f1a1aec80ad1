// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/epaper/config"
	"github.com/GermanBionicSystems/epaper/termview"
	"github.com/GermanBionicSystems/epaper/waveshare7in5v2"
)

// simBusy stands in for the controller's refresh time.
const simBusy = 20 * time.Millisecond

// simPort is an SPI port that counts and discards every write.
type simPort struct {
	written atomic.Int64
}

func (s *simPort) String() string {
	return fmt.Sprintf("sim(%d bytes)", s.written.Load())
}

func (s *simPort) Close() error {
	return nil
}

func (s *simPort) LimitSpeed(f physic.Frequency) error {
	return nil
}

func (s *simPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	return s, nil
}

func (s *simPort) Duplex() conn.Duplex {
	return conn.Half
}

// MaxTxSize implements conn.Limits.
func (s *simPort) MaxTxSize() int {
	return 1 << 16
}

func (s *simPort) Tx(w, r []byte) error {
	s.written.Add(int64(len(w)))
	clear(r)
	return nil
}

func (s *simPort) TxPackets(p []spi.Packet) error {
	for i := range p {
		if err := s.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

var _ spi.PortCloser = (*simPort)(nil)
var _ spi.Conn = (*simPort)(nil)

// openSimulator wires the panel to a terminal view and the buttons to lines
// typed on stdin.
func openSimulator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*hardware, error) {
	opts, err := panelOpts(&cfg.Panel)
	if err != nil {
		return nil, err
	}
	opts.Busy = waveshare7in5v2.Delay(simBusy)

	port := &simPort{}
	dev, err := waveshare7in5v2.New(port,
		&gpiotest.Pin{N: "SIM_DC"},
		&gpiotest.Pin{N: "SIM_CS"},
		&gpiotest.Pin{N: "SIM_RST"},
		nil, opts)
	if err != nil {
		return nil, err
	}

	view, err := termview.New(&termview.Opts{Width: cfg.Panel.Width, Height: cfg.Panel.Height})
	if err != nil {
		return nil, err
	}

	buttons := map[string]gpio.PinIn{}
	pins := make([]*gpiotest.Pin, len(cfg.Buttons.Lines))
	for i, l := range cfg.Buttons.Lines {
		pins[i] = &gpiotest.Pin{N: "SIM_" + strings.ToUpper(l.Name), Num: i, EdgesChan: make(chan gpio.Level)}
		buttons[l.Name] = pins[i]
	}
	go pressFromInput(ctx, os.Stdin, cfg.Buttons.Lines, pins, logger)

	return &hardware{
		panel:   dev,
		buttons: buttons,
		mirrors: []display.Drawer{view},
		closers: []io.Closer{port, closerFunc(view.Halt)},
	}, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// pressFromInput sends a falling edge on a button pin for every input line
// naming the button, by name or by its 1-based number.
func pressFromInput(ctx context.Context, r io.Reader, lines []config.Button, pins []*gpiotest.Pin, logger *slog.Logger) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		i := lookupButton(lines, strings.TrimSpace(s.Text()))
		if i < 0 {
			logger.Warn("unknown button", "input", s.Text())
			continue
		}
		select {
		case pins[i].EdgesChan <- gpio.Low:
		case <-ctx.Done():
			return
		}
	}
}

func lookupButton(lines []config.Button, s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(lines) {
			return n - 1
		}
		return -1
	}
	for i, l := range lines {
		if strings.EqualFold(l.Name, s) {
			return i
		}
	}
	return -1
}
