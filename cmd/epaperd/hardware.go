// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/config"
	"github.com/GermanBionicSystems/epaper/screen"
	"github.com/GermanBionicSystems/epaper/waveshare7in5v2"
)

// hardware is what the daemon drives: a panel, one input pin per button
// line and optional extra mirrors.
type hardware struct {
	panel   screen.Panel
	buttons map[string]gpio.PinIn
	mirrors []display.Drawer
	closers []io.Closer
}

func (h *hardware) close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		_ = h.closers[i].Close()
	}
}

// panelOpts converts the panel section of the configuration.
func panelOpts(p *config.Panel) (*waveshare7in5v2.Opts, error) {
	opts := waveshare7in5v2.EPD7in5v2
	if p.Variant == config.VariantFast {
		opts = waveshare7in5v2.EPD7in5v2Fast
	}
	speed, err := p.Frequency()
	if err != nil {
		return nil, err
	}
	opts.Width = p.Width
	opts.Height = p.Height
	opts.Speed = speed
	if p.Busy.Mode == config.BusyDelay {
		opts.Busy = waveshare7in5v2.Delay(p.Busy.Delay)
	}
	return &opts, nil
}

func pinByName(role, name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%s pin %q not found", role, name)
	}
	return p, nil
}

// openHardware initializes the host and opens the SPI port and pins named
// in cfg.
func openHardware(cfg *config.Config, logger *slog.Logger) (*hardware, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	for _, f := range state.Failed {
		logger.Debug("host driver failed", "driver", f.D.String(), "err", f.Err)
	}

	opts, err := panelOpts(&cfg.Panel)
	if err != nil {
		return nil, err
	}
	pins := cfg.Panel.Pins
	dc, err := pinByName("dc", pins.DC)
	if err != nil {
		return nil, err
	}
	rst, err := pinByName("reset", pins.Reset)
	if err != nil {
		return nil, err
	}
	var cs gpio.PinOut
	if pins.CS != "" {
		if cs, err = pinByName("cs", pins.CS); err != nil {
			return nil, err
		}
	}
	var busy gpio.PinIn
	if pins.Busy != "" {
		if busy, err = pinByName("busy", pins.Busy); err != nil {
			return nil, err
		}
	}
	if cfg.Panel.Busy.Mode == config.BusyPin {
		if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("busy pin: %w", err)
		}
		opts.Busy = &waveshare7in5v2.BusyPin{
			Pin:     busy,
			Poll:    cfg.Panel.Busy.Poll,
			Timeout: cfg.Panel.Busy.Timeout,
		}
	}

	buttons := map[string]gpio.PinIn{}
	for _, l := range cfg.Buttons.Lines {
		p, err := pinByName("button "+l.Name, l.Pin)
		if err != nil {
			return nil, err
		}
		buttons[l.Name] = p
	}

	port, err := spireg.Open(cfg.Panel.SPI)
	if err != nil {
		return nil, fmt.Errorf("spi: %w", err)
	}
	dev, err := waveshare7in5v2.New(port, dc, cs, rst, busy, opts)
	if err != nil {
		port.Close()
		return nil, err
	}
	return &hardware{
		panel:   dev,
		buttons: buttons,
		closers: []io.Closer{port},
	}, nil
}
