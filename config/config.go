// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Busy strategies.
const (
	BusyPin   = "pin"
	BusyDelay = "delay"
)

// Bring-up variants.
const (
	VariantStandard = "standard"
	VariantFast     = "fast"
)

// Button actions.
const (
	ActionNone   = "none"
	ActionClear  = "clear"
	ActionToggle = "toggle"
	ActionDummy  = "dummy"
)

// Config is the top-level daemon configuration.
type Config struct {
	Panel   Panel   `yaml:"panel"`
	Buttons Buttons `yaml:"buttons"`
	HTTP    HTTP    `yaml:"http"`
}

// Panel describes the display and how it is wired.
type Panel struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Speed is the SPI clock, e.g. "4MHz".
	Speed string `yaml:"speed"`
	// Variant selects the bring-up sequence: "standard" or "fast".
	Variant string `yaml:"variant"`
	// SPI is the spireg port name. Empty selects the first port.
	SPI  string `yaml:"spi"`
	Pins Pins   `yaml:"pins"`
	Busy Busy   `yaml:"busy"`
}

// Pins holds gpioreg pin names.
type Pins struct {
	DC    string `yaml:"dc"`
	CS    string `yaml:"cs"`
	Reset string `yaml:"reset"`
	Busy  string `yaml:"busy"`
}

// Busy selects how the daemon waits for the controller.
type Busy struct {
	// Mode is "pin" to poll the busy line or "delay" to wait a fixed time.
	Mode string `yaml:"mode"`
	// Delay is the fixed wait of the "delay" mode.
	Delay time.Duration `yaml:"delay"`
	// Poll and Timeout apply to the "pin" mode.
	Poll    time.Duration `yaml:"poll"`
	Timeout time.Duration `yaml:"timeout"`
}

// Buttons configures the input lines.
type Buttons struct {
	// Debounce applies to lines that do not set their own.
	Debounce time.Duration `yaml:"debounce"`
	Queue    int           `yaml:"queue"`
	Lines    []Button      `yaml:"lines"`
}

// Button is one input line.
type Button struct {
	Name     string        `yaml:"name"`
	Pin      string        `yaml:"pin"`
	Action   string        `yaml:"action"`
	Debounce time.Duration `yaml:"debounce"`
}

// HTTP configures the web interface.
type HTTP struct {
	// Listen is the TCP address; empty disables the server.
	Listen string `yaml:"listen"`
}

// Default returns the configuration of a Waveshare 7.5" V2 HAT on a
// Raspberry Pi with three buttons.
func Default() *Config {
	return &Config{
		Panel: Panel{
			Width:   800,
			Height:  480,
			Speed:   "4MHz",
			Variant: VariantStandard,
			Pins: Pins{
				DC:    "GPIO25",
				CS:    "GPIO8",
				Reset: "GPIO17",
				Busy:  "GPIO24",
			},
			Busy: Busy{
				Mode:    BusyPin,
				Delay:   100 * time.Millisecond,
				Poll:    10 * time.Millisecond,
				Timeout: 30 * time.Second,
			},
		},
		Buttons: Buttons{
			Debounce: 300 * time.Millisecond,
			Queue:    10,
			Lines: []Button{
				{Name: "clear", Pin: "GPIO5", Action: ActionClear},
				{Name: "toggle", Pin: "GPIO6", Action: ActionToggle},
				{Name: "dummy", Pin: "GPIO13", Action: ActionDummy},
			},
		},
		HTTP: HTTP{Listen: ":8080"},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	// A lines list in the file replaces the default one.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Frequency returns the parsed SPI clock.
func (p *Panel) Frequency() (physic.Frequency, error) {
	var f physic.Frequency
	if err := f.Set(p.Speed); err != nil {
		return 0, fmt.Errorf("config: panel.speed: %w", err)
	}
	return f, nil
}

// DebounceOf returns the effective debounce window of b.
func (b *Buttons) DebounceOf(l *Button) time.Duration {
	if l.Debounce != 0 {
		return l.Debounce
	}
	return b.Debounce
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	p := &c.Panel
	if p.Width <= 0 || p.Height <= 0 {
		errs = append(errs, fmt.Errorf("panel: invalid size %dx%d", p.Width, p.Height))
	} else if p.Width%8 != 0 {
		errs = append(errs, fmt.Errorf("panel: width %d is not a multiple of 8", p.Width))
	}
	if f, err := p.Frequency(); err != nil {
		errs = append(errs, err)
	} else if f <= 0 {
		errs = append(errs, fmt.Errorf("panel: speed must be positive"))
	}
	switch p.Variant {
	case VariantStandard, VariantFast:
	default:
		errs = append(errs, fmt.Errorf("panel: unknown variant %q (supported: standard, fast)", p.Variant))
	}
	if p.Pins.DC == "" || p.Pins.Reset == "" {
		errs = append(errs, errors.New("panel: pins.dc and pins.reset are required"))
	}
	switch p.Busy.Mode {
	case BusyPin:
		if p.Pins.Busy == "" {
			errs = append(errs, errors.New("panel: pins.busy is required for busy mode pin"))
		}
		if p.Busy.Poll <= 0 || p.Busy.Timeout <= 0 {
			errs = append(errs, errors.New("panel: busy.poll and busy.timeout must be positive"))
		}
	case BusyDelay:
		if p.Busy.Delay <= 0 {
			errs = append(errs, errors.New("panel: busy.delay must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("panel: unknown busy mode %q (supported: pin, delay)", p.Busy.Mode))
	}

	b := &c.Buttons
	if b.Debounce < 0 {
		errs = append(errs, errors.New("buttons: negative debounce"))
	}
	if b.Queue <= 0 {
		errs = append(errs, fmt.Errorf("buttons: invalid queue size %d", b.Queue))
	}
	names := map[string]bool{}
	pins := map[string]bool{}
	for i, l := range b.Lines {
		switch {
		case l.Name == "":
			errs = append(errs, fmt.Errorf("buttons: line %d: name is required", i))
		case names[l.Name]:
			errs = append(errs, fmt.Errorf("buttons: duplicate line %q", l.Name))
		}
		names[l.Name] = true
		if l.Pin == "" {
			errs = append(errs, fmt.Errorf("buttons: line %q: pin is required", l.Name))
		} else if pins[l.Pin] {
			errs = append(errs, fmt.Errorf("buttons: pin %s used twice", l.Pin))
		}
		pins[l.Pin] = true
		switch l.Action {
		case ActionNone, ActionClear, ActionToggle, ActionDummy:
		default:
			errs = append(errs, fmt.Errorf("buttons: line %q: unknown action %q (supported: none, clear, toggle, dummy)", l.Name, l.Action))
		}
		if l.Debounce < 0 {
			errs = append(errs, fmt.Errorf("buttons: line %q: negative debounce", l.Name))
		}
	}
	if len(b.Lines) > 256 {
		errs = append(errs, fmt.Errorf("buttons: too many lines (%d)", len(b.Lines)))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
