// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epaperd drives a Waveshare 7.5" V2 e-paper panel. Push buttons and a small
// web interface toggle the screen colour, clear it, show a demonstration
// frame or draw text.
//
// With --sim no hardware is touched: the panel is rendered to the terminal
// and typing a button name (or its number) followed by enter presses it.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/GermanBionicSystems/epaper/button"
	"github.com/GermanBionicSystems/epaper/config"
	"github.com/GermanBionicSystems/epaper/framebuffer"
	"github.com/GermanBionicSystems/epaper/httpapi"
	"github.com/GermanBionicSystems/epaper/preview"
	"github.com/GermanBionicSystems/epaper/screen"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "epaperd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, listen, logLevel string
	var sim, clearOnStart bool

	flagSet := pflag.NewFlagSet("epaperd", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	flagSet.StringVar(&listen, "listen", "", "HTTP listen address, overrides http.listen")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flagSet.BoolVar(&sim, "sim", false, "simulate the panel and buttons in the terminal")
	flagSet.BoolVar(&clearOnStart, "clear", false, "clear the panel on start")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if flagSet.Changed("listen") {
		cfg.HTTP.Listen = listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hw *hardware
	var err error
	if sim {
		hw, err = openSimulator(ctx, cfg, logger)
	} else {
		hw, err = openHardware(cfg, logger)
	}
	if err != nil {
		return err
	}
	defer hw.close()

	w, h := cfg.Panel.Width, cfg.Panel.Height
	sink := preview.New(w, h)
	disp, err := screen.New(hw.panel, framebuffer.New(w, h), &screen.Opts{
		Mirrors: append(hw.mirrors, sink),
		Logger:  logger.With("component", "screen"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := disp.Halt(); err != nil {
			logger.Error("halting display failed", "err", err)
		}
	}()
	snap := disp.Snapshot()
	_ = sink.Draw(snap.Bounds(), snap, image.Point{})
	logger.Info("display ready", "panel", hw.panel, "sim", sim)

	if clearOnStart {
		if err := disp.Clear(); err != nil {
			return err
		}
	}

	router, err := newRouter(cfg, disp, logger.With("component", "button"))
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = router.Run(ctx)
	}()
	for i, l := range cfg.Buttons.Lines {
		pin := hw.buttons[l.Name]
		id := button.LineID(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := router.Watch(ctx, id, pin); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watching button failed", "line", l.Name, "err", err)
			}
		}()
	}

	if cfg.HTTP.Listen != "" {
		srv := &http.Server{
			Addr:              cfg.HTTP.Listen,
			Handler:           httpapi.New(disp, sink, logger.With("component", "http")),
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			_ = sink.Halt()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving http", "addr", cfg.HTTP.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stop()
			wg.Wait()
			return err
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()
	return nil
}

// newRouter builds the button router and binds each line to its action.
func newRouter(cfg *config.Config, disp *screen.Display, logger *slog.Logger) (*button.Router, error) {
	lines := make([]button.Line, len(cfg.Buttons.Lines))
	for i := range cfg.Buttons.Lines {
		l := &cfg.Buttons.Lines[i]
		lines[i] = button.Line{
			ID:       button.LineID(i),
			Name:     l.Name,
			Debounce: cfg.Buttons.DebounceOf(l),
		}
	}
	r, err := button.New(lines, &button.Opts{Capacity: cfg.Buttons.Queue, Logger: logger})
	if err != nil {
		return nil, err
	}
	for i, l := range cfg.Buttons.Lines {
		op := action(disp, l.Action)
		if op == nil {
			continue
		}
		name := l.Name
		err := r.Register(button.LineID(i), func() {
			if err := op(); err != nil {
				logger.Error("button action failed", "line", name, "err", err)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// action returns the display operation named a, or nil for none.
func action(disp *screen.Display, a string) func() error {
	switch a {
	case config.ActionClear:
		return disp.Clear
	case config.ActionToggle:
		return disp.Toggle
	case config.ActionDummy:
		return disp.Dummy
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `epaperd drives a Waveshare 7.5" V2 e-paper panel.

Usage:
  epaperd [flags]

Examples:
  # Run on a Raspberry Pi with the default HAT wiring
  epaperd

  # Try it out without hardware
  epaperd --sim --listen localhost:8080

Flags:
%s`, strings.TrimRight(flagSet.FlagUsages(), "\n")+"\n")
}
