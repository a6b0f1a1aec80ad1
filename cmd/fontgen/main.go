// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// fontgen rasterizes a TrueType font into a fixed-cell glyph strip and
// writes it as a Go source file declaring a framebuffer.Font.
//
// Glyph i is drawn in cell i of a single horizontal strip; pixels whose
// coverage exceeds the threshold become ink. Without --ttf the Go Mono font
// is used.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/image/font/gofont/gomono"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fontgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	p := params{}
	var ttfPath, out, pkg, name, pngPath string
	var first, threshold uint

	flagSet := pflag.NewFlagSet("fontgen", pflag.ContinueOnError)
	flagSet.StringVar(&ttfPath, "ttf", "", "TrueType font file (default: Go Mono)")
	flagSet.StringVar(&p.Name, "name", "", "font name recorded in the output (default: file name)")
	flagSet.IntVar(&p.Width, "width", 16, "cell width in pixels")
	flagSet.IntVar(&p.Height, "height", 24, "cell height in pixels")
	flagSet.Float64Var(&p.Size, "size", 0, "font size in pixels (default: cell height)")
	flagSet.IntVar(&p.Baseline, "baseline", 0, "baseline offset from the top of the cell (default: height-5)")
	flagSet.UintVar(&first, "first", 0x20, "first character")
	flagSet.IntVar(&p.Count, "count", 95, "number of characters")
	flagSet.UintVar(&threshold, "threshold", 0x40, "coverage above which a pixel is ink (0-255)")
	flagSet.StringVarP(&out, "out", "o", "-", "output Go file, - for stdout")
	flagSet.StringVar(&pkg, "package", "fonts", "package of the generated file")
	flagSet.StringVar(&name, "var", "Font", "variable name of the generated font")
	flagSet.StringVar(&pngPath, "png", "", "also write a PNG sample of the glyphs")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if threshold > 0xFF {
		return fmt.Errorf("--threshold %d out of range", threshold)
	}
	p.First = rune(first)
	p.Threshold = uint8(threshold)
	if p.Size == 0 {
		p.Size = float64(p.Height)
	}
	if p.Baseline == 0 {
		p.Baseline = p.Height - 5
	}

	ttf := gomono.TTF
	if p.Name == "" {
		p.Name = "Go Mono"
	}
	if ttfPath != "" {
		var err error
		if ttf, err = os.ReadFile(ttfPath); err != nil {
			return err
		}
		if !flagSet.Changed("name") {
			p.Name = ttfPath
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	f, err := build(ttf, &p)
	if err != nil {
		return err
	}
	logger.Info("rasterized", "font", f.Name, "glyphs", f.Count, "cell", fmt.Sprintf("%dx%d", f.Width, f.Height), "bytes", f.Size)

	src, err := generate(pkg, name, f)
	if err != nil {
		return err
	}
	if out == "-" {
		_, err = os.Stdout.Write(src)
	} else {
		err = os.WriteFile(out, src, 0o644)
	}
	if err != nil {
		return err
	}

	if pngPath != "" {
		if err := savePreview(pngPath, f); err != nil {
			return err
		}
		logger.Info("wrote sample", "path", pngPath)
	}
	return nil
}
