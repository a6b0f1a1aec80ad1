// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"image"
	"text/template"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/GermanBionicSystems/epaper/framebuffer"
)

// params describes one glyph strip.
type params struct {
	Name      string
	First     rune
	Count     int
	Width     int
	Height    int
	Size      float64
	Baseline  int
	Threshold uint8
}

// render draws every glyph of p into its cell of a transparent strip using
// the TrueType font in ttf.
func render(ttf []byte, p *params) (image.Image, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    p.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	dc := gg.NewContext(p.Count*p.Width, p.Height)
	dc.SetRGB(0, 0, 0)
	dc.SetFontFace(face)
	for i := 0; i < p.Count; i++ {
		dc.DrawString(string(p.First+rune(i)), float64(i*p.Width), float64(p.Baseline))
	}
	return dc.Image(), nil
}

// build renders and packs the strip described by p.
func build(ttf []byte, p *params) (*framebuffer.Font, error) {
	img, err := render(ttf, p)
	if err != nil {
		return nil, err
	}
	return framebuffer.FromStrip(p.Name, img, p.First, p.Count, p.Width, p.Height, p.Threshold)
}

// sample renders every glyph of f side by side, as the panel would show it.
func sample(f *framebuffer.Font) (*framebuffer.Buffer, error) {
	fb := framebuffer.New(f.Count*f.Width, f.Height)
	text := make([]rune, f.Count)
	for i := range text {
		text[i] = f.First + rune(i)
	}
	if err := fb.Text(0, 0, string(text), f); err != nil {
		return nil, err
	}
	return fb, nil
}

// savePreview writes the sample of f as a PNG.
func savePreview(path string, f *framebuffer.Font) error {
	fb, err := sample(f)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, fb)
}

var source = template.Must(template.New("font").Parse(`// Code generated by fontgen; DO NOT EDIT.

package {{.Package}}

import "github.com/GermanBionicSystems/epaper/framebuffer"

// {{.Var}} is {{printf "%q" .Font.Name}} rasterized into {{.Font.Width}}x{{.Font.Height}} cells.
var {{.Var}} = &framebuffer.Font{
	Name:   {{printf "%q" .Font.Name}},
	First:  {{printf "%#x" .Font.First}},
	Count:  {{.Font.Count}},
	Width:  {{.Font.Width}},
	Height: {{.Font.Height}},
	Size:   {{.Font.Size}},
	Bitmap: []byte{
{{- range .Rows}}
		{{range .}}0x{{printf "%02x" .}}, {{end}}
{{- end}}
	},
}
`))

// generate returns gofmt'ed Go source declaring f as variable name in
// package pkg.
func generate(pkg, name string, f *framebuffer.Font) ([]byte, error) {
	var rows [][]byte
	for b := f.Bitmap[:f.Size]; len(b) > 0; {
		n := min(len(b), 12)
		rows = append(rows, b[:n])
		b = b[n:]
	}
	var buf bytes.Buffer
	err := source.Execute(&buf, struct {
		Package string
		Var     string
		Font    *framebuffer.Font
		Rows    [][]byte
	}{pkg, name, f, rows})
	if err != nil {
		return nil, err
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}
