// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen_test

import (
	"log"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/framebuffer"
	"github.com/GermanBionicSystems/epaper/screen"
	"github.com/GermanBionicSystems/epaper/waveshare7in5v2"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	dev, err := waveshare7in5v2.NewHat(b, &waveshare7in5v2.EPD7in5v2)
	if err != nil {
		log.Fatal(err)
	}
	d, err := screen.New(dev, framebuffer.New(800, 480), nil)
	if err != nil {
		log.Fatal(err)
	}

	// The panel is woken up as needed and put back to sleep after each
	// operation.
	if err := d.Text("Hello", 20, 20); err != nil {
		log.Fatal(err)
	}
	if err := d.Toggle(); err != nil {
		log.Fatal(err)
	}
}
