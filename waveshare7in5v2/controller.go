// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import "time"

type controller interface {
	reset()
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
	delay(time.Duration)
}

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.reset()
	ctrl.delay(resetSettle)
	ctrl.waitUntilIdle()

	// VGH=20V, VGL=-20V, VDH=15V, VDL=-15V
	ctrl.sendCommand(powerSetting)
	ctrl.sendData([]byte{0x07, 0x07, 0x3F, 0x3F})

	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x17, 0x17, 0x28, 0x17})

	ctrl.sendCommand(powerOn)
	ctrl.waitUntilIdle()

	// KW mode, scan up, shift right, booster on
	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{0x0F})

	ctrl.sendCommand(resolutionSetting)
	ctrl.sendData([]byte{
		byte(opts.Width / 256),
		byte(opts.Width % 256),
		byte(opts.Height / 256),
		byte(opts.Height % 256),
	})

	ctrl.sendCommand(dualSPI)
	ctrl.sendData([]byte{0x00})

	ctrl.sendCommand(vcomAndDataInterval)
	ctrl.sendData([]byte{0x11, 0x07})

	ctrl.sendCommand(tconSetting)
	ctrl.sendData([]byte{0x22})
}

func initDisplayFast(ctrl controller, opts *Opts) {
	ctrl.reset()
	ctrl.delay(resetSettle)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(panelSetting)
	ctrl.sendData([]byte{0x0F})

	ctrl.sendCommand(powerOn)
	ctrl.delay(powerOnSettle)
	ctrl.waitUntilIdle()

	// Enhanced display drive
	ctrl.sendCommand(boosterSoftStart)
	ctrl.sendData([]byte{0x27, 0x27, 0x18, 0x17})

	ctrl.sendCommand(cascadeSetting)
	ctrl.sendData([]byte{0x02})
	ctrl.sendCommand(forceTemperature)
	ctrl.sendData([]byte{0x5A})

	ctrl.sendCommand(vcomAndDataInterval)
	ctrl.sendData([]byte{0x11, 0x07})
}

func pushFrame(ctrl controller, frame []byte, invert bool) {
	old := frame
	if invert {
		old = make([]byte, len(frame))
		for i, b := range frame {
			old[i] = ^b
		}
	}

	ctrl.sendCommand(displayStartTransmission1)
	ctrl.sendData(old)

	ctrl.sendCommand(displayStartTransmission2)
	ctrl.sendData(make([]byte, len(frame)))

	refresh(ctrl)
}

func refresh(ctrl controller) {
	ctrl.sendCommand(displayRefresh)
	// At least 200µs before the busy line is valid.
	ctrl.delay(refreshSettle)
	ctrl.waitUntilIdle()
}

func enterDeepSleep(ctrl controller) {
	// Border floating
	ctrl.sendCommand(vcomAndDataInterval)
	ctrl.sendData([]byte{0xF7})

	ctrl.sendCommand(powerOff)
	ctrl.waitUntilIdle()
	ctrl.delay(powerOffSettle)

	ctrl.sendCommand(deepSleep)
	ctrl.sendData([]byte{deepSleepCheckCode})
}
