// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management. The first error sticks and
// turns every following operation into a no-op.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil || eh.d.cs == nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

// csRelease deselects the controller even after a failure within the
// transaction; the first error is kept.
func (eh *errorHandler) csRelease() {
	if eh.d.cs == nil {
		return
	}
	if err := eh.d.cs.Out(gpio.High); eh.err == nil {
		eh.err = err
	}
}

func (eh *errorHandler) reset() {
	eh.rstOut(gpio.Low)
	eh.delay(resetPulse)
	eh.rstOut(gpio.High)
}

func (eh *errorHandler) delay(t time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.sleep(t)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	// A fixed delay is a plain sleep and goes through the device sleeper.
	if d, ok := eh.d.waiter.(Delay); ok {
		eh.d.sleep(time.Duration(d))
		return
	}
	eh.err = eh.d.waiter.WaitIdle()
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
	eh.csRelease()
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil || len(data) == 0 {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	for len(data) > 0 {
		n := len(data)
		if n > eh.d.maxTxSize {
			n = eh.d.maxTxSize
		}
		eh.cTx(data[:n], nil)
		data = data[n:]
	}
	eh.csRelease()
}
