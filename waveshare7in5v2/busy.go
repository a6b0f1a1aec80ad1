// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ErrBusyTimeout is returned when the controller did not release its busy
// line in time. The sequence in progress is aborted.
var ErrBusyTimeout = errors.New("waveshare7in5v2: timeout waiting for controller")

// BusyWaiter blocks until the controller is idle.
type BusyWaiter interface {
	WaitIdle() error
}

// Delay waits a fixed duration and assumes the controller is idle afterwards.
// It never reports a timeout. A Dev waits a Delay on its own sleeper rather
// than calling WaitIdle.
type Delay time.Duration

// DefaultDelay is the fixed wait used when no busy line is wired.
const DefaultDelay = Delay(100 * time.Millisecond)

// WaitIdle implements BusyWaiter.
func (d Delay) WaitIdle() error {
	time.Sleep(time.Duration(d))
	return nil
}

// BusyPin polls the controller's busy line. The UC8179 drives it low while
// busy.
type BusyPin struct {
	Pin gpio.PinIn
	// Poll is the interval between reads; defaults to 10ms.
	Poll time.Duration
	// Timeout bounds the total wait; defaults to 30s which is well above a
	// full refresh.
	Timeout time.Duration
}

// WaitIdle implements BusyWaiter.
func (b *BusyPin) WaitIdle() error {
	poll := b.Poll
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	deadline := time.Now().Add(timeout)
	for b.Pin.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return ErrBusyTimeout
		}
		time.Sleep(poll)
	}
	return nil
}

// BusyFunc adapts a function to BusyWaiter.
type BusyFunc func() error

// WaitIdle implements BusyWaiter.
func (f BusyFunc) WaitIdle() error {
	return f()
}
