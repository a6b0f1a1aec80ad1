// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package button

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// watchPoll bounds how long Watch waits for an edge before checking ctx.
const watchPoll = 100 * time.Millisecond

// Watch configures pin as a pulled-up input with falling edge detection and
// reports every edge on line id until ctx is cancelled. Buttons are expected
// to short the pin to ground when pressed.
func (r *Router) Watch(ctx context.Context, id LineID, pin gpio.PinIn) error {
	l := r.index[id]
	if l == nil {
		return fmt.Errorf("button: unknown line %d", id)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("button: %s on %s: %w", l, pin, err)
	}
	defer pin.In(gpio.PullUp, gpio.NoEdge)

	r.log.Info("watching button", "line", l.String(), "pin", pin.String())
	for {
		if pin.WaitForEdge(watchPoll) {
			r.Edge(id)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
