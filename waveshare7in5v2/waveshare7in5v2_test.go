// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

type testDev struct {
	*Dev
	port   *spitest.Record
	dc     *gpiotest.Pin
	cs     *gpiotest.Pin
	rst    *gpiotest.Pin
	delays []time.Duration
	waits  int
}

func newTestDev(t *testing.T, opts Opts, busyErr error) *testDev {
	t.Helper()

	td := &testDev{
		port: &spitest.Record{},
		dc:   &gpiotest.Pin{N: "DC"},
		cs:   &gpiotest.Pin{N: "CS"},
		rst:  &gpiotest.Pin{N: "RST"},
	}
	opts.Busy = BusyFunc(func() error {
		td.waits++
		return busyErr
	})

	dev, err := New(td.port, td.dc, td.cs, td.rst, nil, &opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	dev.sleep = func(d time.Duration) {
		td.delays = append(td.delays, d)
	}
	td.Dev = dev
	return td
}

func (td *testDev) writes() [][]byte {
	var w [][]byte
	for _, op := range td.port.Ops {
		w = append(w, op.W)
	}
	return w
}

func diffWrites(got [][]byte, want [][]byte) string {
	return cmp.Diff(got, want, cmpopts.EquateEmpty())
}

type failingConn struct{}

func (failingConn) String() string       { return "failing" }
func (failingConn) Tx(w, r []byte) error { return errors.New("bus error") }
func (failingConn) Duplex() conn.Duplex  { return conn.Half }

var _ conn.Conn = failingConn{}

var smallPanel = Opts{Width: 16, Height: 2, Variant: Standard}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name    string
		opts    Opts
		wantErr bool
		want    image.Rectangle
	}{
		{name: "empty", wantErr: true},
		{name: "EPD7in5v2", opts: EPD7in5v2, want: image.Rect(0, 0, 800, 480)},
		{name: "EPD7in5v2Fast", opts: EPD7in5v2Fast, want: image.Rect(0, 0, 800, 480)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cs := &gpiotest.Pin{N: "CS"}
			dev, err := New(&spitest.Record{}, &gpiotest.Pin{}, cs, &gpiotest.Pin{}, nil, &tc.opts)
			if tc.wantErr {
				if err == nil {
					t.Errorf("New() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}

			if diff := cmp.Diff(dev.Bounds(), tc.want); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}
			if got := dev.State(); got != Uninitialized {
				t.Errorf("State() = %v, want Uninitialized", got)
			}
			if cs.L != gpio.High {
				t.Errorf("chip select left asserted after New()")
			}
			if _, ok := dev.waiter.(Delay); !ok {
				t.Errorf("waiter = %T, want Delay without busy pin", dev.waiter)
			}
		})
	}
}

func TestNewBusyPin(t *testing.T) {
	busy := &gpiotest.Pin{N: "BUSY"}
	dev, err := New(&spitest.Record{}, &gpiotest.Pin{}, nil, &gpiotest.Pin{}, busy, &smallPanel)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	bp, ok := dev.waiter.(*BusyPin)
	if !ok {
		t.Fatalf("waiter = %T, want *BusyPin", dev.waiter)
	}
	if bp.Pin != busy {
		t.Errorf("BusyPin.Pin is not the busy line")
	}
	if busy.P != gpio.PullUp {
		t.Errorf("busy pull = %v, want PullUp", busy.P)
	}
}

func TestLifecycle(t *testing.T) {
	td := newTestDev(t, smallPanel, nil)
	frame := []byte{0x80, 0x01, 0xFF, 0x00}

	if err := td.PushFrame(frame, false); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("PushFrame() before Init error = %v, want ErrNotInitialized", err)
	}
	if len(td.port.Ops) != 0 {
		t.Fatalf("refused PushFrame() wrote %d transfers", len(td.port.Ops))
	}

	if err := td.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if got := td.State(); got != Active {
		t.Fatalf("State() after Init = %v, want Active", got)
	}
	if td.rst.L != gpio.High {
		t.Errorf("reset line left low after Init()")
	}
	if diff := cmp.Diff(td.delays, []time.Duration{resetPulse, resetSettle}); diff != "" {
		t.Errorf("Init() delays difference (-got +want):\n%s", diff)
	}
	if diff := diffWrites(td.writes(), [][]byte{
		{powerSetting}, {0x07, 0x07, 0x3F, 0x3F},
		{boosterSoftStart}, {0x17, 0x17, 0x28, 0x17},
		{powerOn},
		{panelSetting}, {0x0F},
		{resolutionSetting}, {0x00, 0x10, 0x00, 0x02},
		{dualSPI}, {0x00},
		{vcomAndDataInterval}, {0x11, 0x07},
		{tconSetting}, {0x22},
	}); diff != "" {
		t.Errorf("Init() transfers difference (-got +want):\n%s", diff)
	}

	td.port.Ops = nil
	if err := td.PushFrame(frame, true); err != nil {
		t.Fatalf("PushFrame() failed: %v", err)
	}
	if diff := diffWrites(td.writes(), [][]byte{
		{displayStartTransmission1}, {0x7F, 0xFE, 0x00, 0xFF},
		{displayStartTransmission2}, {0x00, 0x00, 0x00, 0x00},
		{displayRefresh},
	}); diff != "" {
		t.Errorf("PushFrame() transfers difference (-got +want):\n%s", diff)
	}
	if td.cs.L != gpio.High {
		t.Errorf("chip select left asserted after PushFrame()")
	}

	if err := td.PushFrame(frame[:3], false); !errors.Is(err, ErrFrameSize) {
		t.Errorf("PushFrame() short frame error = %v, want ErrFrameSize", err)
	}

	if err := td.DeepSleep(); err != nil {
		t.Fatalf("DeepSleep() failed: %v", err)
	}
	if got := td.State(); got != Sleeping {
		t.Fatalf("State() after DeepSleep = %v, want Sleeping", got)
	}

	td.port.Ops = nil
	for name, op := range map[string]func() error{
		"PushFrame": func() error { return td.PushFrame(frame, false) },
		"Refresh":   td.Refresh,
		"DeepSleep": td.DeepSleep,
	} {
		if err := op(); !errors.Is(err, ErrSleeping) {
			t.Errorf("%s() while sleeping error = %v, want ErrSleeping", name, err)
		}
	}
	if len(td.port.Ops) != 0 {
		t.Errorf("refused operations wrote %d transfers", len(td.port.Ops))
	}
	if err := td.Halt(); err != nil {
		t.Errorf("Halt() while sleeping failed: %v", err)
	}

	if err := td.Wake(); err != nil {
		t.Fatalf("Wake() failed: %v", err)
	}
	if got := td.State(); got != Active {
		t.Errorf("State() after Wake = %v, want Active", got)
	}
}

func TestWakeFast(t *testing.T) {
	opts := smallPanel
	opts.Variant = Fast
	td := newTestDev(t, opts, nil)

	if err := td.Wake(); err != nil {
		t.Fatalf("Wake() failed: %v", err)
	}
	if diff := diffWrites(td.writes()[:2], [][]byte{{panelSetting}, {0x0F}}); diff != "" {
		t.Errorf("Wake() did not run the fast sequence (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(td.delays, []time.Duration{resetPulse, resetSettle, powerOnSettle}); diff != "" {
		t.Errorf("Wake() delays difference (-got +want):\n%s", diff)
	}
}

func TestBusyTimeoutAborts(t *testing.T) {
	td := newTestDev(t, smallPanel, ErrBusyTimeout)

	if err := td.Init(); !errors.Is(err, ErrBusyTimeout) {
		t.Fatalf("Init() error = %v, want ErrBusyTimeout", err)
	}
	if got := td.State(); got != Uninitialized {
		t.Errorf("State() = %v, want Uninitialized", got)
	}
	if td.waits != 1 {
		t.Errorf("waited %d times, want 1", td.waits)
	}
	if len(td.port.Ops) != 0 {
		t.Errorf("aborted Init() wrote %d transfers", len(td.port.Ops))
	}
}

func TestChunkedData(t *testing.T) {
	td := newTestDev(t, Opts{Width: 40, Height: 1}, nil)
	td.maxTxSize = 2

	if err := td.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	td.port.Ops = nil

	if err := td.PushFrame([]byte{1, 2, 3, 4, 5}, false); err != nil {
		t.Fatalf("PushFrame() failed: %v", err)
	}
	if diff := diffWrites(td.writes(), [][]byte{
		{displayStartTransmission1}, {1, 2}, {3, 4}, {5},
		{displayStartTransmission2}, {0, 0}, {0, 0}, {0},
		{displayRefresh},
	}); diff != "" {
		t.Errorf("PushFrame() transfers difference (-got +want):\n%s", diff)
	}
}

func TestSPIError(t *testing.T) {
	td := newTestDev(t, smallPanel, nil)
	td.c = failingConn{}

	if err := td.Init(); err == nil {
		t.Fatalf("Init() succeeded on a failing bus")
	}
	if got := td.State(); got != Uninitialized {
		t.Errorf("State() = %v, want Uninitialized", got)
	}
	if td.cs.L != gpio.High {
		t.Errorf("chip select left asserted after a failed transfer")
	}
}

func TestDelayUsesSleeper(t *testing.T) {
	opts := smallPanel
	opts.Busy = Delay(time.Hour)
	dev, err := New(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, nil, &opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	var delays []time.Duration
	dev.sleep = func(d time.Duration) {
		delays = append(delays, d)
	}

	if err := dev.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	want := []time.Duration{resetPulse, resetSettle, time.Hour, time.Hour}
	if diff := cmp.Diff(delays, want); diff != "" {
		t.Errorf("Init() delays difference (-got +want):\n%s", diff)
	}
}

func TestBusyPin(t *testing.T) {
	idle := &BusyPin{Pin: &gpiotest.Pin{L: gpio.High}}
	if err := idle.WaitIdle(); err != nil {
		t.Errorf("WaitIdle() on idle line failed: %v", err)
	}

	stuck := &BusyPin{Pin: &gpiotest.Pin{L: gpio.Low}, Poll: time.Millisecond, Timeout: 5 * time.Millisecond}
	if err := stuck.WaitIdle(); !errors.Is(err, ErrBusyTimeout) {
		t.Errorf("WaitIdle() on stuck line error = %v, want ErrBusyTimeout", err)
	}
}
