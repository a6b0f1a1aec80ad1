// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare7in5v2

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd   byte
	data  []byte
	reset bool
	wait  bool
	delay time.Duration
}

type fakeController []record

func (r *fakeController) reset() {
	*r = append(*r, record{reset: true})
}

func (r *fakeController) sendCommand(cmd byte) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (r *fakeController) waitUntilIdle() {
	*r = append(*r, record{wait: true})
}

func (r *fakeController) delay(d time.Duration) {
	*r = append(*r, record{delay: d})
}

func diffRecords(got fakeController, want []record) string {
	return cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{}))
}

func TestInitDisplay(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
		want []record
	}{
		{
			name: "epd7in5v2",
			opts: EPD7in5v2,
			want: []record{
				{reset: true},
				{delay: 10 * time.Millisecond},
				{wait: true},
				{cmd: powerSetting, data: []byte{0x07, 0x07, 0x3F, 0x3F}},
				{cmd: boosterSoftStart, data: []byte{0x17, 0x17, 0x28, 0x17}},
				{cmd: powerOn},
				{wait: true},
				{cmd: panelSetting, data: []byte{0x0F}},
				{cmd: resolutionSetting, data: []byte{0x03, 0x20, 0x01, 0xE0}},
				{cmd: dualSPI, data: []byte{0x00}},
				{cmd: vcomAndDataInterval, data: []byte{0x11, 0x07}},
				{cmd: tconSetting, data: []byte{0x22}},
			},
		},
		{
			name: "small",
			opts: Opts{Width: 16, Height: 300},
			want: []record{
				{reset: true},
				{delay: 10 * time.Millisecond},
				{wait: true},
				{cmd: powerSetting, data: []byte{0x07, 0x07, 0x3F, 0x3F}},
				{cmd: boosterSoftStart, data: []byte{0x17, 0x17, 0x28, 0x17}},
				{cmd: powerOn},
				{wait: true},
				{cmd: panelSetting, data: []byte{0x0F}},
				{cmd: resolutionSetting, data: []byte{0x00, 0x10, 0x01, 0x2C}},
				{cmd: dualSPI, data: []byte{0x00}},
				{cmd: vcomAndDataInterval, data: []byte{0x11, 0x07}},
				{cmd: tconSetting, data: []byte{0x22}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			initDisplay(&got, &tc.opts)

			if diff := diffRecords(got, tc.want); diff != "" {
				t.Errorf("initDisplay() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestInitDisplayFast(t *testing.T) {
	var got fakeController

	initDisplayFast(&got, &EPD7in5v2Fast)

	want := []record{
		{reset: true},
		{delay: 10 * time.Millisecond},
		{wait: true},
		{cmd: panelSetting, data: []byte{0x0F}},
		{cmd: powerOn},
		{delay: 100 * time.Millisecond},
		{wait: true},
		{cmd: boosterSoftStart, data: []byte{0x27, 0x27, 0x18, 0x17}},
		{cmd: cascadeSetting, data: []byte{0x02}},
		{cmd: forceTemperature, data: []byte{0x5A}},
		{cmd: vcomAndDataInterval, data: []byte{0x11, 0x07}},
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("initDisplayFast() difference (-got +want):\n%s", diff)
	}
}

func TestPushFrame(t *testing.T) {
	frame := []byte{0xFF, 0x0F, 0x00, 0xA5}

	for _, tc := range []struct {
		name   string
		invert bool
		want   []record
	}{
		{
			name: "normal",
			want: []record{
				{cmd: displayStartTransmission1, data: []byte{0xFF, 0x0F, 0x00, 0xA5}},
				{cmd: displayStartTransmission2, data: []byte{0, 0, 0, 0}},
				{cmd: displayRefresh},
				{delay: time.Millisecond},
				{wait: true},
			},
		},
		{
			name:   "inverted",
			invert: true,
			want: []record{
				{cmd: displayStartTransmission1, data: []byte{0x00, 0xF0, 0xFF, 0x5A}},
				{cmd: displayStartTransmission2, data: []byte{0, 0, 0, 0}},
				{cmd: displayRefresh},
				{delay: time.Millisecond},
				{wait: true},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			pushFrame(&got, frame, tc.invert)

			if diff := diffRecords(got, tc.want); diff != "" {
				t.Errorf("pushFrame() difference (-got +want):\n%s", diff)
			}
		})
	}

	if diff := cmp.Diff(frame, []byte{0xFF, 0x0F, 0x00, 0xA5}); diff != "" {
		t.Errorf("pushFrame() modified its input (-got +want):\n%s", diff)
	}
}

func TestEnterDeepSleep(t *testing.T) {
	var got fakeController

	enterDeepSleep(&got)

	want := []record{
		{cmd: vcomAndDataInterval, data: []byte{0xF7}},
		{cmd: powerOff},
		{wait: true},
		{delay: 100 * time.Millisecond},
		{cmd: deepSleep, data: []byte{0xA5}},
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("enterDeepSleep() difference (-got +want):\n%s", diff)
	}
}
