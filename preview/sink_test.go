// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func decodePNG(t *testing.T, r io.Reader) image.Image {
	t.Helper()
	img, err := png.Decode(r)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	return img
}

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}

func TestPNG(t *testing.T) {
	s := New(16, 4)

	data, etag, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG() failed: %v", err)
	}
	img := decodePNG(t, bytes.NewReader(data))
	if got, want := img.Bounds(), image.Rect(0, 0, 16, 4); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if isBlack(img.At(3, 2)) {
		t.Errorf("new sink is not white")
	}

	if err := s.Draw(image.Rect(0, 0, 8, 4), image.NewUniform(image1bit.Off), image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	data, etag2, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG() failed: %v", err)
	}
	if etag2 == etag {
		t.Errorf("ETag unchanged after Draw(): %s", etag)
	}
	img = decodePNG(t, bytes.NewReader(data))
	if !isBlack(img.At(3, 2)) || isBlack(img.At(12, 2)) {
		t.Errorf("drawn frame does not match: (3,2)=%v (12,2)=%v", img.At(3, 2), img.At(12, 2))
	}

	if _, etag3, _ := s.PNG(); etag3 != etag2 {
		t.Errorf("ETag changed without Draw(): %s != %s", etag3, etag2)
	}
}

func TestImage(t *testing.T) {
	s := New(8, 8)
	srv := httptest.NewServer(http.HandlerFunc(s.Image))
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}
	decodePNG(t, resp.Body)
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("no ETag")
	}

	for _, tc := range []struct {
		name   string
		method string
		etag   string
		want   int
	}{
		{name: "match", method: http.MethodGet, etag: etag, want: http.StatusNotModified},
		{name: "stale", method: http.MethodGet, etag: `"0000"`, want: http.StatusOK},
		{name: "head", method: http.MethodHead, want: http.StatusOK},
		{name: "post", method: http.MethodPost, want: http.StatusMethodNotAllowed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL, nil)
			if err != nil {
				t.Fatal(err)
			}
			if tc.etag != "" {
				req.Header.Set("If-None-Match", tc.etag)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatalf("Do() failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestStream(t *testing.T) {
	s := New(8, 2)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	t.Cleanup(srv.CloseClientConnections)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("ParseMediaType() failed: %v", err)
	}
	if mediaType != "multipart/x-mixed-replace" {
		t.Fatalf("Content-Type is %q, want multipart/x-mixed-replace", mediaType)
	}
	if len(params["boundary"]) < 50 {
		t.Fatalf("insufficient boundary %q", params["boundary"])
	}
	mr := multipart.NewReader(resp.Body, params["boundary"])

	next := func() image.Image {
		t.Helper()
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart() failed: %v", err)
		}
		defer part.Close()
		if got := part.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("part Content-Type = %q, want image/png", got)
		}
		return decodePNG(t, part)
	}

	if img := next(); isBlack(img.At(0, 0)) {
		t.Errorf("first frame is not white")
	}
	if err := s.Draw(s.Bounds(), image.NewUniform(image1bit.Off), image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	if img := next(); !isBlack(img.At(0, 0)) {
		t.Errorf("second frame is not black")
	}

	if err := s.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}
	if _, err := mr.NextPart(); err == nil {
		t.Errorf("NextPart() after Halt() succeeded")
	}
}
