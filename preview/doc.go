// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview provides a display sink that keeps the last frame shown on
// a monochrome panel and serves it over HTTP.
//
// Sink implements display.Drawer so it can be attached as a mirror of the
// real panel. Image serves the frame as a single PNG with an ETag derived
// from its BLAKE3 hash; ServeHTTP streams a new PNG every time the frame
// changes, as a "multipart/x-mixed-replace" response
// (https://en.wikipedia.org/wiki/Motion_JPEG) that browsers render in an
// <img> tag.
package preview
