// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package httpapi exposes display operations over HTTP.
//
// Routes:
//
//	GET  /                      index page
//	GET|POST /toggle_screen_color  flip polarity, then sleep
//	GET|POST /clear_screen         blank the screen, then sleep
//	GET|POST /dummy_screen         show the demonstration frame, then sleep
//	POST /draw_text             form fields text, x and y
//	GET  /preview.png           last frame shown on the panel
//	GET  /stream                live stream of the shown frames
//
// Operations reply "OK" once the panel has been updated. Malformed
// draw_text requests get 400 before the display is touched; display
// failures get 500.
package httpapi
