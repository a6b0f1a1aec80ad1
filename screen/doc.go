// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen ties a framebuffer to an e-paper panel and is the only way
// the rest of the program touches either of them.
//
// A Display serializes every operation with one mutex: button callbacks and
// network requests may call it from any goroutine, but at most one panel
// transaction is ever in flight. Operations block for the panel's hardware
// delays, which run to several hundred milliseconds per refresh.
//
// The panel is woken (reset and brought up again) before any frame push if
// it is not active, so operations can be issued after a deep sleep.
package screen
