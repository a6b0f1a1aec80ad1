// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package button turns raw edges from push buttons into debounced events
// and dispatches them to per-line callbacks.
//
// Edges may come from any number of goroutines, typically one Watch per GPIO
// line. Accepted edges are queued on a bounded channel; when it is full the
// new edge is dropped. A single consumer, Run, drains the queue and invokes
// the callback currently registered for the line.
//
// The Router never takes a lock on the edge path, so callbacks may block on
// slow hardware without stalling edge detection.
package button
