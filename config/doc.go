// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML profile of an e-paper daemon: panel
// geometry and clock, pin assignment, bring-up variant, busy strategy,
// button lines and the HTTP listen address.
//
// A minimal file only needs the fields that differ from Default:
//
//	panel:
//	  variant: fast
//	  speed: 12MHz
//	buttons:
//	  lines:
//	    - {name: clear, pin: GPIO5, action: clear}
package config
