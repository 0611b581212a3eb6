// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include working directory and file setup (MustChdir,
// MustMkdirAll, MustWriteFile), user config isolation (SetConfigHome), and a
// manually advanced clock (FakeClock).
package testutil
