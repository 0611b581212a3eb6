// SPDX-License-Identifier: MPL-2.0

// Package platform holds cross-platform constants and checks, such as the
// Windows reserved filenames that a mod id or resource path must avoid to
// stay usable on every operating system.
package platform
