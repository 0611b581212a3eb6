// SPDX-License-Identifier: MPL-2.0

package platform

// Values of runtime.GOOS the code branches on.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
