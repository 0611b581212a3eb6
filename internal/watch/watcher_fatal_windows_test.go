// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{errnoTooManyOpenFiles, true},
		{errnoInvalidHandle, true},
		{errnoNotEnoughMemory, true},
		{fmt.Errorf("ReadDirectoryChanges: %w", errnoInvalidHandle), true},
		{syscall.Errno(5), false},
		{syscall.Errno(2), false},
		{errors.New("event queue overflow"), false},
	}

	for _, tt := range tests {
		if got := isFatalFsnotifyError(tt.err); got != tt.want {
			t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
