//go:build windows
// +build windows

/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package errdefs

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const errorNegativeSeek syscall.Errno = 131

func isNotFound(errno syscall.Errno) bool {
	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND, windows.ERROR_INVALID_DRIVE:
		return true
	}
	return false
}

func isBadDescriptor(errno syscall.Errno) bool {
	return errno == windows.ERROR_INVALID_HANDLE
}

func isInvalidArgument(errno syscall.Errno) bool {
	switch errno {
	case windows.ERROR_INVALID_PARAMETER, errorNegativeSeek:
		return true
	}
	return false
}
