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

package wchar

import (
	"unsafe"

	"github.com/containerd/posixcompat/errdefs"
	"golang.org/x/sys/windows"
)

const (
	cpACP             = 0
	mbErrInvalidChars = 0x8
)

func decode(src []byte) ([]uint16, error) {
	p := (*byte)(unsafe.Pointer(&src[0]))
	n, err := windows.MultiByteToWideChar(cpACP, mbErrInvalidChars, p, int32(len(src)), nil, 0)
	if err != nil {
		return nil, errdefs.Native("MultiByteToWideChar", err)
	}
	wide := make([]uint16, n)
	n, err = windows.MultiByteToWideChar(cpACP, mbErrInvalidChars, p, int32(len(src)), &wide[0], n)
	if err != nil {
		return nil, errdefs.Native("MultiByteToWideChar", err)
	}
	return wide[:n], nil
}
