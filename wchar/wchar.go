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

// Package wchar converts narrow multibyte strings into UTF-16 code units,
// the wide character form expected by native path and text APIs.
package wchar

import (
	"github.com/containerd/posixcompat/errdefs"
	"github.com/pkg/errors"
)

// FromMultiByte converts src to UTF-16 and stores the result in dst,
// returning the number of code units written. When dst is nil the required
// number of code units is returned and nothing is written. When dst is too
// short the conversion is truncated at the last complete character that
// fits. Input that is not valid in the multibyte encoding fails with
// ErrInvalidArgument.
//
// The multibyte encoding is the active code page on Windows and UTF-8
// elsewhere.
func FromMultiByte(dst []uint16, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	wide, err := decode(src)
	if err != nil {
		return 0, errors.Wrapf(errdefs.ErrInvalidArgument, "invalid multibyte string: %v", err)
	}
	if dst == nil {
		return len(wide), nil
	}
	n := copy(dst, wide)
	if n > 0 && n < len(wide) && isHighSurrogate(dst[n-1]) {
		n--
	}
	return n, nil
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xd800 && u < 0xdc00
}
