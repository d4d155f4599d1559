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

// Package pathdriver implements the path conventions used to resolve link
// sources recorded in archives relative to the entry being extracted.
//
// Archives record names with '/' separators, while Windows natively uses
// '\'. Both are accepted as separators on Windows. Elsewhere only '/' is a
// separator, because '\' is a legal file name character there.
package pathdriver

import (
	"os"
	"path/filepath"
)

// IsSeparator reports whether c separates path elements on this platform.
func IsSeparator(c byte) bool {
	return os.IsPathSeparator(c)
}

// Dir returns the directory portion of p: everything before its last
// separator, kept as is. A separator directly after the volume name is kept
// so that roots stay roots. When p has no separator the result is the
// volume name, which is empty outside Windows.
func Dir(p string) string {
	vol := filepath.VolumeName(p)
	for i := len(p) - 1; i >= len(vol); i-- {
		if !IsSeparator(p[i]) {
			continue
		}
		if i == len(vol) {
			return p[:i+1]
		}
		return p[:i]
	}
	return vol
}

// Join resolves name relative to dir. An empty dir yields name unchanged.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
