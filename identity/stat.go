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

package identity

import (
	"github.com/containerd/posixcompat/sysx"
)

// Fstat performs the native extended stat of f. When the native call leaves
// the inode unset, Dev and Ino are filled in from Derive on the same handle.
// A failed native call is returned unchanged; an unavailable identity is
// not an error and leaves the record as the native call produced it.
func Fstat(f sysx.File, st *sysx.Stat_t) error {
	if err := sysx.Fstat(sysx.HandleOf(f), st); err != nil {
		return err
	}
	augment(f, st)
	return nil
}

// StatPath is Fstat for the file at path, which is opened for metadata
// access for the duration of the call.
func StatPath(path string, st *sysx.Stat_t) error {
	f, err := openMetadata(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Fstat(f, st)
}

func augment(f sysx.File, st *sysx.Stat_t) {
	if st.Ino != 0 {
		return
	}
	if id, ok := Derive(f); ok {
		st.Dev = uint64(id.Device)
		st.Ino = uint64(id.Inode)
	}
}
