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

// Package posixcompat lets a POSIX-oriented archiving engine run on
// platforms whose native I/O API lacks POSIX file identity and link
// semantics. It derives (device, inode) pairs from native file references,
// fills them into stat records, emulates links by copying, translates
// timestamps, and adapts seek, write and character conversion calls.
//
// The functions here are the surface the engine calls; the work is done in
// the identity, fs, filetime, sysx and wchar packages.
package posixcompat

import (
	"github.com/containerd/posixcompat/filetime"
	"github.com/containerd/posixcompat/fs"
	"github.com/containerd/posixcompat/identity"
	"github.com/containerd/posixcompat/sysx"
	"github.com/containerd/posixcompat/wchar"
)

// DeriveIdentity returns the identity of an open file, or false when it is
// unavailable.
func DeriveIdentity(f sysx.File) (identity.FileIdentity, bool) {
	return identity.Derive(f)
}

// DeriveIdentityPath returns the identity of the file at path, or false
// when it is unavailable.
func DeriveIdentityPath(path string) (identity.FileIdentity, bool) {
	return identity.DerivePath(path)
}

// AugmentedStat stats f natively and fills in Dev and Ino from the file
// identity when the native call left them unset.
func AugmentedStat(f sysx.File, st *sysx.Stat_t) error {
	return identity.Fstat(f, st)
}

// MakeLink makes target a copy of source. See fs.Link.
func MakeLink(source, target string) error {
	return fs.Link(source, target)
}

// MakeSymlink makes target a copy of source. See fs.Symlink.
func MakeSymlink(source, target string) error {
	return fs.Symlink(source, target)
}

// SetTimes sets the access and modification times of an open file.
func SetTimes(f sysx.File, times filetime.Times) error {
	return filetime.Futimes(f, times)
}

// SetTimesPath sets the access and modification times of the file at path.
func SetTimesPath(path string, times filetime.Times) error {
	return filetime.Utimes(path, times)
}

// Seek repositions the file offset of f and returns the new offset.
func Seek(f sysx.File, offset int64, whence int) (int64, error) {
	return sysx.Seek(sysx.HandleOf(f), offset, whence)
}

// Write performs a single native write of p to f.
func Write(f sysx.File, p []byte) (int, error) {
	return sysx.Write(sysx.HandleOf(f), p)
}

// MultiByteToWide converts the multibyte string src to UTF-16 code units
// in dst. See wchar.FromMultiByte.
func MultiByteToWide(dst []uint16, src []byte) (int, error) {
	return wchar.FromMultiByte(dst, src)
}
