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

// Package sysx bridges native file handles to the rest of the module. It
// exposes the handful of native queries and updates the compatibility layer
// needs without leaking platform API types past this package.
package sysx

import (
	"io/fs"
	"math"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/pkg/errors"
)

// Handle is a native file handle on Windows and a file descriptor elsewhere.
type Handle uintptr

// InvalidHandle is the value of a negative descriptor, a closed *os.File or
// INVALID_HANDLE_VALUE.
const InvalidHandle = ^Handle(0)

// UnixEpochTicks is the number of 100-nanosecond ticks between the native
// epoch (1601-01-01 UTC) and the POSIX epoch.
const UnixEpochTicks = 116444736000000000

// File is anything backed by a native handle, typically an *os.File.
type File interface {
	Fd() uintptr
}

// HandleOf returns the native handle of f, or InvalidHandle if f is nil.
func HandleOf(f File) Handle {
	if f == nil {
		return InvalidHandle
	}
	return Handle(f.Fd())
}

// Stat_t is the extended stat record. Times are epoch nanoseconds.
//
// Dev and Ino are left zero by the native call on platforms that do not
// expose file identity through it. See identity.Fstat for the augmented
// variant.
type Stat_t struct {
	Dev   uint64
	Ino   uint64
	Mode  fs.FileMode
	Nlink uint64
	Size  int64
	Atim  int64
	Mtim  int64
	Ctim  int64
}

// Reference is the native persistent reference of an open file: the 64-bit
// file index, the serial number of the volume holding it and its link count.
type Reference struct {
	Index  uint64
	Volume uint32
	Links  uint32
}

// maxTransfer is the largest byte count a single native write accepts.
var maxTransfer uint64 = math.MaxUint32

func checkHandle(h Handle) error {
	if h == InvalidHandle {
		return errors.Wrap(errdefs.ErrBadDescriptor, "invalid handle")
	}
	return nil
}

// Fstat fills st with what the native extended-stat call reports for h.
func Fstat(h Handle, st *Stat_t) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	*st = Stat_t{}
	return errdefs.Native("fstat", fstat(h, st))
}

// ReferenceOf reads the persistent file reference of h.
func ReferenceOf(h Handle) (Reference, error) {
	if err := checkHandle(h); err != nil {
		return Reference{}, err
	}
	ref, err := reference(h)
	if err != nil {
		return Reference{}, errdefs.Native("file information", err)
	}
	return ref, nil
}

// Seek moves the file pointer of h and returns the new absolute position.
// whence is io.SeekStart, io.SeekCurrent or io.SeekEnd. Out of range offsets
// fail the way the native call fails; nothing is clamped here.
func Seek(h Handle, offset int64, whence int) (int64, error) {
	if err := checkHandle(h); err != nil {
		return 0, err
	}
	pos, err := seek(h, offset, whence)
	if err != nil {
		return 0, errdefs.Native("seek", err)
	}
	return pos, nil
}

// Write writes p to h with a single native call and returns the number of
// bytes written. Buffers longer than the native per-call count are rejected
// with ErrInvalidArgument; chunking is up to the caller.
func Write(h Handle, p []byte) (int, error) {
	if uint64(len(p)) > maxTransfer {
		return 0, errors.Wrapf(errdefs.ErrInvalidArgument, "write of %d bytes exceeds %d", len(p), maxTransfer)
	}
	if err := checkHandle(h); err != nil {
		return 0, err
	}
	n, err := write(h, p)
	if err != nil {
		return n, errdefs.Native("write", err)
	}
	return n, nil
}

// SetFileTimes sets the access and modification times of h, given in native
// ticks, with one native call.
func SetFileTimes(h Handle, atime, mtime int64) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	return errdefs.Native("set file time", setFileTimes(h, atime, mtime))
}

// OpenAttributes opens path with the minimum access needed to change its
// timestamps. Directories can be opened too. The caller must Close the
// returned handle.
func OpenAttributes(path string) (Handle, error) {
	h, err := openAttributes(path)
	if err != nil {
		return InvalidHandle, errdefs.Native("open "+path, err)
	}
	return h, nil
}

// OpenMetadata opens path for metadata queries only. The caller must Close
// the returned handle.
func OpenMetadata(path string) (Handle, error) {
	h, err := openMetadata(path)
	if err != nil {
		return InvalidHandle, errdefs.Native("open "+path, err)
	}
	return h, nil
}

// Close releases a handle returned by OpenAttributes or OpenMetadata.
func Close(h Handle) error {
	if err := checkHandle(h); err != nil {
		return err
	}
	return errdefs.Native("close", closeHandle(h))
}
