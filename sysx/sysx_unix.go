//go:build unix && !aix
// +build unix,!aix

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

package sysx

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

func fstat(h Handle, st *Stat_t) error {
	var s unix.Stat_t
	if err := unix.Fstat(int(h), &s); err != nil {
		return err
	}
	st.Dev = uint64(s.Dev)
	st.Ino = uint64(s.Ino)
	st.Mode = fileMode(uint32(s.Mode))
	st.Nlink = uint64(s.Nlink)
	st.Size = s.Size
	st.Atim = s.Atim.Nano()
	st.Mtim = s.Mtim.Nano()
	st.Ctim = s.Ctim.Nano()
	return nil
}

func fileMode(m uint32) fs.FileMode {
	mode := fs.FileMode(m & 0o777)
	switch m & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= fs.ModeDir
	case unix.S_IFLNK:
		mode |= fs.ModeSymlink
	case unix.S_IFIFO:
		mode |= fs.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= fs.ModeSocket
	case unix.S_IFBLK:
		mode |= fs.ModeDevice
	case unix.S_IFCHR:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	}
	if m&unix.S_ISUID != 0 {
		mode |= fs.ModeSetuid
	}
	if m&unix.S_ISGID != 0 {
		mode |= fs.ModeSetgid
	}
	if m&unix.S_ISVTX != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

// reference folds the 64-bit device number into the 32-bit volume slot.
func reference(h Handle) (Reference, error) {
	var s unix.Stat_t
	if err := unix.Fstat(int(h), &s); err != nil {
		return Reference{}, err
	}
	dev := uint64(s.Dev)
	return Reference{
		Index:  uint64(s.Ino),
		Volume: uint32(dev) ^ uint32(dev>>32),
		Links:  uint32(s.Nlink),
	}, nil
}

func seek(h Handle, offset int64, whence int) (int64, error) {
	return unix.Seek(int(h), offset, whence)
}

func write(h Handle, p []byte) (int, error) {
	n, err := unix.Write(int(h), p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// timeval floors ticks to the microsecond resolution of futimes.
func timeval(ticks int64) unix.Timeval {
	rel := ticks - UnixEpochTicks
	sec, rem := rel/1e7, rel%1e7
	if rem < 0 {
		sec--
		rem += 1e7
	}
	// NsecToTimeval rounds up to the next microsecond, so start just below
	// the aligned value to land on it for pre-1970 times as well.
	return unix.NsecToTimeval(sec*1e9 + rem/10*1e3 - 999)
}

func setFileTimes(h Handle, atime, mtime int64) error {
	return unix.Futimes(int(h), []unix.Timeval{timeval(atime), timeval(mtime)})
}

func open(path string, mode int) (Handle, error) {
	fd, err := unix.Open(path, mode|unix.O_CLOEXEC|unix.O_NONBLOCK, 0)
	if err != nil {
		return InvalidHandle, err
	}
	return Handle(fd), nil
}

// openAttributes needs no particular access for futimes, the caller only has
// to own the file. Files that cannot be read are opened for writing.
func openAttributes(path string) (Handle, error) {
	h, err := open(path, unix.O_RDONLY)
	if err == unix.EACCES {
		return open(path, unix.O_WRONLY)
	}
	return h, err
}

func openMetadata(path string) (Handle, error) {
	return open(path, unix.O_RDONLY)
}

func closeHandle(h Handle) error {
	return unix.Close(int(h))
}
