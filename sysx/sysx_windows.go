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

package sysx

import (
	"io/fs"
	"unsafe"

	"golang.org/x/sys/windows"
)

// fileBasicInfo mirrors FILE_BASIC_INFO.
type fileBasicInfo struct {
	CreationTime   windows.Filetime
	LastAccessTime windows.Filetime
	LastWriteTime  windows.Filetime
	ChangeTime     windows.Filetime
	FileAttributes uint32
	_              uint32 // padding
}

// fileStandardInfo mirrors FILE_STANDARD_INFO.
type fileStandardInfo struct {
	AllocationSize int64
	EndOfFile      int64
	NumberOfLinks  uint32
	DeletePending  bool
	Directory      bool
}

// fstat behaves like the CRT _fstati64: it reports type, size, link count
// and times, but never the file index, so Dev and Ino stay zero.
func fstat(h Handle, st *Stat_t) error {
	handle := windows.Handle(h)
	ft, err := windows.GetFileType(handle)
	if err != nil {
		return err
	}
	switch ft {
	case windows.FILE_TYPE_CHAR:
		st.Mode = fs.ModeDevice | fs.ModeCharDevice | 0o666
		st.Nlink = 1
		return nil
	case windows.FILE_TYPE_PIPE:
		st.Mode = fs.ModeNamedPipe | 0o666
		st.Nlink = 1
		return nil
	}

	var bi fileBasicInfo
	if err := windows.GetFileInformationByHandleEx(handle, windows.FileBasicInfo,
		(*byte)(unsafe.Pointer(&bi)), uint32(unsafe.Sizeof(bi))); err != nil {
		return err
	}
	var si fileStandardInfo
	if err := windows.GetFileInformationByHandleEx(handle, windows.FileStandardInfo,
		(*byte)(unsafe.Pointer(&si)), uint32(unsafe.Sizeof(si))); err != nil {
		return err
	}

	st.Mode = attributeMode(bi.FileAttributes)
	st.Nlink = uint64(si.NumberOfLinks)
	if !si.Directory {
		st.Size = si.EndOfFile
	}
	st.Atim = bi.LastAccessTime.Nanoseconds()
	st.Mtim = bi.LastWriteTime.Nanoseconds()
	st.Ctim = bi.CreationTime.Nanoseconds()
	return nil
}

func attributeMode(attrs uint32) fs.FileMode {
	var mode fs.FileMode = 0o666
	if attrs&windows.FILE_ATTRIBUTE_READONLY != 0 {
		mode = 0o444
	}
	if attrs&windows.FILE_ATTRIBUTE_DIRECTORY != 0 {
		mode |= fs.ModeDir | 0o111
	}
	if attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0 {
		mode |= fs.ModeIrregular
	}
	return mode
}

func reference(h Handle) (Reference, error) {
	var d windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(windows.Handle(h), &d); err != nil {
		return Reference{}, err
	}
	return Reference{
		Index:  uint64(d.FileIndexHigh)<<32 | uint64(d.FileIndexLow),
		Volume: d.VolumeSerialNumber,
		Links:  d.NumberOfLinks,
	}, nil
}

func seek(h Handle, offset int64, whence int) (int64, error) {
	return windows.Seek(windows.Handle(h), offset, whence)
}

func write(h Handle, p []byte) (int, error) {
	var done uint32
	err := windows.WriteFile(windows.Handle(h), p, &done, nil)
	return int(done), err
}

func filetime(ticks int64) windows.Filetime {
	return windows.Filetime{
		LowDateTime:  uint32(ticks),
		HighDateTime: uint32(ticks >> 32),
	}
}

func setFileTimes(h Handle, atime, mtime int64) error {
	a, m := filetime(atime), filetime(mtime)
	return windows.SetFileTime(windows.Handle(h), nil, &a, &m)
}

func open(path string, access uint32) (Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return InvalidHandle, err
	}
	// FILE_FLAG_BACKUP_SEMANTICS is required to open directories.
	h, err := windows.CreateFile(p, access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return InvalidHandle, err
	}
	return Handle(h), nil
}

func openAttributes(path string) (Handle, error) {
	return open(path, windows.FILE_WRITE_ATTRIBUTES)
}

func openMetadata(path string) (Handle, error) {
	return open(path, windows.FILE_READ_ATTRIBUTES)
}

func closeHandle(h Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}
