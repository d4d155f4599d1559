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

package fs

import (
	"io"
	"os"
	"sync"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/containerd/posixcompat/filetime"
	"github.com/containerd/posixcompat/identity"
	"github.com/containerd/posixcompat/sysx"
	"github.com/pkg/errors"
)

var bufferPool = &sync.Pool{
	New: func() interface{} {
		buffer := make([]byte, 32*1024)
		return &buffer
	},
}

// CopyFile copies the regular file source to target, which must not exist.
// Permission bits and access/modification times are carried over. A target
// created by this call is removed again if the copy fails.
func CopyFile(target, source string) error {
	src, err := os.Open(source)
	if err != nil {
		return errors.Wrapf(err, "failed to open source %s", source)
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return errors.Wrapf(err, "failed to stat source %s", source)
	}
	if !fi.Mode().IsRegular() {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "%s is not a regular file", source)
	}

	tgt, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "failed to create target %s", target)
	}
	if err := copyFile(tgt, src); err != nil {
		tgt.Close()
		os.Remove(target)
		return errors.Wrapf(err, "failed to copy %s to %s", source, target)
	}
	if err := tgt.Close(); err != nil {
		os.Remove(target)
		return errors.Wrapf(err, "failed to close target %s", target)
	}
	return nil
}

func copyFile(dst, src *os.File) error {
	// times are read first, reading the content may bump the access time
	var st sysx.Stat_t
	if err := sysx.Fstat(sysx.HandleOf(src), &st); err != nil {
		return err
	}
	if err := copyFileContent(dst, src, st.Size); err != nil {
		return err
	}
	if err := dst.Sync(); err != nil {
		return err
	}
	return filetime.Futimes(dst, statTimes(&st))
}

func copyFileContent(dst, src *os.File, size int64) error {
	n, err := fastCopy(dst, src, size)
	if err != nil {
		return err
	}
	if n == size {
		return nil
	}

	buf := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(buf)

	// fastCopy advanced both offsets past the n bytes it moved
	_, err = io.CopyBuffer(dst, src, *buf)
	return err
}

func statTimes(st *sysx.Stat_t) filetime.Times {
	return filetime.Times{
		Access: filetime.FromNanoseconds(st.Atim),
		Modify: filetime.FromNanoseconds(st.Mtim),
	}
}

// linkSource remembers the first copy of a multiply-linked file.
type linkSource struct {
	path string
	size int64
}

// getLinkSource returns the already copied path that target should be
// linked to, or "" if source has to be copied. Identities are hashes, so a
// match is only trusted when the sizes agree as well.
func getLinkSource(target, source string, links map[identity.FileIdentity]linkSource) (string, error) {
	f, err := os.Open(source)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var st sysx.Stat_t
	if err := identity.Fstat(f, &st); err != nil {
		return "", err
	}
	if st.Nlink < 2 {
		return "", nil
	}
	id, ok := identity.Derive(f)
	if !ok {
		return "", nil
	}
	if prev, seen := links[id]; seen && prev.size == st.Size {
		return prev.path, nil
	}
	links[id] = linkSource{path: target, size: st.Size}
	return "", nil
}
