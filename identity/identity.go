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

// Package identity derives POSIX-style (device, inode) pairs from the native
// persistent reference of a file, so callers can detect hard links on
// platforms whose stat call does not report file identity.
package identity

import (
	"fmt"
	"os"

	"github.com/containerd/posixcompat/sysx"
	"github.com/sirupsen/logrus"
)

const (
	// sequenceBits is the width of the reuse counter kept in the top of a
	// native file reference number.
	sequenceBits = 16

	inodeBits = 32
)

// FileIdentity approximates the POSIX (st_dev, st_ino) pair of a file.
//
// Two handles on the same file object, within one process run and one
// volume mount, always yield equal identities. The inode half is a 32-bit
// fold of a 48-bit native reference, so distinct files may share an
// identity. Collisions are rare for typical working sets but are not
// excluded; callers that must not merge distinct files confirm a match with
// another property such as size or content digest. Identities are not
// stable across runs and must not be persisted.
//
// The zero value means the identity is unavailable.
type FileIdentity struct {
	Device uint32
	Inode  uint32
}

// IsZero reports whether id carries no identity.
func (id FileIdentity) IsZero() bool {
	return id == FileIdentity{}
}

func (id FileIdentity) String() string {
	return fmt.Sprintf("%d:%d", id.Device, id.Inode)
}

// Fold computes the identity of a native reference. The sequence counter in
// the top 16 bits is dropped, so a file keeps its identity when a reused
// low-level slot bumps the counter, and the remaining 48 bits are folded
// into 32 by XOR-ing the low word with the high bits. The volume serial
// number is used unchanged as the device.
func Fold(ref sysx.Reference) FileIdentity {
	index := ref.Index & (^uint64(0) >> sequenceBits)
	return FileIdentity{
		Device: ref.Volume,
		Inode:  uint32(index) ^ uint32(index>>inodeBits),
	}
}

// Derive returns the identity of the open file f. The boolean is false when
// the identity is unavailable, for example because f is closed or the
// filesystem cannot be queried. That is not an error: the caller should
// treat the file as unique.
func Derive(f sysx.File) (FileIdentity, bool) {
	ref, err := referenceOf(f)
	if err != nil {
		logrus.WithError(err).Debug("file identity unavailable")
		return FileIdentity{}, false
	}
	return Fold(ref), true
}

// DeriveHandle is Derive for a raw native handle.
func DeriveHandle(h sysx.Handle) (FileIdentity, bool) {
	ref, err := sysx.ReferenceOf(h)
	if err != nil {
		logrus.WithError(err).Debug("file identity unavailable")
		return FileIdentity{}, false
	}
	return Fold(ref), true
}

// DerivePath returns the identity of the file at path, opening it for
// metadata access only. Directories are supported.
func DerivePath(path string) (FileIdentity, bool) {
	if path == "" {
		return FileIdentity{}, false
	}
	f, err := openMetadata(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Debug("file identity unavailable")
		return FileIdentity{}, false
	}
	defer f.Close()

	return Derive(f)
}

func openMetadata(path string) (*os.File, error) {
	h, err := sysx.OpenMetadata(path)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(h), path), nil
}
