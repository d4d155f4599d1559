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
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/containerd/posixcompat/sysx"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		ref      sysx.Reference
		expected FileIdentity
	}{
		{
			name:     "zero",
			ref:      sysx.Reference{},
			expected: FileIdentity{},
		},
		{
			name:     "low word only",
			ref:      sysx.Reference{Index: 0x1234, Volume: 7},
			expected: FileIdentity{Device: 7, Inode: 0x1234},
		},
		{
			name:     "sequence number dropped",
			ref:      sysx.Reference{Index: 0x0005_0000_0000_1234, Volume: 7},
			expected: FileIdentity{Device: 7, Inode: 0x1234},
		},
		{
			name:     "high bits folded",
			ref:      sysx.Reference{Index: 0x0000_abcd_1234_5678, Volume: 0xdeadbeef},
			expected: FileIdentity{Device: 0xdeadbeef, Inode: 0x1234_fdb5},
		},
		{
			name:     "all bits set",
			ref:      sysx.Reference{Index: ^uint64(0), Volume: 1},
			expected: FileIdentity{Device: 1, Inode: 0xffff_0000},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Fold(tc.ref))
		})
	}
}

func TestFoldIgnoresSequence(t *testing.T) {
	base := uint64(0x0000_0102_0304_0506)
	want := Fold(sysx.Reference{Index: base, Volume: 3})
	for seq := uint64(1); seq < 1<<sequenceBits; seq <<= 1 {
		require.Equal(t, want, Fold(sysx.Reference{Index: seq<<48 | base, Volume: 3}))
	}
}

// The fold is lossy: these two references are distinct but share an
// identity. Callers are expected to tolerate this.
func TestFoldCollision(t *testing.T) {
	a := Fold(sysx.Reference{Index: 1 << 32})
	b := Fold(sysx.Reference{Index: 1})
	require.Equal(t, a, b)
}

func TestFileIdentityString(t *testing.T) {
	require.Equal(t, "7:42", FileIdentity{Device: 7, Inode: 42}.String())
	require.True(t, FileIdentity{}.IsZero())
	require.False(t, FileIdentity{Inode: 1}.IsZero())
}

func TestDeriveSameFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a")
	require.NoError(t, os.WriteFile(p, []byte("a"), 0o644))

	f1, err := os.Open(p)
	require.NoError(t, err)
	defer f1.Close()
	f2, err := os.Open(p)
	require.NoError(t, err)
	defer f2.Close()

	id1, ok := Derive(f1)
	require.True(t, ok)
	id2, ok := Derive(f2)
	require.True(t, ok)
	require.Equal(t, id1, id2)

	id3, ok := DeriveHandle(sysx.HandleOf(f1))
	require.True(t, ok)
	require.Equal(t, id1, id3)

	id4, ok := DerivePath(p)
	require.True(t, ok)
	require.Equal(t, id1, id4)
}

func TestDeriveHardlink(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("shared"), 0o644))
	require.NoError(t, os.Link(a, b))

	ida, ok := DerivePath(a)
	require.True(t, ok)
	idb, ok := DerivePath(b)
	require.True(t, ok)
	require.Equal(t, ida, idb)
}

func TestDeriveDirectory(t *testing.T) {
	dir := t.TempDir()
	id1, ok := DerivePath(dir)
	require.True(t, ok)
	id2, ok := DerivePath(dir)
	require.True(t, ok)
	require.Equal(t, id1, id2)
}

func TestDeriveUnavailable(t *testing.T) {
	id, ok := Derive(nil)
	require.False(t, ok)
	require.True(t, id.IsZero())

	id, ok = DeriveHandle(sysx.InvalidHandle)
	require.False(t, ok)
	require.True(t, id.IsZero())

	id, ok = DerivePath("")
	require.False(t, ok)
	require.True(t, id.IsZero())

	id, ok = DerivePath(filepath.Join(t.TempDir(), "missing"))
	require.False(t, ok)
	require.True(t, id.IsZero())

	f, err := os.Create(filepath.Join(t.TempDir(), "closed"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	id, ok = Derive(f)
	require.False(t, ok)
	require.True(t, id.IsZero())
}

func TestFstatFillsInode(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "file"))
	require.NoError(t, err)
	defer f.Close()

	var st sysx.Stat_t
	require.NoError(t, Fstat(f, &st))
	require.NotZero(t, st.Ino)
	require.True(t, st.Mode.IsRegular())

	var pst sysx.Stat_t
	require.NoError(t, StatPath(f.Name(), &pst))
	require.Equal(t, st.Ino, pst.Ino)
	require.Equal(t, st.Dev, pst.Dev)
}

func TestAugmentBackfillsZeroInode(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "file"))
	require.NoError(t, err)
	defer f.Close()

	id, ok := Derive(f)
	require.True(t, ok)

	st := sysx.Stat_t{Size: 10}
	augment(f, &st)
	require.EqualValues(t, id.Inode, st.Ino)
	require.EqualValues(t, id.Device, st.Dev)
	require.EqualValues(t, 10, st.Size)

	// a populated inode is left alone
	st = sysx.Stat_t{Dev: 1, Ino: 2}
	augment(f, &st)
	require.EqualValues(t, 1, st.Dev)
	require.EqualValues(t, 2, st.Ino)
}

func TestFstatPropagatesFailure(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "file"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var st sysx.Stat_t
	require.ErrorIs(t, Fstat(f, &st), errdefs.ErrBadDescriptor)
	require.Zero(t, st.Ino)

	err = StatPath(filepath.Join(t.TempDir(), "missing"), &st)
	require.True(t, errdefs.IsNotFound(err), "unexpected error: %v", err)
}
