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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFstatReportsInode(t *testing.T) {
	f := tempFile(t, "")

	var st Stat_t
	require.NoError(t, Fstat(HandleOf(f), &st))
	require.NotZero(t, st.Ino)
}

func TestTimevalFloors(t *testing.T) {
	ticks := int64(UnixEpochTicks + 15*1e7 + 1234567)
	tv := timeval(ticks)
	require.EqualValues(t, 15, tv.Sec)
	require.EqualValues(t, 123456, tv.Usec)

	tv = timeval(UnixEpochTicks - 5)
	require.EqualValues(t, -1, tv.Sec)
	require.EqualValues(t, 999999, tv.Usec)
}

func TestSetFileTimes(t *testing.T) {
	f := tempFile(t, "")
	h := HandleOf(f)

	atime := time.Date(2001, 2, 3, 4, 5, 6, 7000, time.UTC)
	mtime := time.Date(2011, 12, 13, 14, 15, 16, 0, time.UTC)
	toTicks := func(tm time.Time) int64 { return tm.UnixNano()/100 + UnixEpochTicks }

	require.NoError(t, SetFileTimes(h, toTicks(atime), toTicks(mtime)))

	var st Stat_t
	require.NoError(t, Fstat(h, &st))
	require.Equal(t, atime.UnixNano(), st.Atim)
	require.Equal(t, mtime.UnixNano(), st.Mtim)
}

func TestOpenAttributesWriteOnlyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "wo")
	require.NoError(t, os.WriteFile(p, nil, 0o200))

	h, err := OpenAttributes(p)
	require.NoError(t, err)
	defer Close(h)

	mtime := time.Date(2005, 6, 7, 8, 9, 10, 0, time.UTC)
	ticks := mtime.UnixNano()/100 + UnixEpochTicks
	require.NoError(t, SetFileTimes(h, ticks, ticks))

	fi, err := os.Stat(p)
	require.NoError(t, err)
	require.True(t, fi.ModTime().Equal(mtime), "got %s", fi.ModTime())
}
