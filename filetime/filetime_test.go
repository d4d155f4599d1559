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

package filetime

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/containerd/posixcompat/sysx"
	"github.com/stretchr/testify/require"
)

func TestTicks(t *testing.T) {
	tests := []struct {
		name     string
		tv       Timeval
		expected int64
	}{
		{name: "posix epoch", tv: Timeval{}, expected: 116444736000000000},
		{name: "one second one usec", tv: Timeval{Sec: 1, Usec: 1}, expected: 116444736010000010},
		{name: "y2k", tv: Timeval{Sec: 946684800}, expected: 125911584000000000},
		{name: "beyond 32-bit seconds", tv: Timeval{Sec: 1 << 33}, expected: (1<<33)*10000000 + 116444736000000000},
		{name: "before posix epoch", tv: Timeval{Sec: -1, Usec: 999999}, expected: 116444735999999990},
		{name: "unnormalized usec", tv: Timeval{Sec: 1, Usec: 1500000}, expected: Ticks(Timeval{Sec: 2, Usec: 500000})},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Ticks(tc.tv))
			ticks, err := ToTicks(tc.tv)
			require.NoError(t, err)
			require.Equal(t, tc.expected, ticks)
		})
	}
}

func TestToTicksRange(t *testing.T) {
	ticks, err := ToTicks(Timeval{Sec: minSec})
	require.NoError(t, err)
	require.Zero(t, ticks)

	ticks, err = ToTicks(Timeval{Sec: maxSec, Usec: 999999})
	require.NoError(t, err)
	require.Positive(t, ticks)

	for _, tv := range []Timeval{
		{Sec: minSec - 1, Usec: 999999},
		{Sec: minSec, Usec: -1},
		{Sec: maxSec + 1},
		{Sec: maxSec, Usec: 1000000},
		{Sec: 1 << 60},
		{Sec: -1 << 60},
		{Usec: math.MaxInt64},
		{Usec: math.MinInt64},
		{Sec: math.MaxInt64, Usec: math.MaxInt64},
		{Sec: math.MinInt64, Usec: math.MinInt64},
	} {
		_, err := ToTicks(tv)
		require.ErrorIs(t, err, errdefs.ErrInvalidArgument, "%+v", tv)
	}
}

func TestUtimesRejectsOverflow(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	before, err := os.Stat(p)
	require.NoError(t, err)

	huge := Timeval{Sec: 1 << 60}
	err = Utimes(p, Times{Access: huge, Modify: huge})
	require.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	after, err := os.Stat(p)
	require.NoError(t, err)
	require.True(t, before.ModTime().Equal(after.ModTime()))
}

func TestFromTicks(t *testing.T) {
	for _, tv := range []Timeval{
		{},
		{Sec: 1, Usec: 1},
		{Sec: 1700000000, Usec: 123456},
		{Sec: -1, Usec: 999999},
		{Sec: -86400, Usec: 0},
	} {
		require.Equal(t, tv, FromTicks(Ticks(tv)))
	}

	// sub-microsecond ticks are floored
	require.Equal(t, Timeval{Sec: 0, Usec: 1}, FromTicks(sysx.UnixEpochTicks+15))
	require.Equal(t, Timeval{Sec: -1, Usec: 999998}, FromTicks(sysx.UnixEpochTicks-15))
}

func TestFromNanoseconds(t *testing.T) {
	require.Equal(t, Timeval{Sec: 0, Usec: 1}, FromNanoseconds(1999))
	require.Equal(t, Timeval{Sec: 12, Usec: 345678}, FromNanoseconds(12345678999))
	require.Equal(t, Timeval{Sec: -1, Usec: 999999}, FromNanoseconds(-1))
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2020, 5, 6, 7, 8, 9, 123456789, time.UTC)
	tv := FromTime(tm)
	require.Equal(t, Timeval{Sec: tm.Unix(), Usec: 123456}, tv)
	require.True(t, tv.Time().Equal(tm.Truncate(time.Microsecond)))
}

func statTimes(t *testing.T, path string) (Timeval, Timeval) {
	t.Helper()
	h, err := sysx.OpenMetadata(path)
	require.NoError(t, err)
	defer sysx.Close(h)

	var st sysx.Stat_t
	require.NoError(t, sysx.Fstat(h, &st))
	return FromNanoseconds(st.Atim), FromNanoseconds(st.Mtim)
}

func TestUtimesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	times := Times{
		Access: Timeval{Sec: 1234567890, Usec: 654321},
		Modify: Timeval{Sec: 987654321, Usec: 1},
	}
	for _, target := range []string{p, dir} {
		require.NoError(t, Utimes(target, times))
		atime, mtime := statTimes(t, target)
		require.Equal(t, times.Access, atime, target)
		require.Equal(t, times.Modify, mtime, target)
	}
}

func TestFutimes(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "file"))
	require.NoError(t, err)
	defer f.Close()

	times := Times{
		Access: Timeval{Sec: 1000000000, Usec: 500},
		Modify: Timeval{Sec: 1000000001, Usec: 999999},
	}
	require.NoError(t, Futimes(f, times))

	var st sysx.Stat_t
	require.NoError(t, sysx.Fstat(sysx.HandleOf(f), &st))
	require.Equal(t, times.Access, FromNanoseconds(st.Atim))
	require.Equal(t, times.Modify, FromNanoseconds(st.Mtim))
}

func TestUtimesErrors(t *testing.T) {
	err := Utimes(filepath.Join(t.TempDir(), "missing"), Times{})
	require.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	p := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	old := Timeval{Sec: -12000000000}
	err = Utimes(p, Times{Access: old, Modify: old})
	require.ErrorIs(t, err, errdefs.ErrInvalidArgument)

	f, err := os.Open(p)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.ErrorIs(t, Futimes(f, Times{}), errdefs.ErrBadDescriptor)
}
