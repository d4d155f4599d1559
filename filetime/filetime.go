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

// Package filetime translates POSIX (seconds, microseconds) timestamps into
// native 100-nanosecond ticks and applies them to files.
package filetime

import (
	"math"
	"time"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/containerd/posixcompat/sysx"
	"github.com/pkg/errors"
)

const (
	ticksPerSecond      = 10000000
	ticksPerMicrosecond = 10
	usecPerSecond       = 1000000

	// minSec and maxSec bound the seconds, after carrying Usec, whose ticks
	// fit in a non-negative int64.
	minSec = -sysx.UnixEpochTicks / ticksPerSecond
	maxSec = (math.MaxInt64-sysx.UnixEpochTicks)/ticksPerSecond - 1
)

// Timeval is a POSIX timestamp. Usec is not normalized; values outside
// [0, 1e6) carry into the seconds.
type Timeval struct {
	Sec  int64
	Usec int64
}

// Times is the access and modification time pair of a file.
type Times struct {
	Access Timeval
	Modify Timeval
}

// FromTime returns the Timeval of t, discarding sub-microsecond precision.
func FromTime(t time.Time) Timeval {
	return Timeval{Sec: t.Unix(), Usec: int64(t.Nanosecond()) / 1000}
}

// Time returns tv as a time.Time.
func (tv Timeval) Time() time.Time {
	return time.Unix(tv.Sec, tv.Usec*1000)
}

// Ticks converts tv to native ticks since 1601-01-01 UTC. It does not check
// the range of tv; use ToTicks for values that may not be representable.
func Ticks(tv Timeval) int64 {
	return tv.Sec*ticksPerSecond + tv.Usec*ticksPerMicrosecond + sysx.UnixEpochTicks
}

// ToTicks is Ticks with a range check. Times before 1601-01-01 UTC and
// times whose ticks overflow int64 fail with ErrInvalidArgument.
func ToTicks(tv Timeval) (int64, error) {
	carry, usec := tv.Usec/usecPerSecond, tv.Usec%usecPerSecond
	if usec < 0 {
		carry--
		usec += usecPerSecond
	}
	if (carry > 0 && tv.Sec > math.MaxInt64-carry) || (carry < 0 && tv.Sec < math.MinInt64-carry) {
		return 0, errors.Wrapf(errdefs.ErrInvalidArgument, "time %d.%06d out of range", tv.Sec, tv.Usec)
	}
	sec := tv.Sec + carry
	if sec < minSec || sec > maxSec {
		return 0, errors.Wrapf(errdefs.ErrInvalidArgument, "time %d.%06d out of range", tv.Sec, tv.Usec)
	}
	return sec*ticksPerSecond + usec*ticksPerMicrosecond + sysx.UnixEpochTicks, nil
}

// FromTicks converts native ticks to a Timeval, flooring to the microsecond.
func FromTicks(ticks int64) Timeval {
	rel := ticks - sysx.UnixEpochTicks
	sec, rem := rel/ticksPerSecond, rel%ticksPerSecond
	if rem < 0 {
		sec--
		rem += ticksPerSecond
	}
	return Timeval{Sec: sec, Usec: rem / ticksPerMicrosecond}
}

// FromNanoseconds converts epoch nanoseconds, as found in sysx.Stat_t, to a
// Timeval truncated to tick resolution and floored to the microsecond.
func FromNanoseconds(nsec int64) Timeval {
	ticks := nsec / 100
	if nsec%100 < 0 {
		ticks--
	}
	return FromTicks(ticks + sysx.UnixEpochTicks)
}

// Futimes sets the access and modification times of the open file f with a
// single native call. Any failure is reported as ErrInvalidArgument, the
// native call gives nothing finer grained.
func Futimes(f sysx.File, times Times) error {
	return apply(sysx.HandleOf(f), times)
}

// Utimes sets the access and modification times of the file at path. The
// file is opened with the minimum access needed and closed again before
// returning, whether or not the update succeeded.
func Utimes(path string, times Times) error {
	h, err := sysx.OpenAttributes(path)
	if err != nil {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "utimes %s: %v", path, err)
	}
	defer sysx.Close(h)

	if err := apply(h, times); err != nil {
		return errors.Wrapf(err, "utimes %s", path)
	}
	return nil
}

func apply(h sysx.Handle, times Times) error {
	if h == sysx.InvalidHandle {
		return errors.Wrap(errdefs.ErrBadDescriptor, "futimes")
	}
	atime, err := ToTicks(times.Access)
	if err != nil {
		return errors.Wrap(err, "access time")
	}
	mtime, err := ToTicks(times.Modify)
	if err != nil {
		return errors.Wrap(err, "modification time")
	}
	if err := sysx.SetFileTimes(h, atime, mtime); err != nil {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "set file time: %v", err)
	}
	return nil
}
