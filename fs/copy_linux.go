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
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// fastCopy moves up to size bytes from src to dst inside the kernel. It
// returns how many bytes were moved; zero with a nil error means the
// filesystems do not support it and the caller should copy through user
// space.
func fastCopy(dst, src *os.File, size int64) (int64, error) {
	var copied int64
	for copied < size {
		remain := size - copied
		if remain > 1<<30 {
			remain = 1 << 30
		}
		n, err := unix.CopyFileRange(int(src.Fd()), nil, int(dst.Fd()), nil, int(remain), 0)
		if err != nil {
			if copied == 0 && (err == unix.ENOSYS || err == unix.EXDEV || err == unix.EOPNOTSUPP || err == unix.EINVAL) {
				return 0, nil
			}
			return copied, errors.Wrap(err, "copy_file_range")
		}
		if n == 0 {
			// source shrank, the rest goes through user space
			break
		}
		copied += int64(n)
	}
	return copied, nil
}
