//go:build !windows && !(unix && !aix)

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
	"github.com/containerd/posixcompat/errdefs"
	"github.com/pkg/errors"
)

// Platforms without the needed native calls report every operation as not
// supported. Identity derivation then reports unavailable identities.

func notSupported(op string) error {
	return errors.Wrap(errdefs.ErrNotSupported, op)
}

func fstat(Handle, *Stat_t) error {
	return notSupported("fstat")
}

func reference(Handle) (Reference, error) {
	return Reference{}, notSupported("file information")
}

func seek(Handle, int64, int) (int64, error) {
	return 0, notSupported("seek")
}

func write(Handle, []byte) (int, error) {
	return 0, notSupported("write")
}

func setFileTimes(Handle, int64, int64) error {
	return notSupported("set file time")
}

func openAttributes(string) (Handle, error) {
	return InvalidHandle, notSupported("open")
}

func openMetadata(string) (Handle, error) {
	return InvalidHandle, notSupported("open")
}

func closeHandle(Handle) error {
	return notSupported("close")
}
