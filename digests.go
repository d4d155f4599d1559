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

package posixcompat

import (
	_ "crypto/sha256"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
)

// DigestPath returns the digest of the file at path p. Currently, this only
// uses the value of digest.Canonical to resolve the hash to use.
func DigestPath(p string) (digest.Digest, error) {
	digester := digest.Canonical.Digester()

	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(digester.Hash(), f); err != nil {
		return "", errors.Wrapf(err, "failed to digest %s", p)
	}

	return digester.Digest(), nil
}

// digestsMatch reports whether two optional digests are compatible: either
// is missing, or they use different algorithms, or they are equal.
func digestsMatch(a, b digest.Digest) bool {
	if a == "" || b == "" || a.Algorithm() != b.Algorithm() {
		return true
	}
	return a == b
}
