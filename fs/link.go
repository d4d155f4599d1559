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
	"path/filepath"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/containerd/posixcompat/pathdriver"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Link makes target a copy of source, standing in for a hard link on
// platforms without matching link semantics.
//
// The result is not an alias: later changes to one path are not visible
// through the other. Callers relying on true hard-link sharing must treat
// this as an approximation.
//
// When source does not exist as given it is resolved relative to the
// directory of target, which is how archives record links to sibling
// members. The target must not exist yet.
func Link(source, target string) error {
	resolved, err := ResolveLinkSource(source, target)
	if err != nil {
		return err
	}
	if err := CopyFile(target, resolved); err != nil {
		return errors.Wrapf(err, "link %s %s", source, target)
	}
	return nil
}

// Symlink makes target a copy of source. Symbolic links are emulated
// exactly like hard links; see Link.
func Symlink(source, target string) error {
	return Link(source, target)
}

// ResolveLinkSource returns the path Link copies from: source itself when it
// exists, otherwise source joined to the directory portion of target,
// provided that file can be read. It fails with ErrInvalidArgument for empty
// paths and with ErrNotFound when neither candidate resolves.
func ResolveLinkSource(source, target string) (string, error) {
	if source == "" || target == "" {
		return "", errors.Wrapf(errdefs.ErrInvalidArgument, "link %q %q", source, target)
	}
	if _, err := os.Stat(source); err == nil {
		return source, nil
	}

	dir := pathdriver.Dir(target)
	if dir == "" || filepath.IsAbs(source) {
		return "", errors.Wrapf(errdefs.ErrNotFound, "link source %s", source)
	}
	resolved := pathdriver.Join(dir, source)
	f, err := os.Open(resolved)
	if err != nil {
		return "", errors.Wrapf(errdefs.ErrNotFound, "link source %s: %v", source, err)
	}
	f.Close()

	logrus.WithFields(logrus.Fields{
		"source":   source,
		"target":   target,
		"resolved": resolved,
	}).Debug("link source resolved relative to target")
	return resolved, nil
}
