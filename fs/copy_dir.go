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
	"github.com/containerd/posixcompat/filetime"
	"github.com/containerd/posixcompat/identity"
	"github.com/containerd/posixcompat/sysx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type copyDirOpts struct {
	preserveLinks bool
}

// CopyDirOpt is an option for CopyDir.
type CopyDirOpt func(*copyDirOpts) error

// WithoutLinks copies the content of every regular file, even when several
// source paths refer to the same file.
func WithoutLinks() CopyDirOpt {
	return func(o *copyDirOpts) error {
		o.preserveLinks = false
		return nil
	}
}

// CopyDir copies the directory from src to dst. Files that are hard linked
// in src are linked in dst as well, using their derived identity to find
// the members of a link set. Where dst cannot hold a native hard link the
// link is emulated with a copy.
func CopyDir(dst, src string, opts ...CopyDirOpt) error {
	o := copyDirOpts{preserveLinks: true}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return err
		}
	}
	links := map[identity.FileIdentity]linkSource{}
	return copyDirectory(dst, src, links, o)
}

func copyDirectory(dst, src string, links map[identity.FileIdentity]linkSource, o copyDirOpts) error {
	stat, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", src)
	}
	if !stat.IsDir() {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "source %s is not a directory", src)
	}

	if st, err := os.Stat(dst); err != nil {
		if err := os.Mkdir(dst, stat.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "failed to mkdir %s", dst)
		}
	} else if !st.IsDir() {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "cannot copy to non-directory: %s", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", src)
	}

	for _, entry := range entries {
		source := filepath.Join(src, entry.Name())
		target := filepath.Join(dst, entry.Name())

		fi, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, "failed to get file info for %s", source)
		}

		switch mode := fi.Mode(); {
		case mode.IsDir():
			if err := copyDirectory(target, source, links, o); err != nil {
				return err
			}
		case mode.IsRegular():
			if err := copyRegular(target, source, links, o); err != nil {
				return err
			}
		case mode&os.ModeSymlink != 0:
			if err := copySymlink(target, source); err != nil {
				return err
			}
		default:
			return errors.Wrapf(errdefs.ErrNotSupported, "unsupported mode %s for %s", mode, source)
		}
	}

	return copyDirTimes(dst, src)
}

func copyRegular(target, source string, links map[identity.FileIdentity]linkSource, o copyDirOpts) error {
	if o.preserveLinks {
		link, err := getLinkSource(target, source, links)
		if err != nil {
			return errors.Wrap(err, "failed to get hardlink")
		}
		if link != "" {
			err := os.Link(link, target)
			if err == nil {
				return nil
			}
			logrus.WithError(err).WithField("target", target).Debug("native hard link failed, emulating")
			return Link(link, target)
		}
	}
	if err := CopyFile(target, source); err != nil {
		return errors.Wrap(err, "failed to copy files")
	}
	return nil
}

// symlink creates native symbolic links. Replaced in tests to exercise the
// emulated path.
var symlink = os.Symlink

// copySymlink recreates the link at source. When the platform refuses to
// create symbolic links, target becomes a copy of the file the link points
// at, resolved in the source tree: relative link text is taken relative to
// the directory holding source.
func copySymlink(target, source string) error {
	link, err := os.Readlink(source)
	if err != nil {
		return errors.Wrapf(err, "failed to read link: %s", source)
	}
	err = symlink(link, target)
	if err == nil {
		return nil
	}
	logrus.WithError(err).WithField("target", target).Debug("native symlink failed, emulating")

	resolved := link
	if !filepath.IsAbs(link) {
		resolved = filepath.Join(filepath.Dir(source), link)
	}
	if err := CopyFile(target, resolved); err != nil {
		return errors.Wrapf(err, "failed to emulate symlink %s -> %s", target, link)
	}
	return nil
}

func copyDirTimes(dst, src string) error {
	var st sysx.Stat_t
	if err := identity.StatPath(src, &st); err != nil {
		return errors.Wrapf(err, "failed to stat %s", src)
	}
	if err := filetime.Utimes(dst, statTimes(&st)); err != nil {
		return errors.Wrapf(err, "failed to copy times to %s", dst)
	}
	return nil
}
