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

package fstest

import (
	_ "crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/containerd/posixcompat/identity"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
)

type resource struct {
	path   string
	mode   fs.FileMode
	size   int64
	mtime  time.Time
	digest digest.Digest
	target string
	id     identity.FileIdentity
}

// difference is one way two trees disagree.
type difference struct {
	path   string
	reason string
}

func (d difference) String() string {
	return d.path + ": " + d.reason
}

// CheckDirectoryEqual compares two directory trees: the same paths with
// the same types, permissions, sizes, content, modification times (to the
// microsecond), symlink targets, and the same hard-link grouping.
func CheckDirectoryEqual(d1, d2 string) error {
	r1, err := collect(d1)
	if err != nil {
		return errors.Wrap(err, "failed to collect first tree")
	}
	r2, err := collect(d2)
	if err != nil {
		return errors.Wrap(err, "failed to collect second tree")
	}

	diffs := diff(r1, r2)
	if err := compareLinkGroups(r1, r2); err != nil {
		diffs = append(diffs, difference{path: "/", reason: err.Error()})
	}
	if len(diffs) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%s and %s differ:", d1, d2)
	for _, d := range diffs {
		msg += "\n\t" + d.String()
	}
	return errors.New(msg)
}

// diff walks two path-sorted resource lists side by side and reports
// deletions, additions and updates.
func diff(r1, r2 []resource) []difference {
	var diffs []difference
	i1, i2 := 0, 0
	for i1 < len(r1) && i2 < len(r2) {
		p1, p2 := r1[i1].path, r2[i2].path
		switch {
		case p1 < p2:
			diffs = append(diffs, difference{path: p1, reason: "deleted"})
			i1++
		case p1 > p2:
			diffs = append(diffs, difference{path: p2, reason: "added"})
			i2++
		default:
			if reason := compareResource(r1[i1], r2[i2]); reason != "" {
				diffs = append(diffs, difference{path: p1, reason: reason})
			}
			i1++
			i2++
		}
	}
	for ; i1 < len(r1); i1++ {
		diffs = append(diffs, difference{path: r1[i1].path, reason: "deleted"})
	}
	for ; i2 < len(r2); i2++ {
		diffs = append(diffs, difference{path: r2[i2].path, reason: "added"})
	}
	return diffs
}

func compareResource(a, b resource) string {
	if a.mode.Type() != b.mode.Type() {
		return fmt.Sprintf("type %s != %s", a.mode.Type(), b.mode.Type())
	}
	// windows only reports the read-only attribute as permission bits
	if runtime.GOOS != "windows" && a.mode.Type() != fs.ModeSymlink && a.mode.Perm() != b.mode.Perm() {
		return fmt.Sprintf("permissions %s != %s", a.mode.Perm(), b.mode.Perm())
	}
	switch a.mode.Type() {
	case fs.ModeSymlink:
		if a.target != b.target {
			return fmt.Sprintf("link target %q != %q", a.target, b.target)
		}
		return ""
	case 0:
		if a.size != b.size {
			return fmt.Sprintf("size %d != %d", a.size, b.size)
		}
		if a.digest != b.digest {
			return fmt.Sprintf("content %s != %s", a.digest, b.digest)
		}
	}
	if !a.mtime.Equal(b.mtime) {
		return fmt.Sprintf("modification time %s != %s", a.mtime, b.mtime)
	}
	return ""
}

func compareLinkGroups(r1, r2 []resource) error {
	g1, g2 := linkGroups(r1), linkGroups(r2)
	if fmt.Sprint(g1) != fmt.Sprint(g2) {
		return errors.Errorf("hard link groups differ: %v != %v", g1, g2)
	}
	return nil
}

func linkGroups(rs []resource) [][]string {
	byID := map[identity.FileIdentity][]string{}
	for _, r := range rs {
		if r.mode.IsRegular() && !r.id.IsZero() {
			byID[r.id] = append(byID[r.id], r.path)
		}
	}
	var groups [][]string
	for _, paths := range byID {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups = append(groups, paths)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// collect lists the tree under root in lexical path order.
func collect(root string) ([]resource, error) {
	var rs []resource
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		r := resource{
			path:  filepath.ToSlash(rel),
			mode:  fi.Mode(),
			size:  fi.Size(),
			mtime: fi.ModTime().Truncate(time.Microsecond),
		}
		switch {
		case fi.Mode()&fs.ModeSymlink != 0:
			if r.target, err = os.Readlink(p); err != nil {
				return err
			}
		case fi.Mode().IsRegular():
			if r.digest, err = fileDigest(p); err != nil {
				return err
			}
			r.id, _ = identity.DerivePath(p)
		}
		rs = append(rs, r)
		return nil
	})
	sort.Slice(rs, func(i, j int) bool { return rs[i].path < rs[j].path })
	return rs, err
}

func fileDigest(p string) (digest.Digest, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return digest.FromReader(f)
}
