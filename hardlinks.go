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
	"os"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/containerd/posixcompat/identity"
	"github.com/containerd/posixcompat/sysx"
	"github.com/google/btree"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Entry describes a regular file that is a candidate archive member.
type Entry struct {
	Path     string
	Size     int64
	Links    uint64
	Identity identity.FileIdentity

	// Digest is optional. When set on both sides of an identity match it
	// must agree for the entries to be linked.
	Digest digest.Digest
}

// NewEntry describes the regular file at p. The content digest is computed
// only when withDigest is set.
func NewEntry(p string, withDigest bool) (Entry, error) {
	fi, err := os.Lstat(p)
	if err != nil {
		return Entry{}, err
	}
	if !fi.Mode().IsRegular() {
		return Entry{}, errors.Wrapf(errdefs.ErrInvalidArgument, "%s is not a regular file", p)
	}

	f, err := os.Open(p)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	var st sysx.Stat_t
	if err := identity.Fstat(f, &st); err != nil {
		return Entry{}, errors.Wrapf(err, "failed to stat %s", p)
	}
	e := Entry{
		Path:  p,
		Size:  st.Size,
		Links: st.Nlink,
	}
	e.Identity, _ = identity.Derive(f)
	if withDigest {
		if e.Digest, err = DigestPath(p); err != nil {
			return Entry{}, err
		}
	}
	return e, nil
}

// linkSet is one group of entries believed to be the same file. The first
// entry is the primary.
type linkSet []Entry

func (s linkSet) accepts(e Entry) bool {
	primary := s[0]
	return primary.Size == e.Size && digestsMatch(primary.Digest, e.Digest)
}

type identityNode struct {
	id   identity.FileIdentity
	sets []linkSet
}

func lessIdentity(a, b *identityNode) bool {
	if a.id.Device != b.id.Device {
		return a.id.Device < b.id.Device
	}
	return a.id.Inode < b.id.Inode
}

// HardlinkIndex groups archive entries that refer to the same file so that
// only the first one is stored and the others are recorded as links to it.
//
// Identities are lossy, so entries sharing an identity are only grouped
// when their sizes match and, when both carry one, their digests agree.
// Entries that fail this check start a separate set under the same
// identity. The zero value is not usable; use NewHardlinkIndex.
type HardlinkIndex struct {
	nodes *btree.BTreeG[*identityNode]
}

// NewHardlinkIndex returns an empty index.
func NewHardlinkIndex() *HardlinkIndex {
	return &HardlinkIndex{
		nodes: btree.NewG(2, lessIdentity),
	}
}

// Add records e and returns the path of the entry it should be archived as
// a link to, or "" when e has to be stored. Entries with an unavailable
// identity or a single link are always stored.
func (idx *HardlinkIndex) Add(e Entry) string {
	if e.Identity.IsZero() || e.Links == 1 {
		return ""
	}

	node, ok := idx.nodes.Get(&identityNode{id: e.Identity})
	if !ok {
		idx.nodes.ReplaceOrInsert(&identityNode{id: e.Identity, sets: []linkSet{{e}}})
		return ""
	}
	for i, set := range node.sets {
		if set.accepts(e) {
			node.sets[i] = append(set, e)
			return set[0].Path
		}
	}

	logrus.WithFields(logrus.Fields{
		"identity": e.Identity,
		"path":     e.Path,
		"primary":  node.sets[0][0].Path,
	}).Debug("identity collision, storing entry separately")
	node.sets = append(node.sets, linkSet{e})
	return ""
}

// Groups returns every set of two or more linked entries, ordered by
// identity and then by the order the sets were started. The primary entry
// comes first in each group.
func (idx *HardlinkIndex) Groups() [][]Entry {
	var groups [][]Entry
	idx.nodes.Ascend(func(n *identityNode) bool {
		for _, set := range n.sets {
			if len(set) > 1 {
				groups = append(groups, append([]Entry(nil), set...))
			}
		}
		return true
	})
	return groups
}

// Len returns the number of distinct identities recorded.
func (idx *HardlinkIndex) Len() int {
	return idx.nodes.Len()
}
