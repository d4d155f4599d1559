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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/containerd/posixcompat/fs/fstest"
	"github.com/containerd/posixcompat/identity"
	"github.com/stretchr/testify/require"
)

// newFixture builds a tree in a temporary directory and prints it, with
// the identity of every regular file, if the test fails.
func newFixture(t *testing.T, appliers ...fstest.Applier) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, fstest.Apply(appliers...).Apply(root))
	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		var sb strings.Builder
		if err := tree(&sb, root); err != nil {
			t.Logf("failed to print tree: %v", err)
			return
		}
		t.Log("\n" + sb.String())
	})
	return root
}

func tree(w io.Writer, dir string) error {
	fmt.Fprintf(w, "%s\n", dir)
	return subtree(w, dir, "")
}

func subtree(w io.Writer, dir string, indent string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		branch, next := "|-- ", "|   "
		if i == len(entries)-1 {
			branch, next = "`-- ", "    "
		}
		fi, err := entry.Info()
		if err != nil {
			return fmt.Errorf("file info not found for %s: %w", entry.Name(), err)
		}
		suffix := ""
		switch {
		case fi.Mode()&os.ModeSymlink != 0:
			if target, err := os.Readlink(p); err == nil {
				suffix = " -> " + target
			}
		case fi.Mode().IsRegular():
			if id, ok := identity.DerivePath(p); ok {
				suffix = " [" + id.String() + "]"
			}
		}
		fmt.Fprintf(w, "%s%s%s%s\n", indent, branch, entry.Name(), suffix)
		if entry.IsDir() {
			if err := subtree(w, p, indent+next); err != nil {
				return err
			}
		}
	}
	return nil
}
