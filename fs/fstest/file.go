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

// Package fstest provides appliers that build directory trees for tests and
// a comparison of two trees.
package fstest

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// Applier applies a single file system change to the tree rooted at a
// directory.
type Applier interface {
	Apply(root string) error
}

type applyFn func(root string) error

func (a applyFn) Apply(root string) error {
	return a(root)
}

// Apply returns an Applier running every given applier in order.
func Apply(appliers ...Applier) Applier {
	return applyFn(func(root string) error {
		for _, a := range appliers {
			if err := a.Apply(root); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateFile returns a file applier which creates a file as the provided
// name with the given content and permission.
func CreateFile(name string, content []byte, perm os.FileMode) Applier {
	return applyFn(func(root string) error {
		fullPath := filepath.Join(root, name)
		if err := os.WriteFile(fullPath, content, perm); err != nil {
			return err
		}
		return os.Chmod(fullPath, perm)
	})
}

// CreateRandomFile returns a file applier which creates a file with random
// content of the given size using the given seed.
func CreateRandomFile(name string, seed, size int64, perm os.FileMode) Applier {
	return applyFn(func(root string) error {
		fullPath := filepath.Join(root, name)
		r := rand.New(rand.NewSource(seed))
		f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.CopyN(f, r, size); err != nil {
			return err
		}
		return f.Chmod(perm)
	})
}

// CreateDir returns a file applier to create the directory with the
// provided name and permission.
func CreateDir(name string, perm os.FileMode) Applier {
	return applyFn(func(root string) error {
		fullPath := filepath.Join(root, name)
		if err := os.MkdirAll(fullPath, perm); err != nil {
			return err
		}
		return os.Chmod(fullPath, perm)
	})
}

// Link returns a file applier which creates a hard link.
func Link(oldname, newname string) Applier {
	return applyFn(func(root string) error {
		return os.Link(filepath.Join(root, oldname), filepath.Join(root, newname))
	})
}

// Symlink returns a file applier which creates a symbolic link. The link
// text is used as given.
func Symlink(oldname, newname string) Applier {
	return applyFn(func(root string) error {
		return os.Symlink(oldname, filepath.Join(root, newname))
	})
}

// Chtimes returns a file applier which sets the access and modification
// times of a file.
func Chtimes(name string, atime, mtime time.Time) Applier {
	return applyFn(func(root string) error {
		return os.Chtimes(filepath.Join(root, name), atime, mtime)
	})
}

// Remove returns a file applier which removes the provided file name.
func Remove(name string) Applier {
	return applyFn(func(root string) error {
		return os.Remove(filepath.Join(root, name))
	})
}
