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

package commands

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"path/filepath"

	"github.com/containerd/posixcompat"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var DupesCmd = &cobra.Command{
	Use:   "dupes <root>",
	Short: "List groups of hard-linked files under root",
	Long: `Walk root and group regular files by derived identity, the way an
archiver decides which members to store as links. With --verify-content each
match is also confirmed by a content digest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := regularFiles(args[0])
		if err != nil {
			return err
		}
		entries, err := describe(cmd.Context(), paths, config.Workers, config.VerifyContent)
		if err != nil {
			return err
		}

		idx := posixcompat.NewHardlinkIndex()
		for _, e := range entries {
			if primary := idx.Add(e); primary != "" {
				logrus.WithFields(logrus.Fields{"path": e.Path, "primary": primary}).Debug("linked")
			}
		}
		return printGroups(cmd.OutOrStdout(), idx.Groups())
	},
}

func regularFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}
	return paths, nil
}

// describe builds the entries for paths with at most workers files open at
// once. The result keeps the order of paths.
func describe(ctx context.Context, paths []string, workers int, verify bool) ([]posixcompat.Entry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	entries := make([]posixcompat.Entry, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := posixcompat.NewEntry(p, verify)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func printGroups(out io.Writer, groups [][]posixcompat.Entry) error {
	w := newTabwriter(out)
	var saved uint64
	for _, g := range groups {
		primary := g[0]
		fmt.Fprintf(w, "%v\t%s\t%s\n", primary.Identity, humanize.IBytes(uint64(primary.Size)), primary.Path)
		for _, e := range g[1:] {
			fmt.Fprintf(w, "\t\t  %s\n", e.Path)
			saved += uint64(e.Size)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%s, %s saved by linking\n", english.Plural(len(groups), "group", ""), humanize.IBytes(saved))
	return err
}
