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
	"github.com/containerd/posixcompat/fs"
	"github.com/spf13/cobra"
)

var copyCmdConfig struct {
	noLinks bool
}

var CopyCmd = &cobra.Command{
	Use:   "copy [--no-links] <source> <destination>",
	Short: "Copy a directory tree, keeping hard-linked files linked",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []fs.CopyDirOpt
		if copyCmdConfig.noLinks {
			opts = append(opts, fs.WithoutLinks())
		}
		return fs.CopyDir(args[1], args[0], opts...)
	},
}

func init() {
	CopyCmd.Flags().BoolVar(&copyCmdConfig.noLinks, "no-links", false, "copy the content of every file")
}
