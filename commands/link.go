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
	"github.com/containerd/posixcompat"
	"github.com/spf13/cobra"
)

var linkCmdConfig struct {
	symbolic bool
}

var LinkCmd = &cobra.Command{
	Use:   "link [--symbolic] <source> <target>",
	Short: "Create target as an emulated link to source",
	Long: `Create target as a copy of source, the way links are emulated on
platforms without POSIX link semantics. A relative source that does not
exist is resolved against the directory of target.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if linkCmdConfig.symbolic {
			return posixcompat.MakeSymlink(args[0], args[1])
		}
		return posixcompat.MakeLink(args[0], args[1])
	},
}

func init() {
	LinkCmd.Flags().BoolVarP(&linkCmdConfig.symbolic, "symbolic", "s", false, "emulate a symbolic link")
}
