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
	"fmt"

	"github.com/containerd/posixcompat"
	"github.com/spf13/cobra"
)

var IdentCmd = &cobra.Command{
	Use:   "ident <path>...",
	Short: "Print the derived file identity of each path",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := newTabwriter(cmd.OutOrStdout())
		for _, p := range args {
			id, ok := posixcompat.DeriveIdentityPath(p)
			if !ok {
				fmt.Fprintf(w, "unavailable\t%s\n", p)
				continue
			}
			fmt.Fprintf(w, "%v\t%s\n", id, p)
		}
		return w.Flush()
	},
}
