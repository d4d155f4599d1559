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
	"time"

	"github.com/containerd/posixcompat/identity"
	"github.com/containerd/posixcompat/sysx"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var StatCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Print the augmented stat record of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var st sysx.Stat_t
		if err := identity.StatPath(args[0], &st); err != nil {
			return err
		}

		w := newTabwriter(cmd.OutOrStdout())
		fmt.Fprintf(w, "path\t%s\n", args[0])
		fmt.Fprintf(w, "device\t%d\n", st.Dev)
		fmt.Fprintf(w, "inode\t%d\n", st.Ino)
		fmt.Fprintf(w, "mode\t%v\n", st.Mode)
		fmt.Fprintf(w, "links\t%d\n", st.Nlink)
		fmt.Fprintf(w, "size\t%s (%d bytes)\n", humanize.IBytes(uint64(st.Size)), st.Size)
		fmt.Fprintf(w, "access\t%s\n", formatTime(st.Atim))
		fmt.Fprintf(w, "modify\t%s\n", formatTime(st.Mtim))
		fmt.Fprintf(w, "change\t%s\n", formatTime(st.Ctim))
		return w.Flush()
	},
}

func formatTime(nsec int64) string {
	t := time.Unix(0, nsec)
	return fmt.Sprintf("%s (%s)", t.Format(time.RFC3339Nano), humanize.Time(t))
}
