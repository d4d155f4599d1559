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
	"time"

	"github.com/containerd/posixcompat"
	"github.com/containerd/posixcompat/filetime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var touchCmdConfig struct {
	atime string
	mtime string
}

var TouchCmd = &cobra.Command{
	Use:   "touch [--atime <time>] [--mtime <time>] <path>",
	Short: "Set the access and modification times of a file",
	Long: `Set the access and modification times of a file or directory. Times
are given in RFC 3339 format and default to the current time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		atime, err := parseTime(touchCmdConfig.atime, now)
		if err != nil {
			return errors.Wrap(err, "invalid --atime")
		}
		mtime, err := parseTime(touchCmdConfig.mtime, now)
		if err != nil {
			return errors.Wrap(err, "invalid --mtime")
		}
		return posixcompat.SetTimesPath(args[0], filetime.Times{
			Access: filetime.FromTime(atime),
			Modify: filetime.FromTime(mtime),
		})
	},
}

func init() {
	TouchCmd.Flags().StringVar(&touchCmdConfig.atime, "atime", "", "access time")
	TouchCmd.Flags().StringVar(&touchCmdConfig.mtime, "mtime", "", "modification time")
}

func parseTime(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
