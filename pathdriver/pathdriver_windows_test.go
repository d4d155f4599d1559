//go:build windows
// +build windows

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

package pathdriver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWindowsSeparators(t *testing.T) {
	require.True(t, IsSeparator('/'))
	require.True(t, IsSeparator('\\'))

	tests := []struct {
		path     string
		expected string
	}{
		{path: `b\c.txt`, expected: `b`},
		{path: `a/b\c.txt`, expected: `a/b`},
		{path: `a\b/c.txt`, expected: `a\b`},
		{path: `C:\c.txt`, expected: `C:\`},
		{path: `C:c.txt`, expected: `C:`},
		{path: `C:\x\y.txt`, expected: `C:\x`},
		{path: `\\server\share\a.txt`, expected: `\\server\share\`},
	}
	for _, tc := range tests {
		require.Equal(t, tc.expected, Dir(tc.path), tc.path)
	}
}
