//go:build !windows

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

package wchar

import (
	"testing"
	"unicode/utf16"

	"github.com/containerd/posixcompat/errdefs"
	"github.com/stretchr/testify/require"
)

func TestFromMultiByteUTF8(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want int
	}{
		{"latin", "café", 4},
		{"cjk", "文件", 2},
		{"astral", "\U0001f4e6.tar", 6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n, err := FromMultiByte(nil, []byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, n)

			dst := make([]uint16, n)
			n, err = FromMultiByte(dst, []byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, n)
			require.Equal(t, tc.in, string(utf16.Decode(dst)))
		})
	}
}

func TestFromMultiByteInvalid(t *testing.T) {
	for _, in := range [][]byte{
		{0xff},
		{'a', 0xc3},
		{0xed, 0xa0, 0x80},
	} {
		_, err := FromMultiByte(nil, in)
		require.ErrorIs(t, err, errdefs.ErrInvalidArgument, "%x", in)
	}
}

func TestFromMultiByteKeepsSurrogatePairs(t *testing.T) {
	dst := make([]uint16, 2)
	n, err := FromMultiByte(dst, []byte("a\U0001f4e6"))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, uint16('a'), dst[0])
}
