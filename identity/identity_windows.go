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

package identity

import (
	"encoding/binary"
	"os"

	"github.com/Microsoft/go-winio"
	"github.com/containerd/posixcompat/sysx"
)

// referenceOf reads the legacy 64-bit file index. Volumes with 128-bit file
// ids (ReFS) may report a zero index; for an *os.File the low half of the
// extended id is used instead.
func referenceOf(f sysx.File) (sysx.Reference, error) {
	ref, err := sysx.ReferenceOf(sysx.HandleOf(f))
	if err != nil || ref.Index != 0 {
		return ref, err
	}
	of, ok := f.(*os.File)
	if !ok {
		return ref, nil
	}
	id, err := winio.GetFileID(of)
	if err != nil {
		return ref, nil
	}
	ref.Index = binary.LittleEndian.Uint64(id.FileID[:8])
	ref.Volume = uint32(id.VolumeSerialNumber)
	return ref, nil
}
