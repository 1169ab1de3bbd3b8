// This file is part of ChipsFS.
//
// ChipsFS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChipsFS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ChipsFS.  If not, see <https://www.gnu.org/licenses/>.

// Package crunch shrinks snapshot payloads with a very simple run
// length encoding. Emulated-system snapshots are dominated by long
// runs of identical bytes (empty RAM, cleared video memory) so even
// this basic scheme pays for itself, and both directions run in a
// single pass with no allocation surprises.
//
// The crunched stream is a sequence of pairs: a byte value followed by
// a repeat count. A count of zero means the value appears once; the
// maximum count is 255. A crunched stream therefore always has an even
// number of bytes.
package crunch

import (
	"github.com/chipsfs/chipsfs/curated"
)

const (
	errOddStream = "crunch: stream has an odd number of bytes"
	errWrongSize = "crunch: stream does not decrunch to the expected size"
	errEmptySize = "crunch: expected size is zero"
)

// Crunch encodes src. The second return value is false if the encoded
// form would be no smaller than src, in which case the caller should
// store src as it is. src is never modified.
func Crunch(src []byte) ([]byte, bool) {
	if len(src) == 0 {
		return nil, false
	}

	out := make([]byte, 0, len(src))
	out = append(out, src[0])
	run := src[0]
	ct := 0

	for _, v := range src[1:] {
		if v == run && ct < 255 {
			ct++
			continue
		}
		out = append(out, byte(ct), v)
		run = v
		ct = 0
	}
	out = append(out, byte(ct))

	if len(out) >= len(src) {
		return nil, false
	}
	return out, true
}

// Decrunch decodes a crunched stream. The expected decoded size must
// be supplied; a stream that decodes to any other size is an error and
// no partial output is returned.
func Decrunch(src []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, curated.Errorf(errEmptySize)
	}
	if len(src)%2 != 0 {
		return nil, curated.Errorf(errOddStream)
	}

	out := make([]byte, 0, size)
	for i := 0; i < len(src); i += 2 {
		n := int(src[i+1]) + 1
		if len(out)+n > size {
			return nil, curated.Errorf(errWrongSize)
		}
		for r := 0; r < n; r++ {
			out = append(out, src[i])
		}
	}

	if len(out) != size {
		return nil, curated.Errorf(errWrongSize)
	}
	return out, nil
}
