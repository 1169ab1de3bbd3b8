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

package fetch

import (
	"fmt"
	"strings"
)

// MaxPath is the capacity of a BoundedPath, including the implied
// terminator of the original storage format.
const MaxPath = 256

// maximum length of an extracted file extension, including the dot.
const maxExtension = 16

// BoundedPath is a formatted path or storage key with a fixed capacity.
//
// A path that did not fit its capacity is "clamped". A clamped path
// holds a truncated prefix which is fine for display purposes but must
// never be used for I/O; every consumer performing I/O is expected to
// check Clamped() first.
type BoundedPath struct {
	str     string
	clamped bool
}

// Format replaces the path content with the formatted string, clamping
// it to the path capacity if necessary.
func (p *BoundedPath) Format(pattern string, args ...any) {
	s := fmt.Sprintf(pattern, args...)
	if len(s) >= MaxPath {
		p.str = s[:MaxPath-1]
		p.clamped = true
	} else {
		p.str = s
		p.clamped = false
	}
}

// Reset clears the path content and the clamped flag.
func (p *BoundedPath) Reset() {
	p.str = ""
	p.clamped = false
}

// Clamped is true if the most recent Format() overflowed the path
// capacity.
func (p BoundedPath) Clamped() bool {
	return p.clamped
}

func (p BoundedPath) String() string {
	return p.str
}

// Extension returns the lowercase file extension of the path, without
// the dot. Both forward and backward slashes are recognised as
// directory separators. Returns the empty string if the final path
// element has no extension.
func (p BoundedPath) Extension() string {
	tail := p.str
	if i := strings.LastIndexByte(tail, '\\'); i != -1 {
		tail = tail[i+1:]
	} else if i := strings.LastIndexByte(tail, '/'); i != -1 {
		tail = tail[i+1:]
	}

	i := strings.LastIndexByte(tail, '.')
	if i == -1 {
		return ""
	}

	ext := strings.ToLower(tail[i+1:])
	if len(ext) > maxExtension-1 {
		ext = ext[:maxExtension-1]
	}
	return ext
}
