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

package fetch_test

import (
	"strings"
	"testing"

	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/test"
)

func TestPathFormat(t *testing.T) {
	var p fetch.BoundedPath

	p.Format("%s/%s", "roms", "invaders.bin")
	test.ExpectEquality(t, p.String(), "roms/invaders.bin")
	test.ExpectFailure(t, p.Clamped())

	// formatting again replaces the content entirely
	p.Format("%s", "other.bin")
	test.ExpectEquality(t, p.String(), "other.bin")
}

func TestPathClamping(t *testing.T) {
	var p fetch.BoundedPath

	// one byte below capacity, accounting for the terminator
	p.Format("%s", strings.Repeat("a", fetch.MaxPath-1))
	test.ExpectFailure(t, p.Clamped())
	test.ExpectEquality(t, len(p.String()), fetch.MaxPath-1)

	// at capacity the path is clamped and holds a truncated prefix
	p.Format("%s", strings.Repeat("a", fetch.MaxPath))
	test.ExpectSuccess(t, p.Clamped())
	test.ExpectEquality(t, len(p.String()), fetch.MaxPath-1)

	// a successful format clears the clamped flag again
	p.Format("short")
	test.ExpectFailure(t, p.Clamped())

	// as does a reset
	p.Format("%s", strings.Repeat("a", fetch.MaxPath*2))
	test.ExpectSuccess(t, p.Clamped())
	p.Reset()
	test.ExpectFailure(t, p.Clamped())
	test.ExpectEquality(t, p.String(), "")
}

func TestPathExtension(t *testing.T) {
	var p fetch.BoundedPath

	p.Format("roms/invaders.BIN")
	test.ExpectEquality(t, p.Extension(), "bin")

	// backslash separators are recognised too
	p.Format(`C:\roms\invaders.Rom`)
	test.ExpectEquality(t, p.Extension(), "rom")

	// the extension belongs to the final path element. a dot in an
	// earlier element doesn't count
	p.Format("roms.d/invaders")
	test.ExpectEquality(t, p.Extension(), "")

	p.Format("invaders")
	test.ExpectEquality(t, p.Extension(), "")

	p.Format("archive.tar.gz")
	test.ExpectEquality(t, p.Extension(), "gz")
}
