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

// Package curated is a helper package for the plain Go language error
// type. Curated errors are created with the Errorf() function, which
// takes a formatting pattern and placeholder values, like Errorf() in
// the fmt package.
//
// The difference is that the pattern string also acts as the error's
// identity. The Is() function checks whether an error was created with
// a given pattern:
//
//	e := curated.Errorf("decode: %v", v)
//
//	if curated.Is(e, "decode: %v") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks whether the pattern occurs
// anywhere in the chain of wrapped curated errors.
//
// All expected failure conditions in this project travel as curated
// errors; panics are reserved for programming errors.
package curated
