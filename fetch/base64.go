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
	"github.com/chipsfs/chipsfs/curated"
)

// error patterns for the base64 decoder.
const (
	errBase64Length   = "base64: symbol count is zero or not a multiple of four"
	errBase64Capacity = "base64: decoded payload too large for channel buffer"
	errBase64Padding  = "base64: invalid padding"
)

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// the invalid marker for the reverse lookup table. no alphabet symbol
// decodes to this value
const base64Invalid = 0x80

// reverse lookup table mapping the 64 alphabet characters to their
// six-bit value and '=' to zero. every other byte is invalid
var base64Reverse [256]byte

func init() {
	for i := range base64Reverse {
		base64Reverse[i] = base64Invalid
	}
	for i := 0; i < len(base64Alphabet); i++ {
		base64Reverse[base64Alphabet[i]] = byte(i)
	}
	base64Reverse['='] = 0
}

// decodeBase64 decodes src into the channel buffer, starting at the
// channel's current size. bytes that are not part of the base64
// alphabet (whitespace, newlines, etc) are skipped.
//
// the expected output length is checked against the remaining buffer
// capacity before anything is written. on error the buffer is
// untouched.
func (c *channel) decodeBase64(src string) error {
	// count the symbols that take part in decoding
	count := 0
	for i := 0; i < len(src); i++ {
		if base64Reverse[src[i]] != base64Invalid {
			count++
		}
	}

	// input length must be a multiple of four
	if count == 0 || count%4 != 0 {
		return curated.Errorf(errBase64Length)
	}

	// expected output length, checked before any write. the spare
	// terminator byte at the end of the buffer is never written by the
	// decoder
	olen := (count / 4) * 3
	if olen > len(c.buf)-c.size-1 {
		return curated.Errorf(errBase64Capacity)
	}

	size := c.size
	pad := 0
	var block [4]byte
	var n int

	for i := 0; i < len(src); i++ {
		v := base64Reverse[src[i]]
		if v == base64Invalid {
			continue
		}
		if src[i] == '=' {
			pad++
		}
		block[n] = v
		n++
		if n == 4 {
			n = 0
			c.buf[size] = block[0]<<2 | block[1]>>4
			c.buf[size+1] = block[1]<<4 | block[2]>>2
			c.buf[size+2] = block[2]<<6 | block[3]
			size += 3
			if pad > 0 {
				if pad > 2 {
					return curated.Errorf(errBase64Padding)
				}
				// the padded positions were never real output. decoding
				// stops at the padded group even if input remains
				size -= pad
				break
			}
		}
	}

	c.size = size
	return nil
}
