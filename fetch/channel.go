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

// MaxPayload is the maximum number of bytes a channel can hold. Loads
// that would exceed it fail outright, they are never partial.
const MaxPayload = 2024 * 1024

// ChannelID identifies one channel of an FS instance. The application
// decides what each channel is for.
type ChannelID int

// channel is one unit of async-load state. the backing buffer is
// allocated once and reused for every load on the channel.
type channel struct {
	path   BoundedPath
	result Result

	// view into buf when result is Success. nil otherwise
	data []byte
	size int

	// one byte larger than MaxPayload. after a successful load the byte
	// immediately past the payload is set to zero so that a text
	// payload can be consumed as a terminated string
	buf []byte

	// request generation. incremented by reset() so that a completion
	// belonging to an abandoned load can be told apart from the
	// completion of a load started after the reset
	gen uint64
}

// reset returns the channel to Idle and abandons any pending load.
// idempotent with respect to the observable channel state.
func (c *channel) reset() {
	c.path.Reset()
	c.result = Idle
	c.data = nil
	c.size = 0
	c.gen++
}

// setPayload accepts size bytes already present in buf as the
// channel's payload. the spare byte past the payload is zeroed so text
// payloads read as terminated strings.
func (c *channel) setPayload(size int) {
	if size >= len(c.buf) {
		// the bounds check belongs before any write to the buffer. if
		// an oversized payload gets this far something upstream is
		// broken
		panic("payload exceeds channel buffer capacity")
	}
	c.size = size
	c.buf[c.size] = 0
	c.data = c.buf[:c.size]
	c.result = Success
}
