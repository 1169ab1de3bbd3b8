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

// Package fetch loads byte payloads into a fixed set of channels
// without blocking the caller's main loop.
//
// A channel is a reusable slot holding the state of one load operation
// and its destination buffer. Channels are created once, when the FS
// type is initialised, and are reused for the lifetime of the FS
// instance. Payloads can come from a local file, an http(s) URL, an
// io.Reader (for example, a file dropped onto the application window)
// or an inline base64 string.
//
// None of the load functions block. Asynchronous loads are resolved by
// the Poll() function, which the application must call once per loop
// iteration. All channel state changes happen either directly inside a
// load function or inside Poll(), on the calling goroutine, so queries
// never race with completions.
//
// The typical usage pattern, once per frame:
//
//	fsys.Poll()
//	if fsys.IsSuccess(channel) {
//		consume(fsys.Data(channel))
//		fsys.Reset(channel)
//	} else if fsys.IsFailed(channel) {
//		flashError()
//		fsys.Reset(channel)
//	}
//
// There is no cancellation. Resetting a channel abandons any pending
// operation; a completion arriving for an abandoned operation is
// discarded, it can never be misattributed to a load that was started
// after the reset.
package fetch
