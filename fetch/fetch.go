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
	"crypto/sha1"
	"fmt"

	"github.com/chipsfs/chipsfs/logger"
)

// FS owns a fixed set of channels and the completion queue that
// resolves asynchronous loads. It is created once, at application
// startup, and passed to every subsystem that loads payloads.
//
// FS is confined to a single goroutine. All state changes happen
// inside the public API or inside Poll(); the worker goroutines
// started by the async load functions never touch channel state.
type FS struct {
	channels    []channel
	completions chan completion
}

// NewFS is the preferred method of initialisation for the FS type. The
// number of channels is fixed for the lifetime of the instance.
func NewFS(numChannels int) *FS {
	fsys := &FS{
		channels:    make([]channel, numChannels),
		completions: make(chan completion, maxRequests),
	}
	for i := range fsys.channels {
		fsys.channels[i].buf = make([]byte, MaxPayload+1)
	}
	return fsys
}

// NumChannels returns the number of channels the FS was created with.
func (fsys *FS) NumChannels() int {
	return len(fsys.channels)
}

func (fsys *FS) channel(chn ChannelID) *channel {
	if chn < 0 || int(chn) >= len(fsys.channels) {
		panic(fmt.Sprintf("no such fetch channel (%d)", chn))
	}
	return &fsys.channels[chn]
}

// Reset returns the channel to Idle, forgetting any loaded data and
// abandoning any pending load. The abandoned load is not stopped but
// its eventual completion will be discarded.
func (fsys *FS) Reset(chn ChannelID) {
	fsys.channel(chn).reset()
}

// LoadBase64 decodes an inline base64 payload into the channel.
// Decoding is synchronous; the channel is Success or Failed on return.
// The name argument is only used for display and extension queries.
func (fsys *FS) LoadBase64(chn ChannelID, name string, payload string) bool {
	c := fsys.channel(chn)
	c.reset()
	c.path.Format("%s", name)
	if err := c.decodeBase64(payload); err != nil {
		logger.Logf(logger.Allow, "fetch", "%s: %v", name, err)
		c.result = Failed
		return false
	}
	c.setPayload(c.size)
	return true
}

// Result returns the state of the channel's current operation. This
// and the other query functions never block.
func (fsys *FS) Result(chn ChannelID) Result {
	return fsys.channel(chn).result
}

// IsSuccess returns true if the channel's most recent load succeeded.
func (fsys *FS) IsSuccess(chn ChannelID) bool {
	return fsys.Result(chn) == Success
}

// IsFailed returns true if the channel's most recent load failed.
func (fsys *FS) IsFailed(chn ChannelID) bool {
	return fsys.Result(chn) == Failed
}

// IsPending returns true if the channel has a load in flight.
func (fsys *FS) IsPending(chn ChannelID) bool {
	return fsys.Result(chn) == Pending
}

// Data returns the loaded payload. The returned slice is empty unless
// the channel is in the Success state. The slice aliases the channel
// buffer and is only valid until the next load or reset on the
// channel.
func (fsys *FS) Data(chn ChannelID) []byte {
	c := fsys.channel(chn)
	if c.result != Success {
		return nil
	}
	return c.data
}

// Filename returns the display name of the channel's current payload.
func (fsys *FS) Filename(chn ChannelID) string {
	return fsys.channel(chn).path.String()
}

// HasExtension compares the lowercase extension of the channel's
// filename with ext.
func (fsys *FS) HasExtension(chn ChannelID, ext string) bool {
	return fsys.channel(chn).path.Extension() == ext
}

// Hash returns the SHA1 hash of the loaded payload, or the empty
// string if the channel is not in the Success state.
func (fsys *FS) Hash(chn ChannelID) string {
	c := fsys.channel(chn)
	if c.result != Success {
		return ""
	}
	return fmt.Sprintf("%x", sha1.Sum(c.data))
}
