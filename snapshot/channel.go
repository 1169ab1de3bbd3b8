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

package snapshot

import (
	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/logger"
)

// ChannelBackend stores snapshots like FileBackend but routes loads
// through one channel of a fetch.FS, dedicated to snapshot traffic by
// the application. The channel holds one operation at a time so loads
// are queued and issued in turn.
type ChannelBackend struct {
	fsys     *fetch.FS
	chn      fetch.ChannelID
	dir      string
	compress bool

	// head of the queue is the in-flight load
	queue []*queuedLoad
}

type queuedLoad struct {
	ctx  *loadContext
	path string
}

// NewChannelBackend is the preferred method of initialisation for the
// ChannelBackend type. The channel must be dedicated to the backend;
// loading anything else through it will confuse the queue.
func NewChannelBackend(fsys *fetch.FS, chn fetch.ChannelID, dir string, compress bool) *ChannelBackend {
	return &ChannelBackend{
		fsys:     fsys,
		chn:      chn,
		dir:      dir,
		compress: compress,
	}
}

// Save implements the Backend interface.
func (b *ChannelBackend) Save(system string, index int, data []byte) error {
	return saveFile(b.dir, system, index, data, b.compress)
}

// Load implements the Backend interface.
func (b *ChannelBackend) Load(system string, index int, callback LoadCallback) error {
	if callback == nil {
		panic("nil snapshot load callback")
	}

	p := Path(b.dir, system, index)
	if p.Clamped() {
		return curated.Errorf(errPathClamped)
	}

	b.queue = append(b.queue, &queuedLoad{
		ctx:  &loadContext{index: index, callback: callback},
		path: p.String(),
	})
	if len(b.queue) == 1 {
		b.fsys.LoadFileAsync(b.chn, b.queue[0].path)
	}
	return nil
}

// Poll implements the Backend interface. It also drives the
// underlying fetch.FS, which is harmless if the application polls the
// FS itself as well.
func (b *ChannelBackend) Poll() {
	b.fsys.Poll()

	if len(b.queue) == 0 {
		return
	}

	switch b.fsys.Result(b.chn) {
	case fetch.Pending:
		// in flight. nothing to do

	case fetch.Idle:
		// the channel was reset under our feet, abandoning the head of
		// the queue. reissue it
		logger.Logf(logger.Allow, "snapshot", "reissuing load of %s", b.queue[0].path)
		b.fsys.LoadFileAsync(b.chn, b.queue[0].path)

	case fetch.Success:
		resolveBlob(completion{ctx: b.queue[0].ctx, blob: b.fsys.Data(b.chn)})
		b.advance()

	case fetch.Failed:
		b.queue[0].ctx.fire(fetch.Failed, nil)
		b.advance()
	}
}

// advance retires the head of the queue and issues the next load, if
// any.
func (b *ChannelBackend) advance() {
	b.fsys.Reset(b.chn)
	b.queue = b.queue[1:]
	if len(b.queue) > 0 {
		b.fsys.LoadFileAsync(b.chn, b.queue[0].path)
	}
}
