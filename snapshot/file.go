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
	"io"
	"os"

	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/logger"
)

// FileBackend stores one file per snapshot slot under a base
// directory. Saves are synchronous file writes; loads read the file on
// a worker goroutine and resolve during Poll().
type FileBackend struct {
	dir         string
	compress    bool
	completions chan completion
}

// NewFileBackend is the preferred method of initialisation for the
// FileBackend type.
func NewFileBackend(dir string, compress bool) *FileBackend {
	return &FileBackend{
		dir:         dir,
		compress:    compress,
		completions: make(chan completion, maxLoads),
	}
}

// saveFile is the synchronous save shared by FileBackend and
// ChannelBackend.
func saveFile(dir string, system string, index int, data []byte, compress bool) error {
	if system == "" || len(data) == 0 {
		return curated.Errorf(errNothing)
	}
	if len(data) > fetch.MaxPayload {
		return curated.Errorf(errTooLarge)
	}

	p := Path(dir, system, index)
	if p.Clamped() {
		return curated.Errorf(errPathClamped)
	}

	if err := os.WriteFile(p.String(), encodeBlob(data, compress), 0600); err != nil {
		return curated.Errorf(errIO, err)
	}
	return nil
}

// Save implements the Backend interface.
func (b *FileBackend) Save(system string, index int, data []byte) error {
	return saveFile(b.dir, system, index, data, b.compress)
}

// Load implements the Backend interface.
func (b *FileBackend) Load(system string, index int, callback LoadCallback) error {
	if callback == nil {
		panic("nil snapshot load callback")
	}

	p := Path(b.dir, system, index)
	if p.Clamped() {
		return curated.Errorf(errPathClamped)
	}

	ctx := &loadContext{index: index, callback: callback}
	go func() {
		blob, err := readBlobFile(p.String())
		b.completions <- completion{ctx: ctx, blob: blob, err: err}
	}()
	return nil
}

// readBlobFile reads a snapshot file, refusing anything larger than
// the biggest blob a backend can legitimately write.
func readBlobFile(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	blob, err := io.ReadAll(io.LimitReader(f, maxBlobSize+1))
	if err != nil {
		return nil, err
	}
	if len(blob) > maxBlobSize {
		return nil, curated.Errorf(errTooLarge)
	}
	return blob, nil
}

// Poll implements the Backend interface.
func (b *FileBackend) Poll() {
	for {
		select {
		case comp := <-b.completions:
			resolveBlob(comp)
		default:
			return
		}
	}
}

// resolveBlob unwraps a completed load and fires its callback. shared
// by the file and key-value backends.
func resolveBlob(comp completion) {
	if comp.err != nil {
		logger.Logf(logger.Allow, "snapshot", "load of slot %d: %v", comp.ctx.index, comp.err)
		comp.ctx.fire(fetch.Failed, nil)
		return
	}

	data, err := decodeBlob(comp.blob)
	if err != nil {
		logger.Logf(logger.Allow, "snapshot", "load of slot %d: %v", comp.ctx.index, err)
		comp.ctx.fire(fetch.Failed, nil)
		return
	}
	if len(data) > fetch.MaxPayload {
		logger.Logf(logger.Allow, "snapshot", "load of slot %d: %v", comp.ctx.index, curated.Errorf(errTooLarge))
		comp.ctx.fire(fetch.Failed, nil)
		return
	}

	comp.ctx.fire(fetch.Success, data)
}
