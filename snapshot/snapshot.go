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

// Package snapshot saves and restores versioned binary snapshot blobs
// for an emulated system.
//
// A snapshot is identified by the name of the emulated system and a
// slot index. The same (system, index) pair always maps to the same
// storage location, so saving and then loading a slot is idempotent.
//
// Three interchangeable backends implement the save/load contract:
// FileBackend writes one file per slot, ChannelBackend does the same
// but routes loads through a dedicated fetch channel, and KVBackend
// keeps all slots in a single key-value database. The backend is
// chosen once at configuration time; call sites only see the Backend
// interface.
//
// Saves are synchronous. Loads are asynchronous: the callback supplied
// to Load() fires exactly once, during a future Poll(), with the
// result and the snapshot bytes. The package does not interpret the
// bytes; checking a loaded snapshot's declared version and size
// against expectations is the caller's job.
package snapshot

import (
	"github.com/chipsfs/chipsfs/fetch"
)

// error patterns for the snapshot package.
const (
	errPathClamped = "snapshot: storage key too long"
	errNothing     = "snapshot: nothing to save"
	errTooLarge    = "snapshot: payload exceeds maximum size"
	errIO          = "snapshot: %v"
)

// maximum number of unresolved load completions per backend.
const maxLoads = 128

// Response is handed to the LoadCallback of a completed snapshot load.
// Data is empty unless Result is Success.
type Response struct {
	Index  int
	Result fetch.Result
	Data   []byte
}

// LoadCallback receives the result of an asynchronous snapshot load.
// It is invoked exactly once, on the goroutine calling Poll().
type LoadCallback func(Response)

// Backend is the common contract of the three snapshot storage
// strategies.
type Backend interface {
	// Save writes the snapshot bytes under the slot's deterministic
	// key. Saving nothing, an over-long key or an I/O problem all
	// return an error.
	Save(system string, index int, data []byte) error

	// Load begins an asynchronous fetch of the slot. A non-nil error
	// means nothing was scheduled and the callback will never fire.
	// Otherwise the callback fires exactly once during a future
	// Poll(), with a Failed result if the slot has never been saved.
	Load(system string, index int, callback LoadCallback) error

	// Poll resolves completed loads. Call once per application loop
	// iteration. Never blocks.
	Poll()
}

// Path returns the deterministic storage location of a snapshot slot
// under the given base directory.
func Path(dir string, system string, index int) fetch.BoundedPath {
	var p fetch.BoundedPath
	p.Format("%s/chips_%s_snapshot_%d", dir, system, index)
	return p
}

// loadContext is the single-shot state of one in-flight load. it is
// created by Load(), owned by the pending operation and released when
// the callback has fired.
type loadContext struct {
	index    int
	callback LoadCallback
}

// fire invokes the context's callback, exactly once. data is dropped
// unless the result is Success.
func (ctx *loadContext) fire(result fetch.Result, data []byte) {
	callback := ctx.callback
	ctx.callback = nil
	if callback == nil {
		panic("snapshot load context fired twice")
	}
	if result != fetch.Success {
		data = nil
	}
	callback(Response{
		Index:  ctx.index,
		Result: result,
		Data:   data,
	})
}

// completion is the record a load worker delivers to Poll(). the blob
// is still in its stored form; decoding happens on the polling
// goroutine.
type completion struct {
	ctx  *loadContext
	blob []byte
	err  error
}
