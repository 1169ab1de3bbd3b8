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
	"sync"

	"go.etcd.io/bbolt"

	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
)

// KVBackend stores every snapshot slot in a single key-value database
// file, one record per (system, index) pair. The database and its
// store bucket are created lazily on first access.
//
// This is the stand-in for browser-hosted targets, where snapshots
// live in a key-value store whose memory the application cannot
// address directly. The same rule applies here: values read from the
// store are only valid inside the read transaction, so they are copied
// into locally owned memory before the load callback ever sees them.
type KVBackend struct {
	path     string
	compress bool

	openOnce sync.Once
	db       *bbolt.DB
	openErr  error

	completions chan completion
}

var kvBucket = []byte("store")

const errKVNotFound = "snapshot: no such slot in store"

// NewKVBackend is the preferred method of initialisation for the
// KVBackend type. The path names the database file; it is not created
// until the first save or load.
func NewKVBackend(path string, compress bool) *KVBackend {
	return &KVBackend{
		path:        path,
		compress:    compress,
		completions: make(chan completion, maxLoads),
	}
}

// kvKey returns the deterministic store key for a snapshot slot.
func kvKey(system string, index int) fetch.BoundedPath {
	var p fetch.BoundedPath
	p.Format("%s_%d", system, index)
	return p
}

// open the database on first use. subsequent calls return the same
// database or the same error.
func (b *KVBackend) open() (*bbolt.DB, error) {
	b.openOnce.Do(func() {
		b.db, b.openErr = bbolt.Open(b.path, 0600, nil)
	})
	return b.db, b.openErr
}

// Close releases the database file. Further saves and loads will fail.
func (b *KVBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Save implements the Backend interface.
func (b *KVBackend) Save(system string, index int, data []byte) error {
	if system == "" || len(data) == 0 {
		return curated.Errorf(errNothing)
	}
	if len(data) > fetch.MaxPayload {
		return curated.Errorf(errTooLarge)
	}

	key := kvKey(system, index)
	if key.Clamped() {
		return curated.Errorf(errPathClamped)
	}

	db, err := b.open()
	if err != nil {
		return curated.Errorf(errIO, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(kvBucket)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key.String()), encodeBlob(data, b.compress))
	})
	if err != nil {
		return curated.Errorf(errIO, err)
	}
	return nil
}

// Load implements the Backend interface.
func (b *KVBackend) Load(system string, index int, callback LoadCallback) error {
	if callback == nil {
		panic("nil snapshot load callback")
	}

	key := kvKey(system, index)
	if key.Clamped() {
		return curated.Errorf(errPathClamped)
	}

	ctx := &loadContext{index: index, callback: callback}
	go func() {
		db, err := b.open()
		if err != nil {
			b.completions <- completion{ctx: ctx, err: curated.Errorf(errIO, err)}
			return
		}

		var blob []byte
		err = db.View(func(tx *bbolt.Tx) error {
			bkt := tx.Bucket(kvBucket)
			if bkt == nil {
				return curated.Errorf(errKVNotFound)
			}
			v := bkt.Get([]byte(key.String()))
			if v == nil {
				return curated.Errorf(errKVNotFound)
			}
			// the store owns v and it is only valid inside this
			// transaction. copy before anything outside can see it
			blob = append([]byte(nil), v...)
			return nil
		})
		b.completions <- completion{ctx: ctx, blob: blob, err: err}
	}()
	return nil
}

// Poll implements the Backend interface.
func (b *KVBackend) Poll() {
	for {
		select {
		case comp := <-b.completions:
			resolveBlob(comp)
		default:
			return
		}
	}
}
