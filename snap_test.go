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

package main

import (
	"testing"

	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/snapshot"
	"github.com/chipsfs/chipsfs/test"
)

func TestSlotEnvelope(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}

	blob := wrapSlot(payload)
	test.ExpectEquality(t, len(blob), slotHeaderSize+len(payload))

	data, err := unwrapSlot(blob)
	test.DemandSuccess(t, err)
	test.ExpectedBytes(t, data, payload)

	// a slot with a different version word is rejected
	blob = wrapSlot(payload)
	blob[4]++
	data, err = unwrapSlot(blob)
	test.DemandFailure(t, err)
	test.ExpectEquality(t, len(data), 0)

	// as is anything too short or without the magic number
	_, err = unwrapSlot([]byte("CS"))
	test.ExpectFailure(t, err)
	_, err = unwrapSlot([]byte("not a snapshot slot"))
	test.ExpectFailure(t, err)
}

// probing a system's slots finds the occupied ones and reports the
// rest as Failed, the way a front-end fills its slot list at startup.
func TestProbeSlots(t *testing.T) {
	backend := snapshot.NewFileBackend(t.TempDir(), false)

	saved := map[int][]byte{
		1: []byte("slot one"),
		3: []byte("slot three"),
	}
	for i, payload := range saved {
		test.DemandSuccess(t, backend.Save("z1013", i, wrapSlot(payload)))
	}

	responses, err := probeSlots(backend, "z1013", maxSlots)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(responses), maxSlots)

	for i, r := range responses {
		payload, ok := saved[i]
		if !ok {
			test.ExpectEquality(t, r.Result, fetch.Failed)
			continue
		}

		test.DemandEquality(t, r.Result, fetch.Success)
		data, err := unwrapSlot(r.Data)
		test.DemandSuccess(t, err)
		test.ExpectedBytes(t, data, payload)
	}
}
