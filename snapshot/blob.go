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
	"bytes"
	"encoding/binary"

	"github.com/chipsfs/chipsfs/crunch"
	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
)

// stored blobs carry a small envelope so a backend can tell whether
// the payload was crunched before it was written. the envelope is a
// storage detail; callers only ever see the original snapshot bytes.
//
//	offset 0  magic "chsn"
//	offset 4  envelope version
//	offset 5  flags
//	offset 6  payload size before crunching, little-endian uint32
//	offset 10 payload
var blobMagic = []byte("chsn")

const blobVersion = 1

const blobHeader = 10

// maxBlobSize is the largest blob a backend can legitimately write:
// the envelope around a payload at the ceiling. crunching only ever
// shrinks a stored payload.
const maxBlobSize = blobHeader + fetch.MaxPayload

// flag bits.
const blobCrunched = 0x01

const (
	errBlobVersion = "snapshot: unknown blob envelope version"
	errBlobShape   = "snapshot: malformed blob envelope"
)

// encodeBlob wraps snapshot bytes in the storage envelope, crunching
// the payload first if requested and worthwhile.
func encodeBlob(data []byte, compress bool) []byte {
	payload := data
	var flags byte

	if compress {
		if crunched, ok := crunch.Crunch(data); ok {
			payload = crunched
			flags |= blobCrunched
		}
	}

	blob := make([]byte, blobHeader+len(payload))
	copy(blob, blobMagic)
	blob[4] = blobVersion
	blob[5] = flags
	binary.LittleEndian.PutUint32(blob[6:], uint32(len(data)))
	copy(blob[blobHeader:], payload)
	return blob
}

// decodeBlob unwraps the storage envelope and returns the original
// snapshot bytes. A blob without the envelope magic is returned
// unchanged; it was stored by something that predates the envelope.
func decodeBlob(blob []byte) ([]byte, error) {
	if len(blob) < blobHeader || !bytes.Equal(blob[:4], blobMagic) {
		return blob, nil
	}
	if blob[4] != blobVersion {
		return nil, curated.Errorf(errBlobVersion)
	}

	// the size field comes from storage and must respect the payload
	// ceiling before it sizes an allocation
	if binary.LittleEndian.Uint32(blob[6:]) > fetch.MaxPayload {
		return nil, curated.Errorf(errBlobShape)
	}

	size := int(binary.LittleEndian.Uint32(blob[6:]))
	payload := blob[blobHeader:]

	if blob[5]&blobCrunched == blobCrunched {
		data, err := crunch.Decrunch(payload, size)
		if err != nil {
			return nil, curated.Errorf(errIO, err)
		}
		return data, nil
	}

	if len(payload) != size {
		return nil, curated.Errorf(errBlobShape)
	}
	return payload, nil
}
