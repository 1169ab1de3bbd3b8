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

package fetch_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/test"
)

// pollFor drives Poll() until the channel resolves or the deadline
// passes. tests use a generous deadline; a correct implementation
// resolves in a handful of iterations.
func pollFor(t *testing.T, fsys *fetch.FS, chn fetch.ChannelID) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for fsys.IsPending(chn) {
		if time.Now().After(deadline) {
			t.Fatalf("channel %d did not resolve", chn)
		}
		fsys.Poll()
		time.Sleep(time.Millisecond)
	}
}

func TestLoadFileAsync(t *testing.T) {
	fsys := fetch.NewFS(2)

	fn := filepath.Join(t.TempDir(), "invaders.bin")
	content := []byte{0x01, 0x02, 0x03, 0xff, 0x00, 0x7f}
	test.DemandSuccess(t, os.WriteFile(fn, content, 0600))

	fsys.LoadFileAsync(0, fn)
	test.ExpectSuccess(t, fsys.IsPending(0))

	// queries on a pending channel return nothing
	test.ExpectEquality(t, len(fsys.Data(0)), 0)
	test.ExpectEquality(t, fsys.Hash(0), "")

	pollFor(t, fsys, 0)

	test.ExpectSuccess(t, fsys.IsSuccess(0))
	test.ExpectedBytes(t, fsys.Data(0), content)
	test.ExpectEquality(t, fsys.Filename(0), fn)
	test.ExpectSuccess(t, fsys.HasExtension(0, "bin"))
	test.ExpectFailure(t, fsys.HasExtension(0, "rom"))
	test.ExpectInequality(t, fsys.Hash(0), "")
}

func TestLoadFileAsyncMissing(t *testing.T) {
	fsys := fetch.NewFS(1)

	fsys.LoadFileAsync(0, filepath.Join(t.TempDir(), "no-such-file"))
	pollFor(t, fsys, 0)

	test.ExpectSuccess(t, fsys.IsFailed(0))
	test.ExpectEquality(t, len(fsys.Data(0)), 0)
}

func TestLoadFileAsyncClampedPath(t *testing.T) {
	fsys := fetch.NewFS(1)

	// a path that overflows the bounded path must never reach the
	// engine
	fsys.LoadFileAsync(0, strings.Repeat("a", fetch.MaxPath*2))
	test.ExpectSuccess(t, fsys.IsFailed(0))
}

func TestLoadReaderAsync(t *testing.T) {
	fsys := fetch.NewFS(1)

	fsys.LoadReaderAsync(0, "dropped.txt", strings.NewReader("10 PRINT\n"))
	pollFor(t, fsys, 0)

	test.ExpectSuccess(t, fsys.IsSuccess(0))
	test.ExpectedBytes(t, fsys.Data(0), []byte("10 PRINT\n"))
	test.ExpectSuccess(t, fsys.HasExtension(0, "txt"))
}

func TestLoadReaderAsyncTooLarge(t *testing.T) {
	fsys := fetch.NewFS(1)

	// one byte over the ceiling fails, it is never truncated
	r := io.LimitReader(neverEndingReader{}, fetch.MaxPayload+1)
	fsys.LoadReaderAsync(0, "big.bin", r)
	pollFor(t, fsys, 0)

	test.ExpectSuccess(t, fsys.IsFailed(0))
	test.ExpectEquality(t, len(fsys.Data(0)), 0)
}

type neverEndingReader struct{}

func (neverEndingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0xea
	}
	return len(p), nil
}

func TestResetIdempotent(t *testing.T) {
	fsys := fetch.NewFS(1)

	fsys.LoadBase64(0, "demo.bin", "aGVsbG8=")
	test.ExpectSuccess(t, fsys.IsSuccess(0))

	fsys.Reset(0)
	test.ExpectEquality(t, fsys.Result(0), fetch.Idle)
	test.ExpectEquality(t, fsys.Filename(0), "")
	test.ExpectEquality(t, len(fsys.Data(0)), 0)

	// a second reset observes exactly the same state
	fsys.Reset(0)
	test.ExpectEquality(t, fsys.Result(0), fetch.Idle)
	test.ExpectEquality(t, fsys.Filename(0), "")
	test.ExpectEquality(t, len(fsys.Data(0)), 0)
}

func TestLoadReplacesPreviousResult(t *testing.T) {
	fsys := fetch.NewFS(1)

	fsys.LoadBase64(0, "first.bin", "aGVsbG8=")
	test.ExpectedBytes(t, fsys.Data(0), []byte("hello"))

	// starting a new load on a successful channel forgets the old
	// result entirely, even when the new load fails
	fsys.LoadBase64(0, "second.bin", "abc")
	test.ExpectSuccess(t, fsys.IsFailed(0))
	test.ExpectEquality(t, len(fsys.Data(0)), 0)
	test.ExpectEquality(t, fsys.Filename(0), "second.bin")
}

// a reader that blocks until released. used to hold an async load in
// flight while the test manipulates the channel
type gatedReader struct {
	gate    chan struct{}
	content io.Reader
}

func (r *gatedReader) Read(p []byte) (int, error) {
	<-r.gate
	return r.content.Read(p)
}

func TestLateCompletionAfterReset(t *testing.T) {
	fsys := fetch.NewFS(1)

	gate := make(chan struct{})
	fsys.LoadReaderAsync(0, "abandoned.bin", &gatedReader{
		gate:    gate,
		content: bytes.NewReader([]byte("stale data")),
	})
	test.ExpectSuccess(t, fsys.IsPending(0))

	// abandon the load and reuse the channel for something newer
	fsys.Reset(0)
	fsys.LoadBase64(0, "fresh.bin", "aGVsbG8=")
	test.ExpectedBytes(t, fsys.Data(0), []byte("hello"))

	// let the abandoned load complete and give its completion every
	// chance to arrive
	close(gate)
	deadline := time.Now().Add(250 * time.Millisecond)
	for time.Now().Before(deadline) {
		fsys.Poll()
		time.Sleep(time.Millisecond)
	}

	// the stale completion must not have touched the newer result
	test.ExpectSuccess(t, fsys.IsSuccess(0))
	test.ExpectedBytes(t, fsys.Data(0), []byte("hello"))
	test.ExpectEquality(t, fsys.Filename(0), "fresh.bin")
}

func TestIndependentChannels(t *testing.T) {
	fsys := fetch.NewFS(3)

	fn := filepath.Join(t.TempDir(), "second.bin")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("file payload"), 0600))

	fsys.LoadBase64(0, "first.bin", "aGVsbG8=")
	fsys.LoadFileAsync(1, fn)
	pollFor(t, fsys, 1)

	// each channel holds its own result. channel 2 was never touched
	test.ExpectedBytes(t, fsys.Data(0), []byte("hello"))
	test.ExpectedBytes(t, fsys.Data(1), []byte("file payload"))
	test.ExpectEquality(t, fsys.Result(2), fetch.Idle)
}
