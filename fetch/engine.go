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
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/logger"
)

// maximum number of unresolved completions. submissions beyond this
// number stall their worker goroutine until Poll() drains the queue
const maxRequests = 128

// error patterns for the load engine.
const (
	errClamped  = "fetch: path too long for channel"
	errTooLarge = "fetch: payload exceeds maximum size"
	errIO       = "fetch: %v"
)

// completion is the record a worker goroutine delivers to Poll(). the
// payload travels in a private buffer owned by the record; it is
// copied into the channel buffer on the polling goroutine.
type completion struct {
	chn  ChannelID
	gen  uint64
	data []byte
	err  error
}

// LoadFileAsync begins loading the channel from a local file path or
// an http(s) URL. The previous content of the channel is forgotten
// immediately; the channel is Pending on return and will resolve
// during a future Poll().
func (fsys *FS) LoadFileAsync(chn ChannelID, path string) {
	c := fsys.channel(chn)
	c.reset()
	c.path.Format("%s", path)
	if c.path.Clamped() {
		logger.Logf(logger.Allow, "fetch", "load of %s: %v", c.path.String(), curated.Errorf(errClamped))
		c.result = Failed
		return
	}
	c.result = Pending

	gen := c.gen
	go func() {
		data, err := fetchPayload(path)
		fsys.completions <- completion{chn: chn, gen: gen, data: data, err: err}
	}()
}

// LoadReaderAsync begins loading the channel from an io.Reader. This
// is the entry point for payloads whose bytes arrive from somewhere
// other than a named file, such as a file dropped onto the application
// window. The name argument is only used for display and extension
// queries.
//
// The reader is consumed on a worker goroutine and must not be used by
// the caller afterwards.
func (fsys *FS) LoadReaderAsync(chn ChannelID, name string, r io.Reader) {
	c := fsys.channel(chn)
	c.reset()
	c.path.Format("%s", name)
	c.result = Pending

	gen := c.gen
	go func() {
		data, err := readPayload(r)
		fsys.completions <- completion{chn: chn, gen: gen, data: data, err: err}
	}()
}

// Poll resolves completed loads. It must be called once per
// application loop iteration. Completions are applied in the order the
// workers finished, which is not necessarily the order the loads were
// started.
//
// Poll never blocks. If no loads have completed it returns
// immediately.
func (fsys *FS) Poll() {
	for {
		select {
		case comp := <-fsys.completions:
			fsys.resolve(comp)
		default:
			return
		}
	}
}

func (fsys *FS) resolve(comp completion) {
	c := fsys.channel(comp.chn)

	// a completion for a load that was abandoned by a reset. the
	// channel may already be carrying a newer load
	if comp.gen != c.gen {
		logger.Logf(logger.Allow, "fetch", "channel %d: discarding completion of abandoned load", comp.chn)
		return
	}

	if comp.err != nil {
		logger.Logf(logger.Allow, "fetch", "load of %s: %v", c.path.String(), comp.err)
		c.result = Failed
		return
	}

	copy(c.buf, comp.data)
	c.setPayload(len(comp.data))
}

// fetchPayload reads the payload named by path on a worker goroutine.
// http and https URLs are fetched over the network, anything else is
// treated as a local file path.
func fetchPayload(path string) ([]byte, error) {
	scheme := ""
	if u, err := url.Parse(path); err == nil {
		scheme = u.Scheme
	}

	switch scheme {
	case "http", "https":
		resp, err := http.Get(path)
		if err != nil {
			return nil, curated.Errorf(errIO, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, curated.Errorf(errIO, resp.Status)
		}
		return readPayload(resp.Body)

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, curated.Errorf(errIO, err)
		}
		defer f.Close()
		return readPayload(f)
	}
}

// readPayload reads at most MaxPayload bytes. a payload that would
// exceed the limit is an error, never a truncation.
func readPayload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPayload+1))
	if err != nil {
		return nil, curated.Errorf(errIO, err)
	}
	if len(data) > MaxPayload {
		return nil, curated.Errorf(errTooLarge)
	}
	return data, nil
}
