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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chipsfs/chipsfs/config"
	"github.com/chipsfs/chipsfs/test"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "chipsfs.yaml")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(content), 0600))
	return fn
}

func TestDefaults(t *testing.T) {
	cfg := config.Default()
	test.ExpectEquality(t, cfg.Snapshots.Backend, config.BackendFile)
	test.ExpectInequality(t, cfg.Snapshots.Dir, "")
	test.ExpectFailure(t, cfg.Snapshots.Compress)
	test.ExpectEquality(t, cfg.Channels, 2)
}

func TestMissingFileIsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg, config.Default())
}

func TestLoad(t *testing.T) {
	fn := writeConfig(t, `
snapshots:
  backend: kv
  dir: /var/lib/chipsfs
  compress: true
`)

	cfg, err := config.Load(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Snapshots.Backend, config.BackendKV)
	test.ExpectEquality(t, cfg.Snapshots.Dir, "/var/lib/chipsfs")
	test.ExpectSuccess(t, cfg.Snapshots.Compress)
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	fn := writeConfig(t, `
snapshots:
  backend: channel
`)

	cfg, err := config.Load(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Snapshots.Backend, config.BackendChannel)
	test.ExpectEquality(t, cfg.Snapshots.Dir, os.TempDir())
	test.ExpectEquality(t, cfg.Channels, 2)
}

func TestChannels(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "channels: 8"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Channels, 8)

	// one channel is not enough for a snapshot backend to coexist with
	// payload loading
	_, err = config.Load(writeConfig(t, "channels: 1"))
	test.ExpectFailure(t, err)

	_, err = config.Load(writeConfig(t, "channels: -3"))
	test.ExpectFailure(t, err)
}

func TestBadBackend(t *testing.T) {
	fn := writeConfig(t, `
snapshots:
  backend: carrier-pigeon
`)

	_, err := config.Load(fn)
	test.ExpectFailure(t, err)
}

func TestBadYaml(t *testing.T) {
	fn := writeConfig(t, "snapshots: [")
	_, err := config.Load(fn)
	test.ExpectFailure(t, err)
}
