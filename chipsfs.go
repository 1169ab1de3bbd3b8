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

// ChipsFS loads byte payloads for a retro-computer emulator front-end
// and persists versioned snapshot blobs of the emulated system. The
// command line tool exercises the same library packages an embedding
// front-end would use: payloads are pulled through fetch channels by a
// poll loop and snapshots travel through one of the configured
// persistence backends.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/chipsfs/chipsfs/config"
	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/logger"
	"github.com/chipsfs/chipsfs/snapshot"
	"github.com/chipsfs/chipsfs/version"
)

// the fixed channel assignment for the process. one channel for
// generic payloads, one dedicated to the snapshot backend. the
// configuration can ask for more channels but never fewer.
const (
	channelImage fetch.ChannelID = iota
	channelSnapshots
)

// how often the command line tool turns its poll loop. an embedding
// front-end would poll once per frame instead
const pollInterval = 10 * time.Millisecond

// the command line tool gives up eventually. this is a property of the
// tool, not of the library, which leaves a never-completing load
// pending forever
const pollDeadline = 30 * time.Second

const errPollDeadline = "poll: no completion before deadline"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "chipsfs",
	Short:         "payload loading and snapshot persistence for emulator front-ends",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version number",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "chipsfs.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "echo log entries as they happen")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	cobra.OnInitialize(func() {
		if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
			logger.SetEcho(os.Stderr)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newFS creates the fetch engine with the configured channel count.
func newFS(cfg config.Config) *fetch.FS {
	return fetch.NewFS(cfg.Channels)
}

// newBackend is the one place the concrete snapshot backend is chosen.
// everything downstream works against the Backend interface.
func newBackend(cfg config.Config, fsys *fetch.FS) snapshot.Backend {
	switch cfg.Snapshots.Backend {
	case config.BackendChannel:
		return snapshot.NewChannelBackend(fsys, channelSnapshots, cfg.Snapshots.Dir, cfg.Snapshots.Compress)
	case config.BackendKV:
		return snapshot.NewKVBackend(filepath.Join(cfg.Snapshots.Dir, "chips.db"), cfg.Snapshots.Compress)
	default:
		return snapshot.NewFileBackend(cfg.Snapshots.Dir, cfg.Snapshots.Compress)
	}
}

// pollUntil turns the poll loop until done returns true. this is the
// command line stand-in for the once-per-frame poll an embedding
// front-end performs.
func pollUntil(poll func(), done func() bool) error {
	deadline := time.Now().Add(pollDeadline)
	for !done() {
		if time.Now().After(deadline) {
			return curated.Errorf(errPollDeadline)
		}
		poll()
		time.Sleep(pollInterval)
	}
	return nil
}
