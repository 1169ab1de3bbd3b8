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
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chipsfs/chipsfs/config"
	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
	"github.com/chipsfs/chipsfs/snapshot"
)

const (
	errBadSlot      = "snapshot: bad slot index '%s'"
	errSlotNotFound = "snapshot: slot %d of %s did not load"
	errSlotShape    = "snapshot: slot payload is not a versioned snapshot"
	errSlotStale    = "snapshot: slot holds version %d, want %d"
)

// slot payloads carry the same version word a front-end writes into
// its snapshot struct. a slot written by an incompatible build is
// rejected on load rather than misread.
const slotVersion = 1

var slotMagic = []byte("CSLT")

const slotHeaderSize = 8

// the number of slots a system has, matching the slot count of the
// front-ends this tool serves.
const maxSlots = 8

// wrapSlot stamps the version word onto a snapshot payload before it
// is handed to the backend.
func wrapSlot(data []byte) []byte {
	blob := make([]byte, slotHeaderSize+len(data))
	copy(blob, slotMagic)
	binary.LittleEndian.PutUint32(blob[4:], slotVersion)
	copy(blob[slotHeaderSize:], data)
	return blob
}

// unwrapSlot checks the version word of a loaded slot and returns the
// snapshot payload behind it.
func unwrapSlot(blob []byte) ([]byte, error) {
	if len(blob) < slotHeaderSize || !bytes.Equal(blob[:4], slotMagic) {
		return nil, curated.Errorf(errSlotShape)
	}
	if v := binary.LittleEndian.Uint32(blob[4:]); v != slotVersion {
		return nil, curated.Errorf(errSlotStale, v, slotVersion)
	}
	return blob[slotHeaderSize:], nil
}

var snapOpts struct {
	output string
}

var snapCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "save and restore snapshot slots through the configured backend",
}

var snapSaveCmd = &cobra.Command{
	Use:   "save <system> <slot> <file>",
	Short: "save a snapshot blob to a slot",
	Args:  cobra.ExactArgs(3),
	RunE:  runSnapSave,
}

var snapLoadCmd = &cobra.Command{
	Use:   "load <system> <slot>",
	Short: "load a snapshot blob from a slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapLoad,
}

var snapLsCmd = &cobra.Command{
	Use:   "ls <system>",
	Short: "probe every snapshot slot of a system",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapLs,
}

func init() {
	snapLoadCmd.Flags().StringVarP(&snapOpts.output, "output", "o", "", "write the snapshot bytes to a file")
	snapCmd.AddCommand(snapSaveCmd)
	snapCmd.AddCommand(snapLoadCmd)
	snapCmd.AddCommand(snapLsCmd)
	rootCmd.AddCommand(snapCmd)
}

func slotIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, curated.Errorf(errBadSlot, arg)
	}
	return index, nil
}

func runSnapSave(_ *cobra.Command, args []string) error {
	index, err := slotIndex(args[1])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// pull the blob through a fetch channel, the way a front-end pulls
	// any other payload
	fsys := newFS(cfg)
	fsys.LoadFileAsync(channelImage, args[2])
	err = pollUntil(fsys.Poll, func() bool {
		return fsys.IsSuccess(channelImage) || fsys.IsFailed(channelImage)
	})
	if err != nil {
		return err
	}
	if fsys.IsFailed(channelImage) {
		return curated.Errorf(errLoadFailed, args[2])
	}

	backend := newBackend(cfg, fsys)
	if err := backend.Save(args[0], index, wrapSlot(fsys.Data(channelImage))); err != nil {
		return err
	}

	fmt.Printf("saved %d bytes to slot %d of %s (%s backend)\n",
		len(fsys.Data(channelImage)), index, args[0], cfg.Snapshots.Backend)
	return nil
}

func runSnapLoad(_ *cobra.Command, args []string) error {
	index, err := slotIndex(args[1])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fsys := newFS(cfg)
	backend := newBackend(cfg, fsys)

	var response snapshot.Response
	var fired bool
	err = backend.Load(args[0], index, func(r snapshot.Response) {
		// the response data is only valid during the callback. copy
		// what outlives it
		response = r
		response.Data = append([]byte(nil), r.Data...)
		fired = true
	})
	if err != nil {
		return err
	}

	err = pollUntil(backend.Poll, func() bool { return fired })
	if err != nil {
		return err
	}

	if response.Result != fetch.Success {
		return curated.Errorf(errSlotNotFound, index, args[0])
	}

	data, err := unwrapSlot(response.Data)
	if err != nil {
		return err
	}

	fmt.Printf("loaded %d bytes from slot %d of %s (%s backend)\n",
		len(data), index, args[0], cfg.Snapshots.Backend)

	if snapOpts.output != "" {
		if err := os.WriteFile(snapOpts.output, data, 0600); err != nil {
			return curated.Errorf("snapshot: %v", err)
		}
	}
	return nil
}

// probeSlots issues a load for every slot of a system and polls until
// each one has answered. a front-end does the same at startup to find
// out which slots are occupied.
func probeSlots(backend snapshot.Backend, system string, slots int) ([]snapshot.Response, error) {
	responses := make([]snapshot.Response, slots)
	fired := 0

	for i := 0; i < slots; i++ {
		err := backend.Load(system, i, func(r snapshot.Response) {
			responses[r.Index] = r
			responses[r.Index].Data = append([]byte(nil), r.Data...)
			fired++
		})
		if err != nil {
			return nil, err
		}
	}

	err := pollUntil(backend.Poll, func() bool { return fired == slots })
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func runSnapLs(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fsys := newFS(cfg)
	backend := newBackend(cfg, fsys)

	responses, err := probeSlots(backend, args[0], maxSlots)
	if err != nil {
		return err
	}

	for i, r := range responses {
		if r.Result != fetch.Success {
			fmt.Printf("slot %d: empty\n", i)
			continue
		}
		data, err := unwrapSlot(r.Data)
		if err != nil {
			fmt.Printf("slot %d: %v\n", i, err)
			continue
		}
		fmt.Printf("slot %d: %d bytes\n", i, len(data))
	}
	return nil
}
