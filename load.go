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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chipsfs/chipsfs/config"
	"github.com/chipsfs/chipsfs/curated"
	"github.com/chipsfs/chipsfs/fetch"
)

const errLoadFailed = "load of %s failed"

var loadOpts struct {
	base64 string
	name   string
	output string
	stdin  bool
}

var loadCmd = &cobra.Command{
	Use:   "load [path|url]",
	Short: "load a payload through a fetch channel and report on it",
	Long: `Load a payload through a fetch channel and report on it.

The payload can come from a local file, an http(s) URL, standard input
(--stdin) or an inline base64 string (--base64). The load is driven by
the same poll loop an emulator front-end would run once per frame.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadOpts.base64, "base64", "", "inline base64 payload")
	loadCmd.Flags().StringVar(&loadOpts.name, "name", "payload.bin", "display name for payloads without a path")
	loadCmd.Flags().StringVarP(&loadOpts.output, "output", "o", "", "write the loaded payload to a file")
	loadCmd.Flags().BoolVar(&loadOpts.stdin, "stdin", false, "read the payload from standard input")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fsys := newFS(cfg)

	switch {
	case loadOpts.base64 != "":
		// synchronous. the channel is resolved on return
		fsys.LoadBase64(channelImage, loadOpts.name, loadOpts.base64)

	case loadOpts.stdin:
		fsys.LoadReaderAsync(channelImage, loadOpts.name, os.Stdin)

	case len(args) == 1:
		fsys.LoadFileAsync(channelImage, args[0])

	default:
		return curated.Errorf("load: no payload specified")
	}

	err = pollUntil(fsys.Poll, func() bool {
		return fsys.IsSuccess(channelImage) || fsys.IsFailed(channelImage)
	})
	if err != nil {
		return err
	}

	if fsys.IsFailed(channelImage) {
		return curated.Errorf(errLoadFailed, fsys.Filename(channelImage))
	}

	data := fsys.Data(channelImage)
	fmt.Printf("name: %s\n", fsys.Filename(channelImage))
	fmt.Printf("size: %d bytes\n", len(data))
	fmt.Printf("sha1: %s\n", fsys.Hash(channelImage))
	if ext := isKnownText(fsys); ext != "" {
		fmt.Printf("type: text (%s)\n", ext)
	}

	if loadOpts.output != "" {
		if err := os.WriteFile(loadOpts.output, data, 0600); err != nil {
			return curated.Errorf("load: %v", err)
		}
	}

	return nil
}

// isKnownText reports the extension if the loaded payload is one the
// z1013 front-end treats as keyboard input rather than a memory image.
func isKnownText(fsys *fetch.FS) string {
	for _, ext := range []string{"txt", "bas"} {
		if fsys.HasExtension(channelImage, ext) {
			return ext
		}
	}
	return ""
}
