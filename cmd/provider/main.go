/*
Copyright (C) 2026  MemCP Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// provider runs one storage provider process: a block device, a core
// control table, an IOV backend and a share service, all wired onto one
// listening Dispatcher.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dc0d/onexit"

	"github.com/mcsproject/mcs/config"
	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/rpc"
	"github.com/mcsproject/mcs/server"
)

func main() {
	listen := flag.String("listen", ":9000", "tcp address to listen on")
	configPath := flag.String("config", "", "IOV configuration file (optional, hot-reloaded)")
	blockSize := flag.Uint64("block-size", 4096, "block-device meta-data block size")
	shareKind := flag.String("share-kind", "heap", "storage kind the share service mints chunks on")
	flag.Parse()

	kind, ok := core.ParseKind(*shareKind)
	if !ok {
		fmt.Fprintf(os.Stderr, "provider: unknown share kind %q\n", *shareKind)
		os.Exit(2)
	}
	endpoint := core.Endpoint{Network: "tcp", Address: *listen}
	srv := server.New(ids.BlockSize(*blockSize), endpoint, kind, nil)

	if *configPath != "" {
		_, err := config.Watch(*configPath, func(config.Parameter) {
			// The IOV backend's capacity envelope is adjusted at
			// storage.Add time, not globally, so a config reload only
			// affects transport/tuning knobs going forward.
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "provider:", errs.Chain(err))
			os.Exit(1)
		}
	}

	ln, err := rpc.ListenTCP(*listen, srv.Dispatcher)
	if err != nil {
		fmt.Fprintln(os.Stderr, "provider:", errs.Chain(err))
		os.Exit(1)
	}
	onexit.Register(func() { ln.Close() })

	fmt.Printf("provider listening on %s\n", *listen)
	select {}
}
