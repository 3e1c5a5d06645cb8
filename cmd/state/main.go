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

// state pretty-prints a provider's IOV snapshot, interactively or once
// piped.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/config"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/internal/rpcdial"
	"github.com/mcsproject/mcs/iov"
	"github.com/mcsproject/mcs/rpc"
)

// remoteState adapts an rpc.Client's iov.State command to
// config.StateSource, so the interactive shell can drive a remote provider
// the same way it would an in-process *iov.IOV.
type remoteState struct{ client *rpc.Client }

func (r remoteState) State() iov.State {
	resp, err := rpc.Call[command.StateReq, command.StateResp](r.client, "iov.State", command.StateReq{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "state: fetching snapshot:", errs.Chain(err))
		return iov.State{}
	}
	return iov.State{Storages: resp.Storages, Collections: resp.Collections}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: state provider")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	client, err := rpcdial.Dial(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, errs.Chain(err))
		os.Exit(1)
	}

	if err := config.Repl(remoteState{client}); err != nil {
		fmt.Fprintln(os.Stderr, errs.Chain(err))
		os.Exit(1)
	}
}
