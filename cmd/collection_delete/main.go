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

// collection_delete issues IOV collection.Delete against a provider (spec
// §6).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/ids"
	"github.com/mcsproject/mcs/internal/rpcdial"
	"github.com/mcsproject/mcs/rpc"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: collection_delete provider collection-id")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}

	client, err := rpcdial.Dial(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, errs.Chain(err))
		os.Exit(1)
	}

	collection := ids.CollectionID(args[1])
	if _, err := rpc.Call[command.CollectionDeleteReq, command.EmptyResp](
		client, "collection.Delete", command.CollectionDeleteReq{Collection: collection}); err != nil {
		fmt.Fprintln(os.Stderr, errs.Chain(err))
		os.Exit(1)
	}
}
