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

// add_entry_to_database writes key=value to the meta-DB, overwriting any
// existing value.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mcsproject/mcs/errs"
	"github.com/mcsproject/mcs/metadb"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: add_entry_to_database db key value")
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 3 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := metadb.Open(ctx, args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, errs.Chain(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Set(ctx, args[1], args[2]); err != nil {
		fmt.Fprintln(os.Stderr, errs.Chain(err))
		os.Exit(1)
	}
}
