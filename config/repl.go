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
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mcsproject/mcs/iov"
)

const statePrompt = "\033[32mstate>\033[0m "

// StateSource is anything the state CLI can pretty-print a snapshot of;
// satisfied by *iov.IOV.
type StateSource interface {
	State() iov.State
}

// Repl is the interactive shell behind the state-inspection CLI, built
// on chzyer/readline: read a line, act on it, print, repeat until EOF/^D.
func Repl(src StateSource) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            statePrompt,
		HistoryFile:       ".mcs-state-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "", "state":
			printState(src.State())
		case "quit", "exit":
			return nil
		default:
			fmt.Println("unknown command:", line)
		}
	}
}

func printState(s iov.State) {
	fmt.Printf("storages: %d\n", len(s.Storages))
	for _, st := range s.Storages {
		fmt.Printf("  %s storage=%d kind=%s range=[%d,%d)\n", st.Endpoint, st.StorageID, st.Kind, st.Range.Begin, st.Range.End)
	}
	fmt.Printf("collections: %d\n", len(s.Collections))
	for _, c := range s.Collections {
		fmt.Printf("  %s\n", c)
	}
}
