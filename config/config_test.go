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
	"testing"

	"github.com/mcsproject/mcs/core"
)

// P-ReadFmtRT: parse(pretty(v)) == v.
func TestParsePrettyPrintRoundTrip(t *testing.T) {
	p := Default()
	p.Provider = core.Endpoint{Network: "tcp", Address: "10.0.0.1:9000"}
	p.NumberOfThreadsTransportClients = 8

	got, err := Parse(PrettyPrint(p))
	if err != nil {
		t.Fatalf("Parse(PrettyPrint(p)): %v", err)
	}
	if got != p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestParseUnknownKeyFails(t *testing.T) {
	if _, err := Parse("provider = tcp://localhost:1\nbogus_key = 1\n"); err == nil {
		t.Fatalf("Parse with unknown key succeeded, want error")
	}
}

func TestParseWSEndpoint(t *testing.T) {
	p, err := Parse("provider = ws://example.org:8080\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Provider.Network != "ws" || p.Provider.Address != "example.org:8080" {
		t.Fatalf("parsed endpoint = %+v", p.Provider)
	}
}

func TestParseEmptyFileYieldsDefaults(t *testing.T) {
	p, err := Parse("")
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if p != Default() {
		t.Fatalf("empty file parse = %+v, want Default()", p)
	}
}
