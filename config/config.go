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

// Package config parses and pretty-prints the IOV backend configuration
// file: a text file whose body is the pretty-printed form of Parameter,
// read with a small github.com/launix-de/go-packrat/v2 grammar.
package config

import (
	"fmt"
	"strconv"
	"strings"

	packrat "github.com/launix-de/go-packrat/v2"

	"github.com/mcsproject/mcs/core"
	"github.com/mcsproject/mcs/errs"
)

// Parameter is the IOV backend's construction-time configuration. Keys
// not listed in the table are rejected by Parse.
type Parameter struct {
	Provider                           core.Endpoint
	NumberOfThreadsTransportClients    int
	IndirectNumberOfBuffers            int
	IndirectMaximumTransferSize        uint64
	IndirectAcquireBufferTimeoutMillis int
	DirectMaximumTransferSize          uint64
}

// Default returns a single literal struct of sane defaults.
func Default() Parameter {
	return Parameter{
		NumberOfThreadsTransportClients:    4,
		IndirectNumberOfBuffers:            16,
		IndirectMaximumTransferSize:        1 << 20,
		IndirectAcquireBufferTimeoutMillis: 1000,
		DirectMaximumTransferSize:          1 << 24,
	}
}

func entryParser() packrat.Parser {
	key := packrat.NewRegexParser(`[a-zA-Z_][a-zA-Z0-9_.]*`, false, true)
	eq := packrat.NewAtomParser("=", false, true)
	value := packrat.NewRegexParser(`[^\r\n]+`, false, true)
	return packrat.NewAndParser(key, eq, value)
}

func fileParser() packrat.Parser {
	return packrat.NewKleeneParser(entryParser(), packrat.NewEmptyParser())
}

// Parse reads an IOV configuration file body into a Parameter, failing
// on any key outside the recognized table.
func Parse(text string) (Parameter, error) {
	scanner := packrat.NewScanner(text, packrat.SkipWhitespaceAndCommentsRegex)
	node, err := packrat.Parse(fileParser(), scanner)
	if err != nil {
		return Parameter{}, &errs.LoadFailed{Cause: err}
	}

	raw := make(map[string]string)
	for i := 0; i < len(node.Children); i += 2 {
		entry := node.Children[i]
		key := strings.TrimSpace(entry.Children[0].Matched)
		value := strings.TrimSpace(entry.Children[2].Matched)
		raw[key] = value
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]string) (Parameter, error) {
	p := Default()
	for key, value := range raw {
		var err error
		switch key {
		case "provider":
			p.Provider, err = ParseEndpoint(value)
		case "number_of_threads.transport_clients":
			p.NumberOfThreadsTransportClients, err = strconv.Atoi(value)
		case "indirect_communication.number_of_buffers":
			p.IndirectNumberOfBuffers, err = strconv.Atoi(value)
		case "indirect_communication.maximum_transfer_size":
			p.IndirectMaximumTransferSize, err = strconv.ParseUint(value, 10, 64)
		case "indirect_communication.acquire_buffer_timeout_in_milliseconds":
			p.IndirectAcquireBufferTimeoutMillis, err = strconv.Atoi(value)
		case "direct_communication.maximum_transfer_size":
			p.DirectMaximumTransferSize, err = strconv.ParseUint(value, 10, 64)
		default:
			return Parameter{}, fmt.Errorf("config: unknown key %q", key)
		}
		if err != nil {
			return Parameter{}, &errs.LoadFailed{Cause: err}
		}
	}
	return p, nil
}

// ParseEndpoint parses "network://address" (e.g. "tcp://host:9000"), the
// same form a CLI utility's provider argument takes.
func ParseEndpoint(s string) (core.Endpoint, error) {
	network, address, ok := strings.Cut(s, "://")
	if !ok {
		return core.Endpoint{}, fmt.Errorf("config: malformed endpoint %q", s)
	}
	return core.Endpoint{Network: network, Address: address}, nil
}

// PrettyPrint renders p the way Parse expects to read it back, one
// `key = value` line per recognized option: Parse(PrettyPrint(p)) == p.
func PrettyPrint(p Parameter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider = %s\n", p.Provider.String())
	fmt.Fprintf(&b, "number_of_threads.transport_clients = %d\n", p.NumberOfThreadsTransportClients)
	fmt.Fprintf(&b, "indirect_communication.number_of_buffers = %d\n", p.IndirectNumberOfBuffers)
	fmt.Fprintf(&b, "indirect_communication.maximum_transfer_size = %d\n", p.IndirectMaximumTransferSize)
	fmt.Fprintf(&b, "indirect_communication.acquire_buffer_timeout_in_milliseconds = %d\n", p.IndirectAcquireBufferTimeoutMillis)
	fmt.Fprintf(&b, "direct_communication.maximum_transfer_size = %d\n", p.DirectMaximumTransferSize)
	return b.String()
}
