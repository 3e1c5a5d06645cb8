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
package rpc

import (
	"io"

	"github.com/mcsproject/mcs/archive"
	"github.com/mcsproject/mcs/command"
	"github.com/mcsproject/mcs/errs"
)

// SendHandshake writes fingerprint as a length-prefixed list of
// length-prefixed strings.
func SendHandshake(w io.Writer, fingerprint []string) error {
	o := archive.NewOutput(64)
	archive.WriteVector(o, len(fingerprint), func(i int) { o.WriteTaggedString(fingerprint[i]) })
	_, err := w.Write(o.Bytes())
	return err
}

// RecvHandshake reads a fingerprint previously written by SendHandshake.
// Because the fingerprint carries no outer length prefix, r must be
// positioned so the vector header is the very next bytes (handshake is
// always the first exchange on a fresh connection).
func RecvHandshake(r io.Reader) ([]string, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := readTaggedString(r)
		if err != nil {
			return nil, err
		}
		names = append(names, s)
	}
	return names, nil
}

func readU32(r io.Reader) (uint32, error) {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	in := archive.NewInput(buf)
	return in.ReadU32()
}

func readTaggedString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ClientHandshake reads the provider's fingerprint, sends the client's,
// and verifies the provider's begins with the client's. This permits
// providers to expose supersets but forbids reordering. Reading first
// pairs with ServerHandshake's send-first order, so the exchange also
// completes over an unbuffered stream such as net.Pipe.
func ClientHandshake(rw io.ReadWriter, clientList *command.List) error {
	serverFingerprint, err := RecvHandshake(rw)
	if err != nil {
		return err
	}
	if err := SendHandshake(rw, clientList.Handshake()); err != nil {
		return err
	}
	if !command.HandshakeMatches(serverFingerprint, clientList.Handshake()) {
		return errs.ErrHandshakeFailed
	}
	return nil
}

// ServerHandshake sends the provider's fingerprint and reads (but does
// not validate) the client's — validation is the client's job; the
// server's only obligation is to publish its own list.
func ServerHandshake(rw io.ReadWriter, serverList *command.List) error {
	if err := SendHandshake(rw, serverList.Handshake()); err != nil {
		return err
	}
	_, err := RecvHandshake(rw)
	return err
}
