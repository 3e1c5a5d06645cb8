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

import "net"

// DialTCP opens the default transport binding: a raw net.Conn carrying
// the frame format directly over a reliable ordered byte stream (spec
// §4.C).
func DialTCP(addr string) (net.Conn, error) {
	return net.Dial("tcp", addr)
}

// ListenTCP starts a tcp listener serving d on every accepted
// connection.
func ListenTCP(addr string, d *Dispatcher) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go ServeConn(d, conn)
		}
	}()
	return ln, nil
}
