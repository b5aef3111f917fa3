/*
 * Copyright 2025 TickDB, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tickdb

import (
	"fmt"
	"io"
	"net"
	"strings"
)

// UDPPayloadSize is the default maximum datagram payload.
const UDPPayloadSize = 512

// UDPConfig defines the configuration for a UDPWriter.
type UDPConfig struct {
	// Addr is the host:port of the server's UDP listener. The listener is
	// bound to one database on the server side, so there are no database
	// or precision parameters here; timestamps go out in nanoseconds.
	Addr string
	// PayloadSize caps the datagram payload, defaults to UDPPayloadSize.
	PayloadSize int
}

// UDPWriter writes points over UDP. Writes are fire-and-forget: a nil
// error only means the datagrams left this host.
type UDPWriter struct {
	conn        io.WriteCloser
	payloadSize int
}

// NewUDPWriter opens a UDP connection to the configured address.
func NewUDPWriter(config UDPConfig) (*UDPWriter, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", config.Addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, err
	}

	payloadSize := config.PayloadSize
	if payloadSize == 0 {
		payloadSize = UDPPayloadSize
	}
	return &UDPWriter{
		conn:        conn,
		payloadSize: payloadSize,
	}, nil
}

// WritePoints encodes the points and sends them, packing as many lines
// into each datagram as the payload size allows. A single line larger than
// the payload size is rejected rather than truncated.
func (w *UDPWriter) WritePoints(points ...*Point) error {
	var payload strings.Builder

	flush := func() error {
		if payload.Len() == 0 {
			return nil
		}
		_, err := w.conn.Write([]byte(payload.String()))
		payload.Reset()
		return err
	}

	for _, p := range points {
		line, err := p.Line(PrecisionNanosecond)
		if err != nil {
			return err
		}
		if len(line)+1 > w.payloadSize {
			return fmt.Errorf("point %s exceeds udp payload size %d", p.Measurement(), w.payloadSize)
		}
		if payload.Len()+len(line)+1 > w.payloadSize {
			if err := flush(); err != nil {
				return err
			}
		}
		payload.WriteString(line)
		payload.WriteByte('\n')
	}
	return flush()
}

// Close closes the connection.
func (w *UDPWriter) Close() error {
	return w.conn.Close()
}
