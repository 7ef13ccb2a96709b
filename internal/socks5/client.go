package socks5

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
)

// Negotiate sends the no-auth greeting and validates the method selection.
//
// A server that selects anything other than no-auth (including 0xff, no
// acceptable methods) fails with HandshakeRejectedError. A peer that closes
// before delivering both selection bytes fails with ErrIncompleteResponse.
func Negotiate(conn net.Conn) error {
	if _, err := conn.Write([]byte{Version, 0x01, MethodNone}); err != nil {
		return fmt.Errorf("write greeting: %w", err)
	}

	sel := make([]byte, 2)
	if _, err := io.ReadFull(conn, sel); err != nil {
		return fmt.Errorf("read method selection: %w", incomplete(err))
	}
	if sel[0] != Version {
		return fmt.Errorf("method selection version 0x%02x, want 0x%02x", sel[0], Version)
	}
	if sel[1] != MethodNone {
		return &HandshakeRejectedError{Method: sel[1]}
	}
	return nil
}

// Connect issues a CONNECT request for address, an IPv4 host:port, and
// validates the reply. A nonzero reply code fails with ConnectFailedError
// carrying the code; the reply's bound address is consumed but not otherwise
// inspected.
func Connect(conn net.Conn, address string) error {
	req, err := connectRequest(address)
	if err != nil {
		return err
	}
	if _, err := conn.Write(req); err != nil {
		return fmt.Errorf("write connect request: %w", err)
	}

	// VER REP RSV ATYP
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(conn, hdr); err != nil {
		return fmt.Errorf("read connect reply: %w", incomplete(err))
	}
	if hdr[0] != Version {
		return fmt.Errorf("connect reply version 0x%02x, want 0x%02x", hdr[0], Version)
	}
	if hdr[1] != RepSuccess {
		return &ConnectFailedError{Code: hdr[1]}
	}
	if err := discardBoundAddr(conn, hdr[3]); err != nil {
		return fmt.Errorf("read bound address: %w", err)
	}
	return nil
}

// connectRequest encodes VER CMD RSV ATYP DST.ADDR DST.PORT for an IPv4
// host:port.
func connectRequest(address string) ([]byte, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("connect target %q: %w", address, err)
	}

	ip := net.ParseIP(host)
	if ip != nil {
		ip = ip.To4()
	}
	if ip == nil {
		return nil, fmt.Errorf("connect target %q: not an IPv4 address", address)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("connect target %q: invalid port", address)
	}

	req := make([]byte, 0, 10)
	req = append(req, Version, CmdConnect, 0x00, ATYPIPv4)
	req = append(req, ip...)
	req = binary.BigEndian.AppendUint16(req, uint16(port))
	return req, nil
}

// discardBoundAddr consumes BND.ADDR and BND.PORT for the given address type.
func discardBoundAddr(r io.Reader, atyp byte) error {
	var n int
	switch atyp {
	case ATYPIPv4:
		n = 4 + 2
	case ATYPIPv6:
		n = 16 + 2
	case ATYPDomain:
		l := make([]byte, 1)
		if _, err := io.ReadFull(r, l); err != nil {
			return incomplete(err)
		}
		n = int(l[0]) + 2
	default:
		return fmt.Errorf("unknown address type 0x%02x", atyp)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return incomplete(err)
	}
	return nil
}
