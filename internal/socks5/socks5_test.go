package socks5

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name      string
		selection []byte
		wantErr   bool
		rejected  bool
	}{
		{name: "accepted", selection: []byte{0x05, 0x00}},
		{name: "no_acceptable_methods", selection: []byte{0x05, 0xff}, wantErr: true, rejected: true},
		{name: "userpass_selected", selection: []byte{0x05, 0x02}, wantErr: true, rejected: true},
		{name: "bad_version", selection: []byte{0x04, 0x00}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientConn, serverConn := net.Pipe()
			defer clientConn.Close()
			defer serverConn.Close()

			g := errgroup.Group{}
			g.Go(func() error {
				greeting := make([]byte, 3)
				if _, err := io.ReadFull(serverConn, greeting); err != nil {
					return err
				}
				if !bytes.Equal(greeting, []byte{0x05, 0x01, 0x00}) {
					t.Errorf("greeting = %x, want 050100", greeting)
				}
				_, err := serverConn.Write(tt.selection)
				return err
			})

			err := Negotiate(clientConn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Negotiate() error = %v, wantErr %v", err, tt.wantErr)
			}

			var rejected *HandshakeRejectedError
			if got := errors.As(err, &rejected); got != tt.rejected {
				t.Fatalf("HandshakeRejectedError = %v, want %v (err: %v)", got, tt.rejected, err)
			}
			if tt.rejected && rejected.Method != tt.selection[1] {
				t.Fatalf("rejected method = 0x%02x, want 0x%02x", rejected.Method, tt.selection[1])
			}

			if err := g.Wait(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestNegotiateIncompleteResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		greeting := make([]byte, 3)
		if _, err := io.ReadFull(c, greeting); err != nil {
			_ = c.Close()
			return
		}
		// One byte of the two-byte selection, then close.
		_, _ = c.Write([]byte{0x05})
		_ = c.Close()
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	err = Negotiate(conn)
	if !errors.Is(err, ErrIncompleteResponse) {
		t.Fatalf("expected ErrIncompleteResponse, got %v", err)
	}
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name     string
		reply    []byte
		wantErr  bool
		wantCode byte
	}{
		{
			name:  "success_ipv4",
			reply: []byte{0x05, 0x00, 0x00, 0x01, 127, 0, 0, 1, 0x30, 0x39},
		},
		{
			name:  "success_domain_bound_addr",
			reply: []byte{0x05, 0x00, 0x00, 0x03, 9, 'l', 'o', 'c', 'a', 'l', 'h', 'o', 's', 't', 0x00, 0x50},
		},
		{
			name:     "general_failure",
			reply:    []byte{0x05, 0x01, 0x00, 0x01, 0, 0, 0, 0, 0, 0},
			wantErr:  true,
			wantCode: 0x01,
		},
		{
			name:     "connection_refused",
			reply:    []byte{0x05, 0x05, 0x00, 0x01, 0, 0, 0, 0, 0, 0},
			wantErr:  true,
			wantCode: 0x05,
		},
		{
			name:    "bad_version",
			reply:   []byte{0x04, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientConn, serverConn := net.Pipe()
			defer clientConn.Close()
			defer serverConn.Close()

			g := errgroup.Group{}
			g.Go(func() error {
				req := make([]byte, 10)
				if _, err := io.ReadFull(serverConn, req); err != nil {
					return err
				}
				want := []byte{0x05, 0x01, 0x00, 0x01, 0x7f, 0x00, 0x00, 0x01, 0x00, 0x50}
				if !bytes.Equal(req, want) {
					t.Errorf("request = %x, want %x", req, want)
				}
				_, err := serverConn.Write(tt.reply)
				return err
			})

			err := Connect(clientConn, "127.0.0.1:80")

			// Error paths stop reading mid-reply; drain so the server's
			// pipe write can complete.
			go func() { _, _ = io.Copy(io.Discard, clientConn) }()

			if (err != nil) != tt.wantErr {
				t.Fatalf("Connect() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantCode != 0 {
				var failed *ConnectFailedError
				if !errors.As(err, &failed) {
					t.Fatalf("expected ConnectFailedError, got %v", err)
				}
				if failed.Code != tt.wantCode {
					t.Fatalf("reply code = %d, want %d", failed.Code, tt.wantCode)
				}
			}

			if err := g.Wait(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestConnectShortReply(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		req := make([]byte, 10)
		if _, err := io.ReadFull(c, req); err != nil {
			_ = c.Close()
			return
		}
		// First 6 bytes of a 10-byte IPv4 reply, then close.
		_, _ = c.Write([]byte{0x05, 0x00, 0x00, 0x01, 0, 0})
		_ = c.Close()
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	err = Connect(conn, "127.0.0.1:80")
	if !errors.Is(err, ErrIncompleteResponse) {
		t.Fatalf("expected ErrIncompleteResponse, got %v", err)
	}
}

func TestConnectRequestEncoding(t *testing.T) {
	req, err := connectRequest("127.0.0.1:80")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x05, 0x01, 0x00, 0x01, 0x7f, 0x00, 0x00, 0x01, 0x00, 0x50}
	if !bytes.Equal(req, want) {
		t.Fatalf("connectRequest = %x, want %x", req, want)
	}
}

func TestConnectRequestRejectsBadTargets(t *testing.T) {
	for _, address := range []string{"", "localhost:80", "::1:80", "[2001:db8::1]:80", "127.0.0.1", "127.0.0.1:0", "127.0.0.1:70000"} {
		if _, err := connectRequest(address); err == nil {
			t.Errorf("connectRequest(%q) succeeded, want error", address)
		}
	}
}

func TestReplyCodeName(t *testing.T) {
	if got := ReplyCodeName(0x01); got != "general SOCKS server failure" {
		t.Fatalf("ReplyCodeName(0x01) = %q", got)
	}
	if got := ReplyCodeName(0x7f); got != "unassigned" {
		t.Fatalf("ReplyCodeName(0x7f) = %q", got)
	}
}
