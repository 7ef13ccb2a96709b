package testutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
)

// ServeHTTPConnect handles one connection as a minimal HTTP CONNECT proxy:
// it reads a CONNECT request, dials the requested destination, answers 200,
// and relays until either side closes. Non-CONNECT methods get 405; an
// unreachable destination gets 502.
func ServeHTTPConnect(ctx context.Context, c net.Conn) error {
	br := bufio.NewReader(c)
	req, err := http.ReadRequest(br)
	if err != nil {
		return err
	}
	if req.Method != http.MethodConnect {
		_, _ = fmt.Fprintf(c, "HTTP/1.1 405 Method Not Allowed\r\n\r\n")
		return nil
	}

	d := net.Dialer{}
	dst, err := d.DialContext(ctx, "tcp", req.Host)
	if err != nil {
		_, _ = fmt.Fprintf(c, "HTTP/1.1 502 Bad Gateway\r\n\r\n")
		return nil
	}
	defer dst.Close()

	if _, err := fmt.Fprintf(c, "HTTP/1.1 200 Connection Established\r\n\r\n"); err != nil {
		return err
	}

	go func() {
		_, _ = io.Copy(dst, br)
		_ = dst.Close()
	}()
	_, _ = io.Copy(c, dst)

	return nil
}
