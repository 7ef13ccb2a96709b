package probe

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPConnect verifies that the proxy at cfg.ProxyAddr answers an HTTP
// CONNECT request for cfg.TargetAddr with a 2xx status.
func HTTPConnect(ctx context.Context, cfg Config) error {
	conn, err := dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("http probe: %w", err)
	}
	defer conn.Close()

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: cfg.TargetAddr},
		Host:   cfg.TargetAddr,
		Header: make(http.Header),
	}

	if err := req.Write(conn); err != nil {
		return fmt.Errorf("http probe: connect write: %w", err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		return fmt.Errorf("http probe: connect read: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("http probe: connect failed: %s", resp.Status)
	}
	return nil
}
