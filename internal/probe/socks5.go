package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/die-net/proxyprobe/internal/socks5"
)

// SOCKS5 verifies that the proxy at cfg.ProxyAddr completes a SOCKS5 no-auth
// CONNECT handshake for cfg.TargetAddr.
//
// A connect failure, a rejected or malformed method selection, a nonzero
// reply code, a short read, or a deadline expiry all surface as errors; the
// connection is closed on every exit path.
func SOCKS5(ctx context.Context, cfg Config) error {
	conn, err := dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("socks5 probe: %w", err)
	}
	defer conn.Close()

	if err := socks5.Negotiate(conn); err != nil {
		return fmt.Errorf("socks5 probe: %w", err)
	}
	if err := socks5.Connect(conn, cfg.TargetAddr); err != nil {
		return fmt.Errorf("socks5 probe: %w", err)
	}
	return nil
}

func dial(ctx context.Context, cfg Config) (net.Conn, error) {
	d := net.Dialer{Timeout: cfg.DialTimeout}

	conn, err := d.DialContext(ctx, "tcp", cfg.ProxyAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.ProxyAddr, err)
	}

	if cfg.NegotiationTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.NegotiationTimeout))
	}
	return conn, nil
}
