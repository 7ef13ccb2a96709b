package probe

import "time"

type Config struct {
	// ProxyAddr is the host:port of the proxy under test.
	ProxyAddr string

	// TargetAddr is the destination the probe asks the proxy to connect
	// to. The SOCKS5 probe requires an IPv4 host:port.
	TargetAddr string

	// DialTimeout bounds the TCP connect to the proxy.
	DialTimeout time.Duration

	// NegotiationTimeout bounds the whole handshake exchange once
	// connected. Zero means no deadline.
	NegotiationTimeout time.Duration
}
