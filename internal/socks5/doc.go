package socks5

// Package socks5 implements the client side of the SOCKS5 wire exchange that
// proxyprobe drives against a proxy under test.
//
// Only the exchange under test is covered: no-auth method negotiation and a
// CONNECT request/reply for an IPv4 target. Messages are built and checked as
// explicit byte sequences so that a failure can name the exact byte that
// deviated from RFC 1928.
//
// This package is deliberately not a general-purpose SOCKS5 client. The
// in-repo test servers use github.com/txthinking/socks5 for the server side
// instead of duplicating protocol logic here.
