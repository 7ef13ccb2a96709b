package probe

// Package probe implements the proxy conformance checks run by proxyprobe.
//
// Each probe is a single attempt: it opens one TCP connection to the proxy
// under test, drives the protocol handshake with a bounded deadline, and
// reports the first failing check as an error. A nil return means every check
// passed. Retrying is left to the caller.
