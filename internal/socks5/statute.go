package socks5

// RFC 1928 wire constants, restricted to what the probe exercises.
const (
	Version byte = 0x05

	MethodNone         byte = 0x00
	MethodNoAcceptable byte = 0xff

	CmdConnect byte = 0x01

	ATYPIPv4   byte = 0x01
	ATYPDomain byte = 0x03
	ATYPIPv6   byte = 0x04

	RepSuccess byte = 0x00
)

var replyCodeNames = map[byte]string{
	0x00: "succeeded",
	0x01: "general SOCKS server failure",
	0x02: "connection not allowed by ruleset",
	0x03: "network unreachable",
	0x04: "host unreachable",
	0x05: "connection refused",
	0x06: "TTL expired",
	0x07: "command not supported",
	0x08: "address type not supported",
}

// ReplyCodeName returns the RFC 1928 description for a CONNECT reply code, or
// "unassigned" for codes the RFC leaves undefined.
func ReplyCodeName(code byte) string {
	if name, ok := replyCodeNames[code]; ok {
		return name
	}
	return "unassigned"
}
