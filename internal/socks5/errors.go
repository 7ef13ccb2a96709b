package socks5

import (
	"errors"
	"fmt"
	"io"
)

// ErrIncompleteResponse indicates the peer closed the connection before
// delivering a complete protocol message.
var ErrIncompleteResponse = errors.New("incomplete response")

// HandshakeRejectedError reports a method selection other than no-auth.
type HandshakeRejectedError struct {
	Method byte
}

func (e *HandshakeRejectedError) Error() string {
	if e.Method == MethodNoAcceptable {
		return "handshake rejected: no acceptable authentication method"
	}
	return fmt.Sprintf("handshake rejected: server selected method 0x%02x, want no-auth", e.Method)
}

// ConnectFailedError reports a nonzero CONNECT reply code.
type ConnectFailedError struct {
	Code byte
}

func (e *ConnectFailedError) Error() string {
	return fmt.Sprintf("connect failed: reply code %d (%s)", e.Code, ReplyCodeName(e.Code))
}

// incomplete maps EOF-style read failures to ErrIncompleteResponse so callers
// can distinguish a peer that closed mid-message from other transport errors.
func incomplete(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrIncompleteResponse, err)
	}
	return err
}
