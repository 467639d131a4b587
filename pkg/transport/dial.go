package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
)

// Dial opens a TLS connection to addr using cfg, bounded by ctx. The caller
// is responsible for ctx carrying whatever timeout applies (10s for pairing,
// 5s per command-channel attempt).
func Dial(ctx context.Context, addr string, cfg *tls.Config) (*tls.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	conn := tls.Client(rawConn, cfg)
	if err := conn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("transport: tls handshake with %s: %w", addr, err)
	}
	return conn, nil
}
