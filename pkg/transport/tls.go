// Package transport provides the mutual-TLS connections used for both the
// pairing channel (tcp/6467) and the command channel (tcp/6466), plus the
// varint-framed read/write pair layered on top of them.
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// Config builds the single *tls.Config instance reused for every pairing
// and command connection. Televisions pin the precise TLS
// identity used during pairing, so the same *tls.Config must be handed to
// every dial — never rebuilt per connection.
type Config struct {
	// Certificate is the client's long-lived identity (pkg/identity).
	Certificate tls.Certificate
}

// NewTLSConfig returns a *tls.Config that:
//   - presents the client certificate unconditionally, regardless of the
//     server's accepted-issuer list (televisions don't advertise one);
//   - trusts every server certificate — checkServerTrusted is a no-op,
//     because the mutual-auth binding from pairing is what actually pins
//     trust, not the normal CA chain;
//   - negotiates TLS 1.2 only: under TLS 1.3 a television's rejection of
//     the client certificate would arrive only after the client handshake
//     has returned, instead of failing the dial.
func NewTLSConfig(cfg Config) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		MaxVersion:         tls.VersionTLS12,
		Certificates:       []tls.Certificate{cfg.Certificate},
		InsecureSkipVerify: true,
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 {
				return fmt.Errorf("transport: television presented no certificate")
			}
			// Trust-any-server-cert: all we require is that a certificate
			// parses. Trust itself comes from completing the pairing
			// handshake, not from verifying a chain here.
			_, err := x509.ParseCertificate(rawCerts[0])
			return err
		},
	}
}

// ServerLeaf extracts the server's leaf certificate from a completed
// handshake, needed by the pairing engine to derive the pairing secret.
func ServerLeaf(state tls.ConnectionState) (*x509.Certificate, error) {
	if len(state.PeerCertificates) == 0 {
		return nil, fmt.Errorf("transport: no peer certificate presented")
	}
	return state.PeerCertificates[0], nil
}
