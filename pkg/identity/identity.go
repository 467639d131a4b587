// Package identity manages the client's long-lived TLS identity: a single
// RSA-2048 key pair and self-signed certificate generated once and reused
// for every pairing handshake and command-channel connection thereafter.
// Televisions pin this identity across sessions, so regenerating it (short
// of the user explicitly resetting state) invalidates every prior pairing.
package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// keyBits is the RSA modulus size mandated by the protocol.
const keyBits = 2048

// validity is the certificate lifetime from generation.
const validity = 10 * 365 * 24 * time.Hour

// Identity is the client's certificate and private key, held ready to hand
// to tls.Config.Certificates.
type Identity struct {
	Certificate *x509.Certificate
	PrivateKey  *rsa.PrivateKey
	Raw         []byte // DER-encoded certificate, as produced at generation time
}

// TLSCertificate returns the identity in the shape crypto/tls wants.
func (id *Identity) TLSCertificate() tls.Certificate {
	return tls.Certificate{
		Certificate: [][]byte{id.Raw},
		PrivateKey:  id.PrivateKey,
		Leaf:        id.Certificate,
	}
}

// Fingerprint returns a stable identifier for this identity, derived from
// the certificate's DER bytes, useful for log correlation.
func (id *Identity) Fingerprint() string {
	sum := sha256.Sum256(id.Raw)
	return fmt.Sprintf("%x", sum[:8])
}

// Generate creates a fresh RSA-2048 self-signed identity:
// 10-year validity, serial = current time in milliseconds, CN containing
// the device model, KeyUsage(digitalSignature|keyEncipherment) critical,
// ExtKeyUsage(clientAuth) only — adding serverAuth breaks acceptance on
// some televisions, so it must never be added here.
func Generate(deviceName string) (*Identity, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}

	now := time.Now()
	serial := big.NewInt(now.UnixMilli())
	subject := pkix.Name{
		CommonName:   fmt.Sprintf("AndroidTvRemote_%s", safeDeviceName(deviceName)),
		Organization: []string{"atvremote"},
		Country:      []string{"US"},
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               subject,
		Issuer:                subject,
		NotBefore:             now,
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		SignatureAlgorithm:    x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("identity: create certificate: %w", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("identity: parse generated certificate: %w", err)
	}

	return &Identity{Certificate: cert, PrivateKey: key, Raw: der}, nil
}

// safeDeviceName returns name unchanged, substituting "unknown" for an
// empty name. The real client just uses the device model string.
func safeDeviceName(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}

// ErrNoIdentity is returned by stores that have nothing persisted yet.
var ErrNoIdentity = errors.New("identity: no stored identity")
