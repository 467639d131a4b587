package pairing

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// evenHexBytes renders n the way the reference client does: minimal hex (no
// forced width), padded with a leading zero nibble if that minimal
// representation has an odd number of hex digits, then re-parsed to bytes.
// This is NOT a fixed-width big-endian encoding and adds no sign byte: for
// any positive n the result equals n.Bytes(), the minimal big-endian bytes.
func evenHexBytes(n *big.Int) []byte {
	h := n.Text(16)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	b, _ := hex.DecodeString(h)
	return b
}

// codeBytes splits a 6-hex-character pairing code into its three bytes.
func codeBytes(code string) (c0, c1, c2 byte, err error) {
	if len(code) != 6 {
		return 0, 0, 0, fmt.Errorf("pairing: code must be 6 hex characters, got %q", code)
	}
	b, err := hex.DecodeString(code)
	if err != nil || len(b) != 3 {
		return 0, 0, 0, fmt.Errorf("pairing: code %q is not valid hex", code)
	}
	return b[0], b[1], b[2], nil
}

// DeriveSecret computes the 32-byte pairing secret:
//
//	H = SHA256(client_mod || client_exp || server_mod || server_exp || c1 || c2)
//
// and verifies H's first byte equals c0, returning ErrBadCode if it does
// not (the user mistyped the code, or a certificate is wrong).
func DeriveSecret(clientPub, serverPub *rsa.PublicKey, code string) ([]byte, error) {
	c0, c1, c2, err := codeBytes(code)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	h.Write(evenHexBytes(clientPub.N))
	h.Write(evenHexBytes(big.NewInt(int64(clientPub.E))))
	h.Write(evenHexBytes(serverPub.N))
	h.Write(evenHexBytes(big.NewInt(int64(serverPub.E))))
	h.Write([]byte{c1})
	h.Write([]byte{c2})
	sum := h.Sum(nil)

	if sum[0] != c0 {
		return nil, ErrBadCode
	}
	return sum, nil
}
