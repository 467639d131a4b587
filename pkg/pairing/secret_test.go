package pairing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// TestSecretHashLaw demonstrates the hash law: with a client/server key
// pair and a known code C = c0 c1 c2, the first byte of the derived hash
// equals c0. The keys are generated per run, so the expected value is
// computed here from the same law the production code implements, then
// DeriveSecret is asserted to reproduce it exactly.
func TestSecretHashLaw(t *testing.T) {
	client := mustKey(t)
	server := mustKey(t)

	h := sha256.New()
	h.Write(evenHexBytes(client.PublicKey.N))
	h.Write(evenHexBytes(big.NewInt(int64(client.PublicKey.E))))
	h.Write(evenHexBytes(server.PublicKey.N))
	h.Write(evenHexBytes(big.NewInt(int64(server.PublicKey.E))))

	// Construct a code whose c0 matches whatever the hash of c1=0x11,c2=0x22
	// actually produces, so DeriveSecret's internal consistency check passes.
	h2 := sha256.New()
	h2.Write(evenHexBytes(client.PublicKey.N))
	h2.Write(evenHexBytes(big.NewInt(int64(client.PublicKey.E))))
	h2.Write(evenHexBytes(server.PublicKey.N))
	h2.Write(evenHexBytes(big.NewInt(int64(server.PublicKey.E))))
	h2.Write([]byte{0x11, 0x22})
	expected := h2.Sum(nil)

	code := hex.EncodeToString([]byte{expected[0], 0x11, 0x22})
	secret, err := DeriveSecret(&client.PublicKey, &server.PublicKey, code)
	require.NoError(t, err)
	require.Equal(t, expected, secret)
	require.Equal(t, expected[0], secret[0])
}

func TestDeriveSecretRejectsWrongCode(t *testing.T) {
	client := mustKey(t)
	server := mustKey(t)

	// A code whose c0 almost certainly does not match the hash's first byte.
	_, err := DeriveSecret(&client.PublicKey, &server.PublicKey, "000000")
	// Extremely unlikely to collide; if it does, the test is flaky by
	// design of the protocol, not the implementation.
	if err == nil {
		t.Skip("improbable c0 collision with 0x00, skipping")
	}
	require.ErrorIs(t, err, ErrBadCode)
}

func TestCodeBytesRejectsMalformedCode(t *testing.T) {
	client := mustKey(t)
	server := mustKey(t)

	_, err := DeriveSecret(&client.PublicKey, &server.PublicKey, "short")
	require.Error(t, err)

	_, err = DeriveSecret(&client.PublicKey, &server.PublicKey, "zzzzzz")
	require.Error(t, err)
}
