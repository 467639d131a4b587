package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairingRequestRoundTrip(t *testing.T) {
	msg := NewPairingMessage()
	msg.Request = &PairingRequest{ServiceName: "androidtvremote", ClientName: "atvremote-go"}

	body := msg.Encode()
	decoded, err := DecodePairingMessage(body)
	require.NoError(t, err)

	require.EqualValues(t, StatusProtocolVersion, decoded.ProtocolVersion)
	require.EqualValues(t, StatusOK, decoded.Status)
	require.NotNil(t, decoded.Request)
	require.Equal(t, "androidtvremote", decoded.Request.ServiceName)
	require.Equal(t, "atvremote-go", decoded.Request.ClientName)
}

func TestPairingOptionRoundTrip(t *testing.T) {
	msg := NewPairingMessage()
	msg.Option = &PairingOption{Encoding: DefaultEncoding(), PreferredRole: RoleInput}

	decoded, err := DecodePairingMessage(msg.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.Option)
	require.Equal(t, uint64(EncodingHexadecimal), decoded.Option.Encoding.Type)
	require.Equal(t, uint64(6), decoded.Option.Encoding.SymbolLength)
	require.Equal(t, uint64(RoleInput), decoded.Option.PreferredRole)
}

func TestPairingConfigurationRoundTrip(t *testing.T) {
	msg := NewPairingMessage()
	msg.Configuration = &PairingConfiguration{Encoding: DefaultEncoding(), ClientRole: RoleInput}

	decoded, err := DecodePairingMessage(msg.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.Configuration)
	require.Equal(t, uint64(6), decoded.Configuration.Encoding.SymbolLength)
}

func TestPairingSecretRoundTrip(t *testing.T) {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}
	msg := NewPairingMessage()
	msg.Secret = &PairingSecret{Secret: secret}

	decoded, err := DecodePairingMessage(msg.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.Secret)
	require.Equal(t, secret, decoded.Secret.Secret)
}

func TestPairingFrameRoundTrip(t *testing.T) {
	msg := NewPairingMessage()
	msg.Request = &PairingRequest{ServiceName: "androidtvremote", ClientName: "atvremote-go"}

	framed := EncodePairing(msg)
	require.Greater(t, len(framed), len(msg.Encode()))
}
