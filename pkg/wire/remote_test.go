package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoteConfigureRoundTrip(t *testing.T) {
	reply := RemoteMessage{Configure: &[]RemoteConfigure{ClientConfigureReply()}[0]}
	decoded, err := DecodeRemoteMessage(reply.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.Configure)
	require.EqualValues(t, ConfigureCode1, decoded.Configure.Code1)
	require.Equal(t, ClientPackageName, decoded.Configure.DeviceInfo.PackageName)
	require.Equal(t, ClientAppVersion, decoded.Configure.DeviceInfo.AppVersion)
}

func TestRemoteSetActiveRoundTrip(t *testing.T) {
	msg := RemoteMessage{SetActive: &RemoteSetActive{Active: ConfigureCode1}}
	decoded, err := DecodeRemoteMessage(msg.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.SetActive)
	require.EqualValues(t, ConfigureCode1, decoded.SetActive.Active)
}

func TestRemoteKeyInjectRoundTrip(t *testing.T) {
	msg := RemoteMessage{KeyInject: &RemoteKeyInject{KeyCode: KeyDPadUp, Direction: DirectionShort}}
	decoded, err := DecodeRemoteMessage(msg.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.KeyInject)
	require.EqualValues(t, KeyDPadUp, decoded.KeyInject.KeyCode)
	require.EqualValues(t, DirectionShort, decoded.KeyInject.Direction)
}

func TestRemoteImeBatchEditRoundTrip(t *testing.T) {
	msg := RemoteMessage{ImeBatchEdit: &RemoteImeBatchEdit{
		ImeCounter:   7,
		FieldCounter: 3,
		EditInfo: &EditInfo{
			Insert: 1,
			TextFieldStatus: TextFieldStatus{Start: 1, End: 1, Value: "hi"},
		},
	}}
	decoded, err := DecodeRemoteMessage(msg.Encode())
	require.NoError(t, err)
	require.NotNil(t, decoded.ImeBatchEdit)
	require.EqualValues(t, 7, decoded.ImeBatchEdit.ImeCounter)
	require.EqualValues(t, 3, decoded.ImeBatchEdit.FieldCounter)
}

func TestRemoteSetVolumeLevelDecode(t *testing.T) {
	w := &fieldWriter{}
	w.varint(6, 15)
	w.varint(7, 8)
	w.bool(8, true)
	body := w.bytesOut()

	outer := &fieldWriter{}
	outer.message(50, body)

	decoded, err := DecodeRemoteMessage(outer.bytesOut())
	require.NoError(t, err)
	require.NotNil(t, decoded.SetVolumeLevel)
	require.EqualValues(t, 15, decoded.SetVolumeLevel.Max)
	require.EqualValues(t, 8, decoded.SetVolumeLevel.Level)
	require.True(t, decoded.SetVolumeLevel.Muted)
}

func TestRemoteStartDecode(t *testing.T) {
	w := &fieldWriter{}
	w.bool(1, true)
	outer := &fieldWriter{}
	outer.message(40, w.bytesOut())

	decoded, err := DecodeRemoteMessage(outer.bytesOut())
	require.NoError(t, err)
	require.NotNil(t, decoded.Start)
	require.True(t, decoded.Start.Started)
}

func TestUnknownEnvelopeFieldIgnored(t *testing.T) {
	w := &fieldWriter{}
	w.varint(99, 1234)
	w.message(2, RemoteSetActive{Active: 1}.marshal())

	decoded, err := DecodeRemoteMessage(w.bytesOut())
	require.NoError(t, err)
	require.NotNil(t, decoded.SetActive)
}
