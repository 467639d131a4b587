package wire

// EnvelopeField identifies which inner message a RemoteMessage envelope
// carries, by its outermost field number. Exported so a session reader can
// branch on the field before fully decoding the payload.
type EnvelopeField int

const (
	FieldRemoteConfigure      EnvelopeField = 1
	FieldRemoteSetActive      EnvelopeField = 2
	FieldRemotePingRequest    EnvelopeField = 8
	FieldRemotePingResponse   EnvelopeField = 9
	FieldRemoteKeyInject      EnvelopeField = 10
	FieldRemoteImeKeyInject   EnvelopeField = 20
	FieldRemoteImeBatchEdit   EnvelopeField = 21
	FieldRemoteStart          EnvelopeField = 40
	FieldRemoteSetVolumeLevel EnvelopeField = 50
)

// PeekEnvelopeField returns the first length-delimited field number found in
// an envelope body without fully decoding it, so a caller can discard a
// frame carrying a field it doesn't recognize before paying for a full
// decode. Returns 0 if no length-delimited field is found.
func PeekEnvelopeField(body []byte) (EnvelopeField, error) {
	var field EnvelopeField
	err := decodeFields(body, func(f rawField) error {
		if field == 0 && f.WireType == wireLenDelim && f.Field >= 1 {
			field = EnvelopeField(f.Field)
		}
		return nil
	})
	return field, err
}

// EncodePairing frames and returns a PairingMessage ready to write to a
// pairing-channel connection (varint length prefix included).
func EncodePairing(m PairingMessage) []byte {
	body := m.Encode()
	return append(putUvarint(nil, uint64(len(body))), body...)
}
