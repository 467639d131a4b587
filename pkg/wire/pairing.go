package wire

// Pairing encoding types (PairingEncoding.Type).
const (
	EncodingHexadecimal = 3
)

// Pairing roles (PairingOption.PreferredRole / PairingConfiguration.ClientRole).
const (
	RoleInput = 1
)

// Pairing status codes.
const (
	StatusOK       = 200
	StatusBadCode  = 400
	StatusProtocolVersion = 2
)

// PairingEncoding describes the secret encoding both sides agree to use.
// It is always HEXADECIMAL/6 for this protocol, but is encoded explicitly
// because the television echoes it back and a decoder must handle it.
type PairingEncoding struct {
	Type         uint64
	SymbolLength uint64
}

func (e PairingEncoding) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, e.Type)
	w.varint(2, e.SymbolLength)
	return w.bytesOut()
}

func decodePairingEncoding(body []byte) (PairingEncoding, error) {
	var e PairingEncoding
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			e.Type = f.Varint
		case 2:
			e.SymbolLength = f.Varint
		}
		return nil
	})
	return e, err
}

// DefaultEncoding is the only encoding this client ever offers or accepts.
func DefaultEncoding() PairingEncoding {
	return PairingEncoding{Type: EncodingHexadecimal, SymbolLength: 6}
}

// PairingRequest is envelope field 10, step 1a of the handshake.
type PairingRequest struct {
	ServiceName string
	ClientName  string
}

func (m PairingRequest) marshal() []byte {
	w := &fieldWriter{}
	w.string(1, m.ServiceName)
	w.string(2, m.ClientName)
	return w.bytesOut()
}

func decodePairingRequest(body []byte) (PairingRequest, error) {
	var m PairingRequest
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			m.ServiceName = string(f.Bytes)
		case 2:
			m.ClientName = string(f.Bytes)
		}
		return nil
	})
	return m, err
}

// PairingOption is envelope field 20, step 2a.
type PairingOption struct {
	Encoding        PairingEncoding
	PreferredRole   uint64
}

func (m PairingOption) marshal() []byte {
	w := &fieldWriter{}
	w.message(1, m.Encoding.marshal())
	w.varint(2, m.PreferredRole)
	return w.bytesOut()
}

func decodePairingOption(body []byte) (PairingOption, error) {
	var m PairingOption
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			enc, err := decodePairingEncoding(f.Bytes)
			if err != nil {
				return err
			}
			m.Encoding = enc
		case 2:
			m.PreferredRole = f.Varint
		}
		return nil
	})
	return m, err
}

// PairingConfiguration is envelope field 30, step 3a.
type PairingConfiguration struct {
	Encoding   PairingEncoding
	ClientRole uint64
}

func (m PairingConfiguration) marshal() []byte {
	w := &fieldWriter{}
	w.message(1, m.Encoding.marshal())
	w.varint(2, m.ClientRole)
	return w.bytesOut()
}

func decodePairingConfiguration(body []byte) (PairingConfiguration, error) {
	var m PairingConfiguration
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			enc, err := decodePairingEncoding(f.Bytes)
			if err != nil {
				return err
			}
			m.Encoding = enc
		case 2:
			m.ClientRole = f.Varint
		}
		return nil
	})
	return m, err
}

// PairingSecret is envelope field 40, step 5a — the 32-byte SHA-256 value.
type PairingSecret struct {
	Secret []byte
}

func (m PairingSecret) marshal() []byte {
	w := &fieldWriter{}
	w.bytes(1, m.Secret)
	return w.bytesOut()
}

func decodePairingSecret(body []byte) (PairingSecret, error) {
	var m PairingSecret
	err := decodeFields(body, func(f rawField) error {
		if f.Field == 1 {
			m.Secret = append([]byte(nil), f.Bytes...)
		}
		return nil
	})
	return m, err
}

// PairingMessage is the envelope carried over the pairing channel (tcp/6467).
// Exactly one of the inner pointers is set, selected by which envelope field
// was present on the wire.
type PairingMessage struct {
	ProtocolVersion uint64
	Status          uint64

	Request       *PairingRequest
	Option        *PairingOption
	Configuration *PairingConfiguration
	Secret        *PairingSecret
}

// NewPairingMessage builds an envelope with the protocol defaults
// (version 2, status OK) and no inner message set.
func NewPairingMessage() PairingMessage {
	return PairingMessage{ProtocolVersion: StatusProtocolVersion, Status: StatusOK}
}

// Encode serializes the envelope to its wire-format bytes (no length prefix).
func (m PairingMessage) Encode() []byte {
	w := &fieldWriter{}
	w.varint(1, m.ProtocolVersion)
	w.varint(2, m.Status)
	switch {
	case m.Request != nil:
		w.message(10, m.Request.marshal())
	case m.Option != nil:
		w.message(20, m.Option.marshal())
	case m.Configuration != nil:
		w.message(30, m.Configuration.marshal())
	case m.Secret != nil:
		w.message(40, m.Secret.marshal())
	}
	return w.bytesOut()
}

// DecodePairingMessage parses a pairing-channel envelope body.
func DecodePairingMessage(body []byte) (PairingMessage, error) {
	var m PairingMessage
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			m.ProtocolVersion = f.Varint
		case 2:
			m.Status = f.Varint
		case 10:
			v, err := decodePairingRequest(f.Bytes)
			if err != nil {
				return err
			}
			m.Request = &v
		case 20:
			v, err := decodePairingOption(f.Bytes)
			if err != nil {
				return err
			}
			m.Option = &v
		case 30:
			v, err := decodePairingConfiguration(f.Bytes)
			if err != nil {
				return err
			}
			m.Configuration = &v
		case 40:
			v, err := decodePairingSecret(f.Bytes)
			if err != nil {
				return err
			}
			m.Secret = &v
		}
		return nil
	})
	return m, err
}
