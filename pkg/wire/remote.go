package wire

// Key-inject direction values.
const (
	DirectionStartLong = 1
	DirectionEndLong   = 2
	DirectionShort     = 3
)

// ConfigureCode1 is the feature bitmask this client advertises in its
// RemoteConfigure reply: KEY + APP_LINK + IME. The bit-level meaning of
// each component of 622 is not documented upstream; the value is carried
// verbatim because televisions are known to be picky about it.
const ConfigureCode1 = 622

// ClientPackageName/ClientAppVersion identify this client to the television
// in the device_info sub-message of RemoteConfigure.
const (
	ClientPackageName = "atvremote"
	ClientAppVersion  = "1.0.0"
)

// DeviceInfo is the nested device_info of RemoteConfigure.
type DeviceInfo struct {
	Unknown1    uint64
	Unknown2    string
	PackageName string
	AppVersion  string
}

func (d DeviceInfo) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, d.Unknown1)
	w.string(2, d.Unknown2)
	w.string(3, d.PackageName)
	w.string(4, d.AppVersion)
	return w.bytesOut()
}

func decodeDeviceInfo(body []byte) (DeviceInfo, error) {
	var d DeviceInfo
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			d.Unknown1 = f.Varint
		case 2:
			d.Unknown2 = string(f.Bytes)
		case 3:
			d.PackageName = string(f.Bytes)
		case 4:
			d.AppVersion = string(f.Bytes)
		}
		return nil
	})
	return d, err
}

// ClientDeviceInfo is the device_info this client always advertises.
func ClientDeviceInfo() DeviceInfo {
	return DeviceInfo{Unknown1: 1, Unknown2: "1", PackageName: ClientPackageName, AppVersion: ClientAppVersion}
}

// RemoteConfigure is envelope field 1, sent by the television to announce
// capabilities and echoed back (with this client's own code1/device_info)
// as the required reply.
type RemoteConfigure struct {
	Code1      uint64
	DeviceInfo DeviceInfo
}

func (m RemoteConfigure) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, m.Code1)
	w.message(2, m.DeviceInfo.marshal())
	return w.bytesOut()
}

func decodeRemoteConfigure(body []byte) (RemoteConfigure, error) {
	var m RemoteConfigure
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			m.Code1 = f.Varint
		case 2:
			d, err := decodeDeviceInfo(f.Bytes)
			if err != nil {
				return err
			}
			m.DeviceInfo = d
		}
		return nil
	})
	return m, err
}

// ClientConfigureReply builds the RemoteConfigure this client always sends
// in reply to the television's own remote_configure.
func ClientConfigureReply() RemoteConfigure {
	return RemoteConfigure{Code1: ConfigureCode1, DeviceInfo: ClientDeviceInfo()}
}

// RemoteSetActive is envelope field 2.
type RemoteSetActive struct {
	Active uint64
}

func (m RemoteSetActive) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, m.Active)
	return w.bytesOut()
}

func decodeRemoteSetActive(body []byte) (RemoteSetActive, error) {
	var m RemoteSetActive
	err := decodeFields(body, func(f rawField) error {
		if f.Field == 1 {
			m.Active = f.Varint
		}
		return nil
	})
	return m, err
}

// RemotePingRequest is envelope field 8.
type RemotePingRequest struct {
	Val1 uint64
}

func (m RemotePingRequest) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, m.Val1)
	return w.bytesOut()
}

func decodeRemotePingRequest(body []byte) (RemotePingRequest, error) {
	var m RemotePingRequest
	err := decodeFields(body, func(f rawField) error {
		if f.Field == 1 {
			m.Val1 = f.Varint
		}
		return nil
	})
	return m, err
}

// RemotePingResponse is envelope field 9, the required reply to a ping request.
type RemotePingResponse struct {
	Val1 uint64
}

func (m RemotePingResponse) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, m.Val1)
	return w.bytesOut()
}

// RemoteKeyInject is envelope field 10.
type RemoteKeyInject struct {
	KeyCode   uint64
	Direction uint64
}

func (m RemoteKeyInject) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, m.KeyCode)
	w.varint(2, m.Direction)
	return w.bytesOut()
}

func decodeRemoteKeyInject(body []byte) (RemoteKeyInject, error) {
	var m RemoteKeyInject
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			m.KeyCode = f.Varint
		case 2:
			m.Direction = f.Varint
		}
		return nil
	})
	return m, err
}

// RemoteImeKeyInject is envelope field 20. Only the foreground-application
// package name (sub-field 12) is consumed by this client.
type RemoteImeKeyInject struct {
	AppPackage string
}

func decodeRemoteImeKeyInject(body []byte) (RemoteImeKeyInject, error) {
	var m RemoteImeKeyInject
	err := decodeFields(body, func(f rawField) error {
		if f.Field == 12 {
			m.AppPackage = string(f.Bytes)
		}
		return nil
	})
	return m, err
}

// TextFieldStatus is the nested value of an EditInfo insert.
type TextFieldStatus struct {
	Start uint64
	End   uint64
	Value string
}

func (s TextFieldStatus) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, s.Start)
	w.varint(2, s.End)
	w.string(3, s.Value)
	return w.bytesOut()
}

// EditInfo carries one text edit operation.
type EditInfo struct {
	Insert          uint64
	TextFieldStatus TextFieldStatus
}

func (e EditInfo) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, e.Insert)
	w.message(2, e.TextFieldStatus.marshal())
	return w.bytesOut()
}

// RemoteImeBatchEdit is envelope field 21, used both for inbound IME-counter
// announcements from the television and outbound text-insert commands.
type RemoteImeBatchEdit struct {
	ImeCounter   uint64
	FieldCounter uint64
	EditInfo     *EditInfo
}

func (m RemoteImeBatchEdit) marshal() []byte {
	w := &fieldWriter{}
	w.varint(1, m.ImeCounter)
	w.varint(2, m.FieldCounter)
	if m.EditInfo != nil {
		w.message(3, m.EditInfo.marshal())
	}
	return w.bytesOut()
}

func decodeRemoteImeBatchEdit(body []byte) (RemoteImeBatchEdit, error) {
	var m RemoteImeBatchEdit
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			m.ImeCounter = f.Varint
		case 2:
			m.FieldCounter = f.Varint
		}
		return nil
	})
	return m, err
}

// RemoteStart is envelope field 40, reporting television power state.
type RemoteStart struct {
	Started bool
}

func decodeRemoteStart(body []byte) (RemoteStart, error) {
	var m RemoteStart
	err := decodeFields(body, func(f rawField) error {
		if f.Field == 1 {
			m.Started = f.Varint != 0
		}
		return nil
	})
	return m, err
}

// RemoteSetVolumeLevel is envelope field 50.
type RemoteSetVolumeLevel struct {
	Max   uint64
	Level uint64
	Muted bool
}

func decodeRemoteSetVolumeLevel(body []byte) (RemoteSetVolumeLevel, error) {
	var m RemoteSetVolumeLevel
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 6:
			m.Max = f.Varint
		case 7:
			m.Level = f.Varint
		case 8:
			m.Muted = f.Varint != 0
		}
		return nil
	})
	return m, err
}

// RemoteMessage is the envelope carried over the command channel (tcp/6466).
// Exactly one of the inner pointers is set on any given message.
type RemoteMessage struct {
	Configure     *RemoteConfigure
	SetActive     *RemoteSetActive
	PingRequest   *RemotePingRequest
	PingResponse  *RemotePingResponse
	KeyInject     *RemoteKeyInject
	ImeKeyInject  *RemoteImeKeyInject
	ImeBatchEdit  *RemoteImeBatchEdit
	Start         *RemoteStart
	SetVolumeLevel *RemoteSetVolumeLevel
}

// Encode serializes the envelope to its wire-format bytes (no length prefix).
// ImeKeyInject, Start and SetVolumeLevel are decode-only and are not encoded.
func (m RemoteMessage) Encode() []byte {
	w := &fieldWriter{}
	switch {
	case m.Configure != nil:
		w.message(1, m.Configure.marshal())
	case m.SetActive != nil:
		w.message(2, m.SetActive.marshal())
	case m.PingRequest != nil:
		w.message(8, m.PingRequest.marshal())
	case m.PingResponse != nil:
		w.message(9, m.PingResponse.marshal())
	case m.KeyInject != nil:
		w.message(10, m.KeyInject.marshal())
	case m.ImeBatchEdit != nil:
		w.message(21, m.ImeBatchEdit.marshal())
	}
	return w.bytesOut()
}

// DecodeRemoteMessage parses a command-channel envelope body. Unknown
// envelope fields are silently skipped by decodeFields's wire-type handling.
func DecodeRemoteMessage(body []byte) (RemoteMessage, error) {
	var m RemoteMessage
	err := decodeFields(body, func(f rawField) error {
		switch f.Field {
		case 1:
			v, err := decodeRemoteConfigure(f.Bytes)
			if err != nil {
				return err
			}
			m.Configure = &v
		case 2:
			v, err := decodeRemoteSetActive(f.Bytes)
			if err != nil {
				return err
			}
			m.SetActive = &v
		case 8:
			v, err := decodeRemotePingRequest(f.Bytes)
			if err != nil {
				return err
			}
			m.PingRequest = &v
		case 9:
			// Only emitted by a client; a real television never sends this,
			// but decode it defensively rather than erroring.
			var v RemotePingResponse
			err := decodeFields(f.Bytes, func(ff rawField) error {
				if ff.Field == 1 {
					v.Val1 = ff.Varint
				}
				return nil
			})
			if err != nil {
				return err
			}
			m.PingResponse = &v
		case 10:
			v, err := decodeRemoteKeyInject(f.Bytes)
			if err != nil {
				return err
			}
			m.KeyInject = &v
		case 20:
			v, err := decodeRemoteImeKeyInject(f.Bytes)
			if err != nil {
				return err
			}
			m.ImeKeyInject = &v
		case 21:
			v, err := decodeRemoteImeBatchEdit(f.Bytes)
			if err != nil {
				return err
			}
			m.ImeBatchEdit = &v
		case 40:
			v, err := decodeRemoteStart(f.Bytes)
			if err != nil {
				return err
			}
			m.Start = &v
		case 50:
			v, err := decodeRemoteSetVolumeLevel(f.Bytes)
			if err != nil {
				return err
			}
			m.SetVolumeLevel = &v
		}
		return nil
	})
	return m, err
}
