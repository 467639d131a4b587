package session

// ConnState is the command-channel connection's sum-type state:
// Disconnected → Connecting → Connected(ip) → (Disconnected | Error(reason)).
// Transitions are exhaustive-match on the current variant.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Error
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// ConnectionUpdate is one observable connection-state transition.
type ConnectionUpdate struct {
	IP    string
	State ConnState
	Err   error
}

// VolumeState mirrors the television's remote_set_volume_level sub-fields.
type VolumeState struct {
	Max   uint64
	Level uint64
	Muted bool
}

// PowerState mirrors the television's remote_start boolean.
type PowerState struct {
	On bool
}

// AppState mirrors the foreground package name from remote_ime_key_inject.
type AppState struct {
	PackageName string
}
