package interactive

import "github.com/atvremote/atvremote-go/pkg/wire"

// keyNames maps a handful of friendly aliases to the numeric KeyEvent codes
// in pkg/wire, so interactive use doesn't require memorizing Android
// KeyEvent numbers.
var keyNames = map[string]uint64{
	"up":           wire.KeyDPadUp,
	"dpad_up":      wire.KeyDPadUp,
	"down":         wire.KeyDPadDown,
	"dpad_down":    wire.KeyDPadDown,
	"left":         wire.KeyDPadLeft,
	"dpad_left":    wire.KeyDPadLeft,
	"right":        wire.KeyDPadRight,
	"dpad_right":   wire.KeyDPadRight,
	"center":       wire.KeyDPadCenter,
	"select":       wire.KeyDPadCenter,
	"ok":           wire.KeyDPadCenter,
	"back":         wire.KeyBack,
	"home":         wire.KeyHome,
	"volume_up":    wire.KeyVolumeUp,
	"vol_up":       wire.KeyVolumeUp,
	"volume_down":  wire.KeyVolumeDown,
	"vol_down":     wire.KeyVolumeDown,
	"mute":         wire.KeyVolumeMute,
	"power":        wire.KeyPower,
	"play_pause":   wire.KeyPlayPause,
	"stop":         wire.KeyStop,
	"next":         wire.KeyNext,
	"previous":     wire.KeyPrevious,
	"prev":         wire.KeyPrevious,
	"rewind":       wire.KeyRewind,
	"fast_forward": wire.KeyFastForward,
	"ff":           wire.KeyFastForward,
	"channel_up":   wire.KeyChannelUp,
	"channel_down": wire.KeyChannelDown,
	"guide":        wire.KeyGuide,
	"delete":       wire.KeyDelete,
	"enter":        wire.KeyEnter,
}
