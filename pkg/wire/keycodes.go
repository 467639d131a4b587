package wire

// Key* constants are standard Android KeyEvent values. Only the subset
// actually used by this client is named; any other numeric code can still
// be sent through RemoteKeyInject directly.
const (
	KeyBack   = 4
	KeyHome   = 3
	KeyDPadUp     = 19
	KeyDPadDown   = 20
	KeyDPadLeft   = 21
	KeyDPadRight  = 22
	KeyDPadCenter = 23

	KeyVolumeUp   = 24
	KeyVolumeDown = 25
	KeyVolumeMute = 164

	KeyPower = 26

	KeyPlayPause = 85
	KeyStop      = 86
	KeyNext      = 87
	KeyPrevious  = 88
	KeyRewind    = 89
	KeyFastForward = 90

	KeyChannelUp   = 166
	KeyChannelDown = 167
	KeyGuide       = 172

	Key0 = 7
	Key1 = 8
	Key2 = 9
	Key3 = 10
	Key4 = 11
	Key5 = 12
	Key6 = 13
	Key7 = 14
	Key8 = 15
	Key9 = 16

	KeyDelete = 67
	KeyEnter  = 66
)
