package session

import "time"

// connectBackoff is the fixed two-step linear schedule used on
// command-channel connect: 1s after the first failure, 2s after the
// second, three attempts total.
var connectBackoff = []time.Duration{1 * time.Second, 2 * time.Second}

const maxConnectAttempts = 3
