// Package discovery browses mDNS for Android TV Remote v2 televisions
// advertising _androidtvremote2._tcp. and maintains an observable,
// deduplicated list of what is currently reachable.
package discovery

import "time"

// ServiceType is the mDNS service this client browses for.
const ServiceType = "_androidtvremote2._tcp"

// DefaultBrowseDuration is how long Start runs before auto-stopping, unless
// the caller asks it to run continuously.
const DefaultBrowseDuration = 20 * time.Second

// Television is one discovered set-top box, keyed by ip-address (equality
// is by ip-address; Paired is filled in by the Browser from its
// PairedChecker).
type Television struct {
	InstanceName string
	Host         string
	IP           string
	Port         int
	ModelName    string // TXT key "mn"
	Manufacturer string // TXT key "md"
	Paired       bool
}

// PairingPort and CommandPort are the two TCP ports this protocol uses;
// discovery resolves the advertised port (normally CommandPort) but a
// television also always answers on PairingPort.
const (
	PairingPort = 6467
	CommandPort = 6466
)
