package discovery

import "context"

// Browser searches for Android TV Remote v2 televisions on the local mDNS
// namespace and reports them as an observable, deduplicated list.
type Browser interface {
	// Start begins browsing. It auto-stops after DefaultBrowseDuration
	// unless continuous is true, in which case it runs until Stop is
	// called or ctx is cancelled.
	Start(ctx context.Context, continuous bool) error

	// Observe returns a channel that receives the current deduplicated
	// television list every time it changes.
	Observe() <-chan []Television

	// Stop ends browsing and closes the Observe channel.
	Stop()
}

// PairedChecker answers whether an ip is already paired, so Browser can
// fill in Television.Paired without depending on pkg/registry directly.
type PairedChecker interface {
	IsPaired(ip string) bool
}
