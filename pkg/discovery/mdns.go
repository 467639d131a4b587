package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSBrowser is the Browser implementation backed by mDNS service
// discovery. Entries arrive already resolved from zeroconf's Browse and are
// handled one at a time by a single consumer goroutine; MDNSBrowser issues
// no resolve calls of its own.
type MDNSBrowser struct {
	paired PairedChecker

	mu       sync.Mutex
	byIP     map[string]Television
	observers []chan []Television
	cancel    context.CancelFunc
	resolveMu sync.Mutex
}

// NewMDNSBrowser returns a Browser that cross-references discovered
// televisions against paired. paired may be nil, in which case every
// discovered television reports Paired=false.
func NewMDNSBrowser(paired PairedChecker) *MDNSBrowser {
	return &MDNSBrowser{
		paired: paired,
		byIP:   make(map[string]Television),
	}
}

func (b *MDNSBrowser) Start(ctx context.Context, continuous bool) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("discovery: create resolver: %w", err)
	}

	browseCtx, cancel := context.WithCancel(ctx)
	if !continuous {
		browseCtx, cancel = context.WithTimeout(ctx, DefaultBrowseDuration)
	}

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	entries := make(chan *zeroconf.ServiceEntry, 16)
	go b.consume(entries)

	if err := resolver.Browse(browseCtx, ServiceType, "local.", entries); err != nil {
		cancel()
		return fmt.Errorf("discovery: browse: %w", err)
	}
	return nil
}

func (b *MDNSBrowser) consume(entries <-chan *zeroconf.ServiceEntry) {
	for entry := range entries {
		// Handle each resolved entry one at a time.
		b.resolveMu.Lock()
		tv := b.toTelevision(entry)
		b.resolveMu.Unlock()

		if tv.IP == "" {
			continue
		}

		b.mu.Lock()
		b.byIP[tv.IP] = tv
		b.publishLocked()
		b.mu.Unlock()
	}
}

func (b *MDNSBrowser) toTelevision(entry *zeroconf.ServiceEntry) Television {
	ip := ""
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	txt := parseTXT(entry.Text)
	paired := false
	if b.paired != nil && ip != "" {
		paired = b.paired.IsPaired(ip)
	}

	return Television{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		ModelName:    txt["mn"],
		Manufacturer: txt["md"],
		Paired:       paired,
	}
}

// publishLocked must be called with b.mu held.
func (b *MDNSBrowser) publishLocked() {
	list := make([]Television, 0, len(b.byIP))
	for _, tv := range b.byIP {
		list = append(list, tv)
	}
	for _, ch := range b.observers {
		select {
		case ch <- list:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- list:
			default:
			}
		}
	}
}

func (b *MDNSBrowser) Observe() <-chan []Television {
	ch := make(chan []Television, 1)
	b.mu.Lock()
	b.observers = append(b.observers, ch)
	b.mu.Unlock()
	return ch
}

func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	observers := b.observers
	b.observers = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, ch := range observers {
		close(ch)
	}
}

// RefreshPairedFlags re-derives Paired for every known television; call it
// after a registry change so an already-discovered list reflects a pairing
// or unpair that happened without a fresh mDNS announcement.
func (b *MDNSBrowser) RefreshPairedFlags() {
	if b.paired == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ip, tv := range b.byIP {
		tv.Paired = b.paired.IsPaired(ip)
		b.byIP[ip] = tv
	}
	b.publishLocked()
}
