package discovery

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/require"
)

type fakePaired struct{ ips map[string]bool }

func (f fakePaired) IsPaired(ip string) bool { return f.ips[ip] }

func TestToTelevisionExtractsTXTAndPairedFlag(t *testing.T) {
	b := NewMDNSBrowser(fakePaired{ips: map[string]bool{"192.0.2.10": true}})

	entry := &zeroconf.ServiceEntry{
		Instance: "LivingRoomTV",
		HostName: "livingroom.local.",
		Port:     6466,
		Text:     []string{"mn=Bravia", "md=Sony"},
		AddrIPv4: []net.IP{net.ParseIP("192.0.2.10")},
	}

	tv := b.toTelevision(entry)
	require.Equal(t, "LivingRoomTV", tv.InstanceName)
	require.Equal(t, "192.0.2.10", tv.IP)
	require.Equal(t, "Bravia", tv.ModelName)
	require.Equal(t, "Sony", tv.Manufacturer)
	require.True(t, tv.Paired)
}

func TestObserveReceivesPublishedList(t *testing.T) {
	b := NewMDNSBrowser(nil)
	ch := b.Observe()

	b.mu.Lock()
	b.byIP["192.0.2.10"] = Television{IP: "192.0.2.10", InstanceName: "LivingRoomTV"}
	b.publishLocked()
	b.mu.Unlock()

	list := <-ch
	require.Len(t, list, 1)
	require.Equal(t, "192.0.2.10", list[0].IP)
}

func TestRefreshPairedFlagsReflectsRegistryChange(t *testing.T) {
	paired := fakePaired{ips: map[string]bool{}}
	b := NewMDNSBrowser(paired)
	ch := b.Observe()

	b.mu.Lock()
	b.byIP["192.0.2.10"] = Television{IP: "192.0.2.10"}
	b.publishLocked()
	b.mu.Unlock()
	<-ch

	paired.ips["192.0.2.10"] = true
	b.RefreshPairedFlags()

	list := <-ch
	require.True(t, list[0].Paired)
}
