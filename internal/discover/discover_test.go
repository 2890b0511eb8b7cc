package discover

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
)

func TestFromEntry(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "gamehost.local.",
		Port:     47989,
		AddrIPv4: []net.IP{
			net.ParseIP("192.168.1.42"),
			net.ParseIP("169.254.10.10"),
		},
	}
	entry.Instance = "gamehost"

	host, ok := fromEntry(entry)
	assert.True(t, ok)
	assert.Equal(t, "gamehost", host.Name)
	assert.Equal(t, "gamehost.local", host.Addr)
	assert.Equal(t, 47989, host.Port)

	// The link-local address is dropped.
	assert.Len(t, host.IPs, 1)
	assert.Equal(t, "192.168.1.42", host.IPs[0].String())
}

func TestFromEntryNil(t *testing.T) {
	_, ok := fromEntry(nil)
	assert.False(t, ok)
}
