// Package discover finds game streaming hosts on the local network. Sunshine
// and NVIDIA GameStream both announce an _nvstream._tcp service over mDNS.
package discover

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const serviceName = "_nvstream._tcp"

// Host is a streaming host seen on the network.
type Host struct {
	Name string // service instance name, usually the machine name
	Addr string // advertised hostname
	Port int
	IPs  []net.IP
}

// Browse performs a one-time mDNS query for streaming hosts. It blocks for
// the full timeout, since hosts keep answering for as long as the query runs.
func Browse(ctx context.Context, timeout time.Duration) ([]Host, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var hosts []Host
	done := make(chan struct{})

	go func() {
		defer close(done)
		for entry := range entries {
			if host, ok := fromEntry(entry); ok {
				hosts = append(hosts, host)
			}
		}
	}()

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := resolver.Browse(browseCtx, serviceName, "local.", entries); err != nil {
		return nil, err
	}

	// zeroconf closes the entries channel when the context expires.
	<-browseCtx.Done()
	<-done

	return hosts, nil
}

func fromEntry(entry *zeroconf.ServiceEntry) (Host, bool) {
	if entry == nil {
		return Host{}, false
	}

	host := Host{
		Name: entry.Instance,
		Addr: strings.TrimSuffix(entry.HostName, "."),
		Port: entry.Port,
	}

	// Link-local addresses are useless for streaming setup.
	for _, ip := range entry.AddrIPv4 {
		ip4 := ip.To4()
		if ip4 != nil && !(ip4[0] == 169 && ip4[1] == 254) {
			host.IPs = append(host.IPs, ip)
		}
	}

	return host, true
}
