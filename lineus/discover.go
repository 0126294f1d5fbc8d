package lineus

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// DefaultService is the mDNS service type Line-us plotters advertise.
const DefaultService = "_lineus._tcp"

// Discover browses the local network for plotters advertising service
// and returns their host:port addresses, in the order they answered.
func Discover(ctx context.Context, service string, timeout time.Duration) ([]string, error) {
	if service == "" {
		service = DefaultService
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan []string)
	go func() {
		var addrs []string
		seen := map[string]bool{}
		for e := range entries {
			a := entryAddr(e)
			if a == "" || seen[a] {
				continue
			}
			seen[a] = true
			addrs = append(addrs, a)
		}
		found <- addrs
	}()

	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	addrs := <-found
	if err != nil {
		return addrs, fmt.Errorf("mdns query for %s: %w", service, err)
	}
	return addrs, nil
}

// entryAddr picks an address to dial from a service entry, preferring
// IPv4 and falling back to the advertised host name.
func entryAddr(e *mdns.ServiceEntry) string {
	if e == nil || e.Port == 0 {
		return ""
	}
	port := strconv.Itoa(e.Port)
	switch {
	case e.AddrV4 != nil:
		return net.JoinHostPort(e.AddrV4.String(), port)
	case e.AddrV6 != nil:
		return net.JoinHostPort(e.AddrV6.String(), port)
	case e.Host != "":
		return net.JoinHostPort(strings.TrimSuffix(e.Host, "."), port)
	}
	return ""
}
