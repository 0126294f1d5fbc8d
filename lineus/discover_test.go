package lineus

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestEntryAddr(t *testing.T) {
	cases := []struct {
		e    *mdns.ServiceEntry
		want string
	}{
		{&mdns.ServiceEntry{AddrV4: net.IPv4(192, 168, 1, 20), Port: 1337}, "192.168.1.20:1337"},
		{&mdns.ServiceEntry{AddrV4: net.IPv4(10, 0, 0, 2), AddrV6: net.ParseIP("fe80::1"), Port: 1337}, "10.0.0.2:1337"},
		{&mdns.ServiceEntry{AddrV6: net.ParseIP("fe80::1"), Port: 1337}, "[fe80::1]:1337"},
		{&mdns.ServiceEntry{Host: "line-us.local.", Port: 1337}, "line-us.local:1337"},
		{&mdns.ServiceEntry{AddrV4: net.IPv4(192, 168, 1, 20)}, ""},
		{&mdns.ServiceEntry{Port: 1337}, ""},
		{nil, ""},
	}
	for _, c := range cases {
		if got := entryAddr(c.e); got != c.want {
			t.Errorf("entryAddr(%+v) = %q, want %q", c.e, got, c.want)
		}
	}
}
