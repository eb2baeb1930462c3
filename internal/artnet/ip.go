package artnet

import (
	"fmt"
	"net"
)

// DefaultNetwork is the CIDR art-net nodes usually live in.
const DefaultNetwork = "2.0.0.0/8"

// FindArtNetIP finds the first IPv4 interface address inside network.
func FindArtNetIP(network string) (net.IP, error) {
	if network == "" {
		network = DefaultNetwork
	}
	_, cidrNet, err := net.ParseCIDR(network)
	if err != nil {
		return nil, fmt.Errorf("bad art-net network %q: %w", network, err)
	}
	address, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("error getting ips: %w", err)
	}
	return matchIP(cidrNet, address), nil
}

func matchIP(cidrNet *net.IPNet, address []net.Addr) net.IP {
	for _, addr := range address {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil {
			continue
		}

		if cidrNet.Contains(ip) {
			return ip
		}
	}

	return nil
}
