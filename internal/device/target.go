package device

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Target identifies a remote machine to connect to.
type Target struct {
	User string
	Host string
	Port int
}

// ParseTarget splits a user@host[:port] connection spec. The port defaults
// to 22. IPv6 hosts with a port need brackets, like user@[::1]:2222.
func ParseTarget(spec string) (Target, error) {
	at := strings.Index(spec, "@")
	if at <= 0 || at == len(spec)-1 {
		return Target{}, fmt.Errorf("remote target %q must be user@host[:port]", spec)
	}

	target := Target{
		User: spec[:at],
		Port: 22,
	}

	rest := spec[at+1:]
	if host, portStr, err := net.SplitHostPort(rest); err == nil {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return Target{}, fmt.Errorf("remote target %q has an invalid port", spec)
		}
		target.Host = host
		target.Port = port
	} else {
		target.Host = rest
	}

	if target.Host == "" {
		return Target{}, fmt.Errorf("remote target %q must be user@host[:port]", spec)
	}
	return target, nil
}
