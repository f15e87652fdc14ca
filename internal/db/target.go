package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Target is a parsed host[:port]/path[?options] connect target.
type Target struct {
	Host    string
	Port    int
	Path    string
	Options url.Values
}

// HostPort joins host and port, bracketing IPv6 literals.
func (t Target) HostPort() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ParseTarget accepts EZConnect-style targets such as "db:1521/ORCLPDB1",
// "//db/ORCL" or "[::1]:5432/app?sslmode=disable".
func ParseTarget(raw string, defaultPort int) (Target, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "//")
	if s == "" {
		return Target{}, fmt.Errorf("empty connect target")
	}

	var opts url.Values
	if q := strings.IndexByte(s, '?'); q != -1 {
		parsed, err := url.ParseQuery(s[q+1:])
		if err != nil {
			return Target{}, fmt.Errorf("connect target options: %w", err)
		}
		opts = parsed
		s = s[:q]
	}

	hostPort, path := s, ""
	if slash := strings.IndexByte(s, '/'); slash != -1 {
		hostPort, path = s[:slash], s[slash+1:]
	}

	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		// no port given
		host = strings.TrimSuffix(strings.TrimPrefix(hostPort, "["), "]")
		portStr = ""
	}
	if host == "" {
		return Target{}, fmt.Errorf("connect target %q has no host", raw)
	}

	port := defaultPort
	if portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return Target{}, fmt.Errorf("connect target %q has invalid port %q", raw, portStr)
		}
	}

	if opts == nil {
		opts = url.Values{}
	}
	return Target{Host: host, Port: port, Path: path, Options: opts}, nil
}
