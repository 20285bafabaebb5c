package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// APIPingTimeout bounds the reachability check of the public API
const APIPingTimeout = 1500 * time.Millisecond

var defaultPorts = map[string]string{
	"http":     "80",
	"https":    "443",
	"ws":       "80",
	"wss":      "443",
	"redis":    "6379",
	"postgres": "5432",
	"mysql":    "3306",
}

// PingService dials the host of serviceURL, using the scheme's well known port when none is given
func PingService(serviceURL string, timeout time.Duration) error {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("invalid URL %q: missing host", serviceURL)
	}

	port := u.Port()
	if port == "" {
		var ok bool
		if port, ok = defaultPorts[u.Scheme]; !ok {
			return fmt.Errorf("invalid URL %q: no port for scheme %q", serviceURL, u.Scheme)
		}
	}

	address := net.JoinHostPort(u.Hostname(), port)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingAPI checks that the public API listener accepts connections
func PingAPI(hostAPI string) error {
	return PingService(hostAPI, APIPingTimeout)
}
