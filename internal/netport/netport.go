// Package netport picks a free TCP port for the embedded viewer server.
package netport

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoPortFree is returned when every probed port was already taken.
var ErrNoPortFree = errors.New("no free port found")

// Acquire probes ports starting at base and returns the first one that
// can be bound on host. It tries at most attempts ports and fails with
// ErrNoPortFree once the budget is exhausted. Exhaustion is fatal to
// viewer startup; there is no fallback.
func Acquire(host string, base, attempts int) (int, error) {
	for port := base; port < base+attempts; port++ {
		if port > 65535 {
			break
		}
		ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			continue
		}
		if err := ln.Close(); err != nil {
			return 0, fmt.Errorf("failed to release probe listener on port %d: %w", port, err)
		}
		return port, nil
	}
	return 0, fmt.Errorf("%w: tried ports %d-%d on %s", ErrNoPortFree, base, base+attempts-1, host)
}
