package transport

import (
	"net"
	"strconv"
	"time"
)

const (
	// DefaultPort is the TCP and UDP port Kasa devices listen on.
	DefaultPort = 9999

	// DefaultTimeout bounds a full dial+write+read round trip.
	DefaultTimeout = 5 * time.Second
)

// Sender is the single transport contract: send one command payload to a
// device address and return the raw decoded response bytes. Device
// handles depend on this interface so tests can substitute a recording
// mock for the real TCP client.
type Sender interface {
	Send(addr string, command []byte) ([]byte, error)
}

// WithDefaultPort normalizes a user-supplied address, appending the
// well-known device port when none is present. "192.168.0.10" becomes
// "192.168.0.10:9999"; addresses that already carry a port pass through.
func WithDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
}
