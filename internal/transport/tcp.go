package transport

import (
	"net"
	"time"

	"github.com/kasalink/kasalink/internal/logging"
	"github.com/kasalink/kasalink/internal/protocol"
)

// TCP sends commands to a device over a fresh TCP connection per call.
// The zero value is not usable; construct with NewTCP.
type TCP struct {
	// Timeout bounds the whole round trip: dial, write, and read all
	// complete within this window or the call fails with a network error.
	Timeout time.Duration
}

// NewTCP returns a TCP transport with the default timeout.
func NewTCP() *TCP {
	return &TCP{Timeout: DefaultTimeout}
}

// NewTCPWithTimeout returns a TCP transport with an explicit timeout.
func NewTCPWithTimeout(timeout time.Duration) *TCP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TCP{Timeout: timeout}
}

// Send writes one framed command to addr and reads one framed response.
// The socket is opened and fully closed within the call.
func (t *TCP) Send(addr string, command []byte) ([]byte, error) {
	addr = WithDefaultPort(addr)

	conn, err := net.DialTimeout("tcp", addr, t.Timeout)
	if err != nil {
		return nil, protocol.ClassifyNetError(addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(t.Timeout)); err != nil {
		return nil, protocol.ClassifyNetError(addr, err)
	}

	if err := protocol.WriteFrame(conn, command); err != nil {
		return nil, protocol.ClassifyNetError(addr, err)
	}

	response, err := protocol.ReadFrame(conn)
	if err != nil {
		// Framing errors pass through untouched; everything else from the
		// read path is a socket failure.
		if protocol.IsKind(err, protocol.KindFraming) {
			return nil, err
		}
		return nil, protocol.ClassifyNetError(addr, err)
	}

	logging.LogExchange(addr, command, response)
	return response, nil
}
