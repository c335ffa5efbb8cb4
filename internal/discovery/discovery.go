package discovery

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/kasalink/kasalink/internal/device"
	"github.com/kasalink/kasalink/internal/logging"
	"github.com/kasalink/kasalink/internal/protocol"
	"github.com/kasalink/kasalink/internal/transport"
)

const (
	// DefaultTimeout is the default collection window.
	DefaultTimeout = 3 * time.Second

	// pollInterval bounds each blocking read so context cancellation is
	// noticed promptly.
	pollInterval = 250 * time.Millisecond

	// maxDatagramSize comfortably fits any sysinfo reply.
	maxDatagramSize = 8192
)

// Scanner performs UDP broadcast discovery of Kasa devices.
type Scanner struct {
	// Timeout is the collection window. Discovery returns once it
	// elapses, regardless of how many devices replied.
	Timeout time.Duration

	// BroadcastAddr is the probe destination. Overridable so tests can
	// point the probe at a loopback responder.
	BroadcastAddr string
}

// NewScanner returns a scanner with default settings.
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:       DefaultTimeout,
		BroadcastAddr: transport.DefaultBroadcastAddr,
	}
}

// Discover runs one scan with the given timeout and default broadcast
// address. The result maps device addresses (host:port) to their most
// recent reply.
func Discover(timeout time.Duration) (map[string]device.DeviceData, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan()
}

// Scan runs one discovery round.
func (s *Scanner) Scan() (map[string]device.DeviceData, error) {
	return s.ScanWithContext(context.Background())
}

// ScanWithContext runs one discovery round, stopping early if ctx is
// cancelled. A cancelled scan returns whatever it had collected.
func (s *Scanner) ScanWithContext(ctx context.Context) (map[string]device.DeviceData, error) {
	conn, err := transport.OpenBroadcast()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := transport.SendProbe(conn, s.BroadcastAddr, protocol.GetSysinfo()); err != nil {
		return nil, err
	}

	found := make(map[string]device.DeviceData)
	buf := make([]byte, maxDatagramSize)
	deadline := time.Now().Add(s.Timeout)

	for {
		if ctx.Err() != nil {
			break
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		step := remaining
		if step > pollInterval {
			step = pollInterval
		}
		if err := conn.SetReadDeadline(time.Now().Add(step)); err != nil {
			return found, protocol.ClassifyNetError("", err)
		}

		n, src, err := conn.ReadFrom(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			// A broken socket ends the scan; keep what we have.
			logging.Warn("discovery socket failed", zap.Error(err))
			break
		}

		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		s.collect(found, src, datagram)
	}

	logging.Info("discovery finished",
		zap.Int("devices", len(found)),
		zap.Duration("window", s.Timeout),
	)
	return found, nil
}

// collect decodes one reply datagram and records it under the sender's
// address. Malformed replies are dropped; a later reply from an
// already-seen address overwrites the earlier one.
func (s *Scanner) collect(found map[string]device.DeviceData, src net.Addr, datagram []byte) {
	payload, err := protocol.DecodeDatagram(datagram)
	if err != nil {
		logging.Debug("dropping undecodable datagram",
			zap.String("src", src.String()),
			zap.Error(err),
		)
		logging.LogRawBytes("undecodable datagram", datagram)
		return
	}

	if _, err := device.ParseSysInfo(payload); err != nil {
		logging.Debug("dropping malformed discovery reply",
			zap.String("src", src.String()),
			zap.Error(err),
		)
		return
	}

	addr := deviceAddr(src)
	found[addr] = device.DeviceData{Addr: addr, Raw: payload}
	logging.Debug("discovered device", zap.String("addr", addr))
}

// deviceAddr derives the device's TCP address from the reply's source.
// Replies come from the device's UDP port, which matches its TCP port.
func deviceAddr(src net.Addr) string {
	if udp, ok := src.(*net.UDPAddr); ok {
		return udp.String()
	}
	return transport.WithDefaultPort(src.String())
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
