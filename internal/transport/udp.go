package transport

import (
	"net"

	"go.uber.org/zap"

	"github.com/kasalink/kasalink/internal/logging"
	"github.com/kasalink/kasalink/internal/protocol"
)

// DefaultBroadcastAddr is the probe destination for local discovery.
const DefaultBroadcastAddr = "255.255.255.255:9999"

// OpenBroadcast opens a UDP socket on an ephemeral local port, suitable
// for sending a broadcast probe and collecting unicast replies. The
// caller owns the socket and must close it.
func OpenBroadcast() (net.PacketConn, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, protocol.ClassifyNetError("", err)
	}
	return conn, nil
}

// SendProbe sends one framed command datagram to broadcastAddr.
func SendProbe(conn net.PacketConn, broadcastAddr string, command []byte) error {
	dst, err := net.ResolveUDPAddr("udp4", WithDefaultPort(broadcastAddr))
	if err != nil {
		return protocol.NewNetworkError(broadcastAddr, "invalid broadcast address", err)
	}

	frame := protocol.EncodeFrame(command)
	if _, err := conn.WriteTo(frame, dst); err != nil {
		return protocol.ClassifyNetError(broadcastAddr, err)
	}

	logging.Debug("sent discovery probe",
		zap.String("broadcast", dst.String()),
		zap.Int("frame_len", len(frame)),
	)
	return nil
}
