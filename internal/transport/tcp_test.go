package transport

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/kasalink/kasalink/internal/protocol"
)

// startFakeDevice runs a one-shot TCP device on loopback. handle receives
// the decoded command payload and returns the response payload; pass a
// nil handle to close the connection without replying.
func startFakeDevice(t *testing.T, handle func(command []byte) []byte) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		command, err := protocol.ReadFrame(conn)
		if err != nil {
			return
		}
		if handle == nil {
			return
		}
		_ = protocol.WriteFrame(conn, handle(command))
	}()

	return ln.Addr().String()
}

func TestTCPSendRoundTrip(t *testing.T) {
	want := []byte(`{"system":{"get_sysinfo":{"alias":"desk","err_code":0}}}`)
	var gotCommand []byte

	addr := startFakeDevice(t, func(command []byte) []byte {
		gotCommand = command
		return want
	})

	tcp := NewTCP()
	response, err := tcp.Send(addr, protocol.GetSysinfo())
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !bytes.Equal(response, want) {
		t.Errorf("Send() = %s, want %s", response, want)
	}
	if !bytes.Equal(gotCommand, protocol.GetSysinfo()) {
		t.Errorf("device received %s, want sysinfo query", gotCommand)
	}
}

func TestTCPSendConnectionRefused(t *testing.T) {
	// Grab a port that is certainly closed.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	tcp := NewTCPWithTimeout(2 * time.Second)
	_, err = tcp.Send(addr, protocol.GetSysinfo())
	if !protocol.IsKind(err, protocol.KindNetwork) {
		t.Errorf("Send() error = %v, want KindNetwork", err)
	}
}

func TestTCPSendTruncatedResponse(t *testing.T) {
	// Device closes the connection after reading, so the response frame
	// never arrives.
	addr := startFakeDevice(t, nil)

	tcp := NewTCPWithTimeout(2 * time.Second)
	_, err := tcp.Send(addr, protocol.GetSysinfo())
	if !protocol.IsKind(err, protocol.KindFraming) {
		t.Errorf("Send() error = %v, want KindFraming", err)
	}
}

func TestWithDefaultPort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.0.10", "192.168.0.10:9999"},
		{"192.168.0.10:9999", "192.168.0.10:9999"},
		{"192.168.0.10:8080", "192.168.0.10:8080"},
		{"plug.lan", "plug.lan:9999"},
	}

	for _, tt := range tests {
		if got := WithDefaultPort(tt.in); got != tt.want {
			t.Errorf("WithDefaultPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
