package device

import (
	"encoding/json"
	"time"

	"github.com/kasalink/kasalink/internal/protocol"
	"github.com/kasalink/kasalink/internal/transport"
)

// RawDevice is the generic device handle: an address plus a transport.
// It implements the Actions capability and nothing else, which is all an
// unrecognized device legally supports. The concrete variants embed it.
type RawDevice struct {
	addr string
	conn transport.Sender
}

// NewRawDevice returns a generic handle talking TCP with default timeouts.
func NewRawDevice(addr string) *RawDevice {
	return NewRawDeviceWith(addr, transport.NewTCP())
}

// NewRawDeviceWith returns a generic handle using the given transport.
// Tests inject a recording mock here.
func NewRawDeviceWith(addr string, conn transport.Sender) *RawDevice {
	return &RawDevice{addr: transport.WithDefaultPort(addr), conn: conn}
}

// Addr returns the device's network address.
func (d *RawDevice) Addr() string {
	return d.addr
}

// Send performs one command round trip against the device.
func (d *RawDevice) Send(command []byte) ([]byte, error) {
	return d.conn.Send(d.addr, command)
}

// command sends a single module/operation command and validates the
// err_code in the matching response section.
func (d *RawDevice) command(payload []byte, module, op string) (json.RawMessage, error) {
	raw, err := d.Send(payload)
	if err != nil {
		return nil, err
	}
	return protocol.Result(raw, module, op)
}

// SysInfo queries and parses the device's self-description. This also
// serves as the connectivity check for the known-address entry point.
func (d *RawDevice) SysInfo() (*SysInfo, error) {
	raw, err := d.Send(protocol.GetSysinfo())
	if err != nil {
		return nil, err
	}
	return ParseSysInfo(raw)
}

// Alias returns the device's user-assigned name.
func (d *RawDevice) Alias() (string, error) {
	info, err := d.SysInfo()
	if err != nil {
		return "", err
	}
	return info.Alias, nil
}

// SetAlias renames the device.
func (d *RawDevice) SetAlias(alias string) error {
	_, err := d.command(protocol.SetAlias(alias), protocol.ModuleSystem, protocol.OpSetDevAlias)
	return err
}

// Location returns the device's self-reported coordinates.
func (d *RawDevice) Location() (lat, lon float64, err error) {
	info, err := d.SysInfo()
	if err != nil {
		return 0, 0, err
	}
	lat, lon = info.Location()
	return lat, lon, nil
}

// Reboot schedules a device reboot after the given delay.
func (d *RawDevice) Reboot(delay time.Duration) error {
	_, err := d.command(protocol.Reboot(int(delay.Seconds())), protocol.ModuleSystem, protocol.OpReboot)
	return err
}
