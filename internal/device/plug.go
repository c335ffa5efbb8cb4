package device

import (
	"github.com/kasalink/kasalink/internal/protocol"
	"github.com/kasalink/kasalink/internal/transport"
)

// plug carries the relay behavior shared by the HS-series smart plugs.
type plug struct {
	RawDevice
}

// IsOn reports the relay state from a fresh sysinfo query.
func (p *plug) IsOn() (bool, error) {
	info, err := p.SysInfo()
	if err != nil {
		return false, err
	}
	return info.RelayState != 0, nil
}

// SwitchOn closes the relay.
func (p *plug) SwitchOn() error {
	return p.setRelay(true)
}

// SwitchOff opens the relay.
func (p *plug) SwitchOff() error {
	return p.setRelay(false)
}

func (p *plug) setRelay(on bool) error {
	_, err := p.command(protocol.SetRelayState(on), protocol.ModuleSystem, protocol.OpSetRelayState)
	return err
}

// HS100 is the basic Kasa smart plug: switchable, no metering.
type HS100 struct {
	plug
}

// NewHS100 returns an HS100 handle for a known address. Use SysInfo as
// the connectivity check when the address comes from the user rather than
// from discovery.
func NewHS100(addr string) *HS100 {
	return NewHS100With(addr, transport.NewTCP())
}

// NewHS100With returns an HS100 handle using the given transport.
func NewHS100With(addr string, conn transport.Sender) *HS100 {
	return &HS100{plug{*NewRawDeviceWith(addr, conn)}}
}

// HS110 is the metering Kasa smart plug: switchable with realtime energy
// readings.
type HS110 struct {
	plug
}

// NewHS110 returns an HS110 handle for a known address.
func NewHS110(addr string) *HS110 {
	return NewHS110With(addr, transport.NewTCP())
}

// NewHS110With returns an HS110 handle using the given transport.
func NewHS110With(addr string, conn transport.Sender) *HS110 {
	return &HS110{plug{*NewRawDeviceWith(addr, conn)}}
}

// CurrentEnergy returns a realtime reading from the plug's meter.
func (d *HS110) CurrentEnergy() (*EnergyReading, error) {
	return currentEnergy(&d.RawDevice, protocol.ModuleEmeter)
}
