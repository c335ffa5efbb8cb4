package device

import (
	"fmt"

	"github.com/kasalink/kasalink/internal/protocol"
	"github.com/kasalink/kasalink/internal/transport"
)

// Brightness bounds for dimmable bulbs, in percent.
const (
	MinBrightness = 0
	MaxBrightness = 100
)

// LB110 is the dimmable Kasa smart bulb: switchable through the lighting
// service, dimmable, with realtime energy readings.
type LB110 struct {
	RawDevice
}

// NewLB110 returns an LB110 handle for a known address.
func NewLB110(addr string) *LB110 {
	return NewLB110With(addr, transport.NewTCP())
}

// NewLB110With returns an LB110 handle using the given transport.
func NewLB110With(addr string, conn transport.Sender) *LB110 {
	return &LB110{*NewRawDeviceWith(addr, conn)}
}

// IsOn reports the lighting state from a fresh sysinfo query.
func (d *LB110) IsOn() (bool, error) {
	info, err := d.SysInfo()
	if err != nil {
		return false, err
	}
	if info.LightState == nil {
		return false, protocol.NewProtocolError(d.Addr(), "sysinfo lacks light_state", nil)
	}
	return info.LightState.OnOff != 0, nil
}

// SwitchOn turns the bulb on.
func (d *LB110) SwitchOn() error {
	return d.setLight(true)
}

// SwitchOff turns the bulb off.
func (d *LB110) SwitchOff() error {
	return d.setLight(false)
}

func (d *LB110) setLight(on bool) error {
	_, err := d.command(protocol.SetLightState(on), protocol.ModuleLighting, protocol.OpTransition)
	return err
}

// Brightness returns the current brightness percent.
func (d *LB110) Brightness() (int, error) {
	info, err := d.SysInfo()
	if err != nil {
		return 0, err
	}
	if info.LightState != nil {
		return info.LightState.Brightness, nil
	}
	return info.Brightness, nil
}

// SetBrightness sets the brightness percent. Out-of-range values are
// rejected before any network I/O.
func (d *LB110) SetBrightness(brightness int) error {
	if brightness < MinBrightness || brightness > MaxBrightness {
		return protocol.NewValidationError(
			fmt.Sprintf("brightness must be %d-%d, got %d", MinBrightness, MaxBrightness, brightness))
	}
	_, err := d.command(protocol.SetBrightness(brightness), protocol.ModuleDimmer, protocol.OpSetBrightness)
	return err
}

// CurrentEnergy returns a realtime reading from the bulb's meter.
func (d *LB110) CurrentEnergy() (*EnergyReading, error) {
	return currentEnergy(&d.RawDevice, protocol.ModuleBulbEmeter)
}
