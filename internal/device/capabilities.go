package device

import "time"

// Actions is the capability common to every variant, including the
// generic fallback: identity, info query, and housekeeping commands.
type Actions interface {
	// Addr returns the device's network address (host:port).
	Addr() string

	// SysInfo queries the device and returns its parsed self-description.
	SysInfo() (*SysInfo, error)

	// Alias returns the device's user-assigned name.
	Alias() (string, error)

	// SetAlias renames the device.
	SetAlias(alias string) error

	// Location returns the device's self-reported coordinates.
	Location() (lat, lon float64, err error)

	// Reboot schedules a reboot after the given delay. Sub-second delays
	// round down; the device treats zero as "immediately".
	Reboot(delay time.Duration) error
}

// Switch is the power control capability.
type Switch interface {
	Actions

	// IsOn reports whether the outlet or bulb is currently on.
	IsOn() (bool, error)

	// SwitchOn turns the device on.
	SwitchOn() error

	// SwitchOff turns the device off.
	SwitchOff() error
}

// Dimmer is the brightness control capability. Brightness is a percent
// in [0, 100].
type Dimmer interface {
	Actions

	// Brightness returns the current brightness percent.
	Brightness() (int, error)

	// SetBrightness sets the brightness percent. Values outside [0, 100]
	// fail validation before any network I/O occurs.
	SetBrightness(brightness int) error
}

// EnergyReading is one realtime sample from an energy-metering device.
// Units are volts, amps, watts, and cumulative kilowatt-hours.
type EnergyReading struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
	Power   float64 `json:"power"`
	Total   float64 `json:"total"`
}

// Emeter is the energy metering capability.
type Emeter interface {
	Actions

	// CurrentEnergy returns a realtime energy reading.
	CurrentEnergy() (*EnergyReading, error)
}

// Compile-time capability matrix. Each variant implements exactly the
// interfaces its hardware supports; a missing assertion here is a missing
// method set, not a runtime condition.
var (
	_ Actions = (*RawDevice)(nil)

	_ Switch = (*HS100)(nil)

	_ Switch = (*HS110)(nil)
	_ Emeter = (*HS110)(nil)

	_ Switch = (*LB110)(nil)
	_ Dimmer = (*LB110)(nil)
	_ Emeter = (*LB110)(nil)
)
