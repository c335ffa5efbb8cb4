package config

import "time"

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by user-assigned nickname
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is user-side metadata for one Kasa device. The device itself
// knows nothing about this record.
type Device struct {
	Addr     string    `yaml:"addr"`                // host:port the device was last reached at
	Model    string    `yaml:"model,omitempty"`     // Self-reported model, e.g. "HS110(EU)"
	DeviceID string    `yaml:"device_id,omitempty"` // Firmware device ID, stable across IP changes
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// Preferences holds application-wide CLI defaults.
type Preferences struct {
	DiscoverTimeout int `yaml:"discover_timeout"` // Discovery window in seconds
	DefaultPort     int `yaml:"default_port"`     // Device port when an address omits one
}

// NewRegistry creates a Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			DiscoverTimeout: 3,
			DefaultPort:     9999,
		},
	}
}

// Resolve maps a nickname to its saved address. The second result is
// false when the nickname is not in the registry.
func (r *Registry) Resolve(nickname string) (string, bool) {
	dev, ok := r.Devices[nickname]
	if !ok || dev.Addr == "" {
		return "", false
	}
	return dev.Addr, true
}

// Remember records (or updates) a nickname for a device address.
func (r *Registry) Remember(nickname, addr, model, deviceID string) {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	r.Devices[nickname] = &Device{
		Addr:     addr,
		Model:    model,
		DeviceID: deviceID,
		LastSeen: time.Now(),
	}
}

// Forget removes a nickname. Returns false if it was not present.
func (r *Registry) Forget(nickname string) bool {
	if _, ok := r.Devices[nickname]; !ok {
		return false
	}
	delete(r.Devices, nickname)
	return true
}
