package device

import (
	"encoding/json"

	"github.com/kasalink/kasalink/internal/protocol"
)

// SysInfo is the parsed response to a system info query. Field names
// follow the device firmware's JSON; a fresh query yields a fresh value
// and nothing mutates one after parse.
type SysInfo struct {
	Alias      string `json:"alias"`
	DevName    string `json:"dev_name"`
	Model      string `json:"model"`
	HWType     string `json:"type"`
	SWVer      string `json:"sw_ver"`
	HWVer      string `json:"hw_ver"`
	DeviceID   string `json:"deviceId"`
	OEMID      string `json:"oemId"`
	HWID       string `json:"hwId"`
	MAC        string `json:"mac"`
	RSSI       int    `json:"rssi"`
	ActiveMode string `json:"active_mode"`
	Feature    string `json:"feature"`
	Updating   int    `json:"updating"`
	LEDOff     int    `json:"led_off"`
	OnTime     int    `json:"on_time"`

	// Plug state.
	RelayState int `json:"relay_state"`

	// Bulb state. Brightness also appears top-level on wall dimmers.
	Brightness int         `json:"brightness"`
	LightState *LightState `json:"light_state"`

	// Coordinates. Older firmware reports floats, newer firmware reports
	// integers scaled by 1e4; both appear in the wild.
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	LatitudeI  int     `json:"latitude_i"`
	LongitudeI int     `json:"longitude_i"`

	ErrCode int `json:"err_code"`
}

// LightState is the bulb lighting block nested in a bulb's sysinfo.
type LightState struct {
	OnOff      int `json:"on_off"`
	Brightness int `json:"brightness"`
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	ColorTemp  int `json:"color_temp"`
}

// IsOn reports the power state: the relay for plugs, the lighting block
// for bulbs.
func (s *SysInfo) IsOn() bool {
	if s.LightState != nil {
		return s.LightState.OnOff != 0
	}
	return s.RelayState != 0
}

// Location returns the device's self-reported coordinates, preferring the
// float fields and falling back to the scaled integer fields.
func (s *SysInfo) Location() (lat, lon float64) {
	if s.Latitude != 0 || s.Longitude != 0 {
		return s.Latitude, s.Longitude
	}
	return float64(s.LatitudeI) / 1e4, float64(s.LongitudeI) / 1e4
}

// ParseSysInfo extracts and parses the system.get_sysinfo section of a
// decoded response payload.
func ParseSysInfo(raw []byte) (*SysInfo, error) {
	section, err := protocol.Result(raw, protocol.ModuleSystem, protocol.OpGetSysinfo)
	if err != nil {
		return nil, err
	}

	var info SysInfo
	if err := json.Unmarshal(section, &info); err != nil {
		return nil, protocol.NewProtocolError("", "malformed sysinfo object", err)
	}
	return &info, nil
}
