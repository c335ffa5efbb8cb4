package device

import (
	"testing"

	"github.com/kasalink/kasalink/internal/protocol"
)

const plugSysinfoResponse = `{"system":{"get_sysinfo":{
	"sw_ver":"1.5.6 Build 191114 Rel.104204",
	"hw_ver":"2.1",
	"type":"IOT.SMARTPLUGSWITCH",
	"model":"HS110(EU)",
	"mac":"50:C7:BF:11:22:33",
	"dev_name":"Smart Wi-Fi Plug With Energy Monitoring",
	"alias":"washing machine",
	"relay_state":1,
	"on_time":5423,
	"active_mode":"none",
	"feature":"TIM:ENE",
	"rssi":-58,
	"led_off":0,
	"latitude_i":515074,
	"longitude_i":-1278,
	"err_code":0,
	"next_gen_field":{"ignored":true}
}}}`

func TestParseSysInfo(t *testing.T) {
	info, err := ParseSysInfo([]byte(plugSysinfoResponse))
	if err != nil {
		t.Fatalf("ParseSysInfo() error = %v", err)
	}

	if info.Alias != "washing machine" {
		t.Errorf("Alias = %q", info.Alias)
	}
	if info.Model != "HS110(EU)" {
		t.Errorf("Model = %q", info.Model)
	}
	if info.RSSI != -58 {
		t.Errorf("RSSI = %d", info.RSSI)
	}
	if !info.IsOn() {
		t.Error("IsOn() = false, want true for relay_state 1")
	}

	lat, lon := info.Location()
	if lat != 51.5074 || lon != -0.1278 {
		t.Errorf("Location() = (%v, %v), want (51.5074, -0.1278)", lat, lon)
	}
}

func TestParseSysInfoBulbLightState(t *testing.T) {
	raw := `{"system":{"get_sysinfo":{
		"model":"LB110(EU)",
		"light_state":{"on_off":1,"brightness":75},
		"err_code":0
	}}}`

	info, err := ParseSysInfo([]byte(raw))
	if err != nil {
		t.Fatalf("ParseSysInfo() error = %v", err)
	}
	if !info.IsOn() {
		t.Error("IsOn() should follow light_state for bulbs")
	}
	if info.LightState.Brightness != 75 {
		t.Errorf("light_state brightness = %d, want 75", info.LightState.Brightness)
	}
}

func TestParseSysInfoErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `garbage`},
		{"missing section", `{"emeter":{"get_realtime":{"err_code":0}}}`},
		{"device error code", `{"system":{"get_sysinfo":{"err_code":-1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSysInfo([]byte(tt.raw))
			if !protocol.IsKind(err, protocol.KindProtocol) {
				t.Errorf("ParseSysInfo() error = %v, want KindProtocol", err)
			}
		})
	}
}
